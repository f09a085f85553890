package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDumpRoundTrip(t *testing.T) {
	yamlText := []byte(`
target:
  arch: aarch64
  vendor: unknown
  os: linux
  abi: elf
mode: freestanding
`)
	opts, err := Load(yamlText)
	require.NoError(t, err)
	require.Equal(t, AArch64, opts.Target.Arch)
	require.Equal(t, Linux, opts.Target.OS)
	require.Equal(t, ELF, opts.Target.ABI)
	require.Equal(t, Freestanding, opts.Mode)
	require.True(t, opts.Mode.Enabled())

	dumped, err := Dump(opts)
	require.NoError(t, err)

	reloaded, err := Load(dumped)
	require.NoError(t, err)
	require.Equal(t, opts, reloaded)
}

func TestHostedModeNotEnabled(t *testing.T) {
	require.False(t, Hosted.Enabled())
}

func TestTargetTripleToIR(t *testing.T) {
	tt := TargetTriple{Arch: X86_64, Vendor: "pc", OS: Windows, ABI: PE}
	irTT := tt.ToIR()
	require.Equal(t, "x86_64", irTT.Arch)
	require.Equal(t, "pc", irTT.Vendor)
	require.Equal(t, "windows", irTT.OS)
	require.Equal(t, "pe", irTT.ABI)
}
