// Package config gives spec.md §6's target-triple and compile-mode inputs
// to generate_ir a concrete, serializable shape, loadable from and
// dumpable to YAML via goccy/go-yaml — the same engine the teacher's
// dependency graph already carries transitively through go-snaps.
package config

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/huayulang/huac/internal/ir"
)

// Arch enumerates spec.md §6's target-triple architecture set.
type Arch string

const (
	X86_64  Arch = "x86_64"
	AArch64 Arch = "aarch64"
	RISCV32 Arch = "riscv32"
	RISCV64 Arch = "riscv64"
)

// OS enumerates spec.md §6's target-triple os set.
type OS string

const (
	Linux   OS = "linux"
	Windows OS = "windows"
	MacOS   OS = "macos"
	NoOS    OS = "none"
)

// ABI enumerates spec.md §6's target-triple abi set.
type ABI string

const (
	ELF   ABI = "elf"
	PE    ABI = "pe"
	MachO ABI = "macho"
)

// TargetTriple is the (arch, vendor, os, abi) quadruple spec.md §6 defines
// as an input to generate_ir, given YAML tags so an embedder can hand
// `huac` a target description instead of constructing this by hand.
type TargetTriple struct {
	Arch   Arch   `yaml:"arch"`
	Vendor string `yaml:"vendor"`
	OS     OS     `yaml:"os"`
	ABI    ABI    `yaml:"abi"`
}

// ToIR converts to the internal/ir package's TargetTriple, the shape
// generate_ir actually consumes.
func (t TargetTriple) ToIR() ir.TargetTriple {
	return ir.TargetTriple{Arch: string(t.Arch), Vendor: t.Vendor, OS: string(t.OS), ABI: string(t.ABI)}
}

// CompileMode mirrors spec.md §6: hosted permits all built-ins,
// freestanding forbids file I/O, console input, the standard allocator,
// and related hosted-only names.
type CompileMode string

const (
	Hosted       CompileMode = "hosted"
	Freestanding CompileMode = "freestanding"
)

// ToIR converts to the internal/ir package's CompileMode.
func (m CompileMode) ToIR() ir.CompileMode {
	if m == Freestanding {
		return ir.Freestanding
	}
	return ir.Hosted
}

// Enabled reports whether the freestanding checker should run (spec.md §6
// check_freestanding's `enabled` argument).
func (m CompileMode) Enabled() bool { return m == Freestanding }

// Options is the full set of inputs an embedder supplies for one
// compilation, round-tripped through a `huac.yaml` file.
type Options struct {
	Target TargetTriple `yaml:"target"`
	Mode   CompileMode  `yaml:"mode"`
}

// Load parses YAML bytes into Options.
func Load(data []byte) (Options, error) {
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("config: parse yaml: %w", err)
	}
	return o, nil
}

// Dump serializes o back to YAML bytes.
func Dump(o Options) ([]byte, error) {
	data, err := yaml.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("config: marshal yaml: %w", err)
	}
	return data, nil
}
