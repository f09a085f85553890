package irgen

import "github.com/huayulang/huac/internal/types"

// typeSize is a nominal element-size placeholder used only to populate the
// element_size argument the runtime array/memory calls expect (spec.md §6
// runtime name contracts). Real layout and alignment are the backend's
// responsibility — register allocation and machine-code emission are
// explicitly out of scope (spec.md §1 Non-goals) — so this is a pragmatic
// stand-in, not an ABI.
func typeSize(t types.Type) int64 {
	switch t.Kind {
	case types.Bool:
		return 1
	case types.Struct:
		var total int64
		for _, f := range t.Fields {
			total += typeSize(f.Type)
		}
		if total == 0 {
			return 8
		}
		return total
	default:
		return 8
	}
}
