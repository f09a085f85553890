package irgen

// builtinLength and builtinPrint duplicate the two positionally-recognized
// built-in names from internal/semantic/builtins.go — irgen needs the same
// names to special-case call lowering (spec.md §4.5) but cannot import the
// semantic package (semantic depends on nothing downstream of AST/scope,
// and importing it here would be a backwards, irgen-into-semantic layering
// violation).
const (
	builtinLength = "长度"
	builtinPrint  = "打印"
)

var builtinCallNames = map[string]bool{
	builtinLength: true,
	builtinPrint:  true,
}

// builtinMethodNames mirrors builtinMethodNames in internal/semantic/builtins.go:
// method-style call sites (x.长度()) that lower the same way as the
// function-style form.
var builtinMethodNames = map[string]bool{
	builtinLength: true,
}
