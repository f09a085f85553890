package semantic

// Built-in names recognized positionally rather than through the symbol
// table (spec.md §4.4.3 "Built-in length function" / §4.5's print
// special-casing). Neither is a keyword: 长度 ("length") and 打印
// ("print") behave like Go's len/print — ordinary-looking identifiers the
// compiler treats specially at call sites instead of resolving through
// scope lookup.
const (
	builtinLength = "长度"
	builtinPrint  = "打印"
)

var builtinNames = map[string]bool{
	builtinLength: true,
	builtinPrint:  true,
}

// builtinMethodNames lists the Chinese method names that may appear as
// the right side of a zero-argument method-style call (x.长度()) and are
// equivalent to the function-style built-in of the same name.
var builtinMethodNames = map[string]bool{
	builtinLength: true,
}

// hostedOnlyCallNames lists built-in call names that the freestanding
// checker (spec.md §6 "hosted permits all built-ins; freestanding
// forbids file I/O, console input, standard allocator, and related
// hosted-only names") rejects when compile mode is freestanding. The
// freestanding checker recognizes them by exact name at the call site.
// Unlike 长度/打印, name resolution and type checking have no entry for
// them: ResolveNames reports a call to one of these names as an undefined
// identifier, in either mode, unless the program declares a function of
// that name.
var hostedOnlyCallNames = map[string]bool{
	"打开文件": true, // open_file
	"读取文件": true, // read_file
	"写入文件": true, // write_file
	"关闭文件": true, // close_file
	"读取输入": true, // read console input
	"分配内存": true, // standard allocator: alloc
	"释放内存": true, // standard allocator: free
}
