package token

// keywords is the exact-byte-string keyword catalog of spec.md §6. The
// lexer looks up a scanned identifier lexeme here; any miss falls back to
// IDENT. Scenarios S1-S6 of spec.md §8 fix several of these byte strings
// exactly (函数, 返回, 变量, 整数, 模块, 导入, 公开, 类, 中断); the rest
// follow the same naming register.
var keywords = map[string]Kind{
	"如果": IF,
	"否则": ELSE,
	"函数": FN,
	"返回": RETURN,
	"变量": VAR,
	"常量": CONST,
	"整数": INT_TYPE,
	"浮点数": FLOAT_TYPE,
	"布尔": BOOL_TYPE,
	"字符串": STRING_TYPE,
	"数组": ARRAY,
	"结构体": STRUCT,
	"枚举": ENUM,
	"当":  WHILE,
	"循环": FOR,
	"中断": BREAK,
	"继续": CONTINUE,
	"选择": SWITCH,
	"情况": CASE,
	"默认": DEFAULT,
	"真":  TRUE,
	"假":  FALSE,
	"空":  NULL,
	"无":  VOID,
	"模块": MODULE,
	"导入": IMPORT,
	"作为": AS,
	"命名空间": NAMESPACE,
	"接口":   INTERFACE,
	"类":    CLASS,
	"模板":   TEMPLATE,
	"静态":   STATIC,
	"公开":   PUBLIC,
	"私有":   PRIVATE,
	"受保护":  PROTECTED,
	"虚拟":   VIRTUAL,
	"重写":   OVERRIDE,
	"抽象":   ABSTRACT,
	"内存地址": MEMORY_ADDRESS,
	"读取内存": READ_MEMORY,
	"写入内存": WRITE_MEMORY,
	"拷贝内存": MEMORY_COPY,
	"填充内存": MEMORY_SET,
	"映射内存": MAP_MEMORY,
	"解除映射": UNMAP_MEMORY,
	"内联汇编": INLINE_ASM,
	"中断处理程序": INTERRUPT_HANDLER,
}

// reservedFeatures is the subset of the catalog that tokenizes as a keyword
// but names an unimplemented language feature (spec.md §4.3 "Reserved
// keyword policy"). Encountering one at a top-level declaration position is
// a parse error, not a lex error.
var reservedFeatures = map[Kind]bool{
	CLASS:      true,
	INTERFACE:  true,
	TEMPLATE:   true,
	NAMESPACE:  true,
	STATIC:     true,
	PUBLIC:     true,
	PRIVATE:    true,
	PROTECTED:  true,
	VIRTUAL:    true,
	OVERRIDE:   true,
	ABSTRACT:   true,
}

// LookupIdent returns the keyword Kind for lexeme, or IDENT if it is not a
// recognized keyword. Matching is exact UTF-8 byte comparison, per
// spec.md §4.2.
func LookupIdent(lexeme string) Kind {
	if kind, ok := keywords[lexeme]; ok {
		return kind
	}
	return IDENT
}

// IsReservedFeature reports whether kind names a syntactically recognized
// but unimplemented keyword (spec.md §4.3).
func IsReservedFeature(kind Kind) bool {
	return reservedFeatures[kind]
}
