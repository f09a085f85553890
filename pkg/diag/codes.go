package diag

// Code is a numeric diagnostic code, grouped by subsystem per spec.md §6:
// lex 1000-1099, parse 1100-1999, sem 2000-2999, check 3000-3999.
type Code int

const (
	// Lexer diagnostics (1000-1099).
	LexInvalidUTF8        Code = 1000
	LexInvalidChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexInvalidBaseHex     Code = 1010
	LexInvalidBaseBin     Code = 1011
	LexInvalidBaseOct     Code = 1012
	LexInvalidExponent    Code = 1013

	// Parser diagnostics (1100-1999).
	ParseExpectedToken     Code = 1100
	ParseInvalidExpr       Code = 1101
	ParseReservedFeature   Code = 1102
	ParseInvalidVarDecl    Code = 1103
	ParseInvalidStatement  Code = 1104
	ParseInvalidType       Code = 1105
	ParseInvalidInterrupt  Code = 1106

	// Semantic analyzer diagnostics (2000-2999).
	SemDuplicateSymbol             Code = 2000
	SemUndefinedIdentifier         Code = 2001
	SemTypeMismatch                Code = 2002
	SemArgumentCountMismatch       Code = 2003
	SemBreakContinueOutsideLoop    Code = 2004
	SemPrivateAccess               Code = 2005
	SemNotLvalue                   Code = 2006
	SemAssignToConst               Code = 2007
	SemNotAFunction                Code = 2008
	SemUnknownField                Code = 2009
	SemUnknownModule               Code = 2010
	SemDuplicateCase               Code = 2011
	SemMultipleDefault             Code = 2012
	SemNotAStruct                  Code = 2013
	SemNotAnEnum                   Code = 2014
	SemInvalidIndex                Code = 2015
	SemInvalidUnary                Code = 2016
	SemInvalidBinary               Code = 2017
	SemInvalidReturn                Code = 2018

	// Freestanding checker diagnostics (3000-3999).
	CheckFreestandingForbidden Code = 3000
)
