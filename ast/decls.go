// decls.go contains top-level declaration nodes: functions, structs, enums
// and the unresolved type syntax the parser produces, together with Root,
// the entry point of a whole compiled program.

package ast

import (
	"stackc/token"
	"stackc/types"
)

// TypeExpr is the unresolved syntax for a type annotation, as written by the
// programmer ("int", "Point", "[4]int"). Typegen resolves it to a
// types.TypeInfo.
type TypeExpr struct {
	Name     token.Token // base type name: "int" or a struct/enum identifier
	Elements int64       // > 0 for an array type "[N]T"
	Elem     *TypeExpr   // element type, set when Elements > 0
}

// Param is a single function parameter: a name plus its declared type.
type Param struct {
	Name         token.Token
	TypeExpr     TypeExpr
	ResolvedType types.TypeInfo
	Sym          *types.Symbol
}

// Func is a function declaration. A function written "@fn" rather than "fn"
// is comptime-only: the translator never emits it into the final whole
// program image, matching the source language's "@call(...)" sites, which
// are the only callers that may invoke it.
type Func struct {
	Name       token.Token
	Params     []Param
	ReturnType TypeExpr
	Body       *BlockStmt
	IsComptime bool
	IsMain     bool

	ResolvedReturnType types.TypeInfo
	Sym                *types.Symbol

	// CodeOffset is the byte offset of this function's FUNCPRO instruction
	// in the final image, assigned by the translator when the function is
	// emitted.
	CodeOffset uint32
}

// StructMemberDecl is a single field of a struct declaration.
type StructMemberDecl struct {
	Name     token.Token
	TypeExpr TypeExpr
}

// StructDecl declares a struct type and its members, in declaration order.
type StructDecl struct {
	Name    token.Token
	Members []StructMemberDecl

	ResolvedType *types.Struct
}

// EnumDecl declares an enum type and its values, in declaration order
// (value N has ordinal N).
type EnumDecl struct {
	Name   token.Token
	Values []token.Token

	ResolvedType *types.Enum
}

// Root is the top of a parsed program: every global variable, function,
// struct and enum declaration, plus every compile-time call site collected
// so the driver can resolve them to a fixed point.
type Root struct {
	Globals []*VarStmt
	Funcs   []*Func
	Structs []*StructDecl
	Enums   []*EnumDecl

	// PendingCalls holds every Call node (anywhere in the tree) marked
	// Comptime and not yet resolved, collected once per driver iteration.
	PendingCalls []*Call

	// Main is the program's entry point function, named "main".
	Main *Func

	Symbols *types.SymbolTable
}
