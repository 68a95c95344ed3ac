// Package types describes the resolved type system and symbol table the
// frontend hands to the bytecode translator. Every expression the core
// consumes carries a TypeInfo; every struct type exposes ordered members
// with byte offsets, matching the symbol contract the translator relies on.
package types

import "fmt"

// WordSize is the width of a single stack slot, in bytes.
const WordSize = 8

// AlignWord rounds n up to the next multiple of WordSize.
func AlignWord(n int64) int64 {
	return (n + WordSize - 1) &^ (WordSize - 1)
}

// BytesToWords rounds n bytes up to a whole number of words.
func BytesToWords(n int64) int64 {
	return AlignWord(n) / WordSize
}

// Kind discriminates the concrete shape of a TypeInfo.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindArray
	KindStruct
	KindEnum
	KindFunc
	KindVoid
)

// TypeInfo is the resolved type of an expression, symbol, or declaration.
// Every concrete type below satisfies it.
type TypeInfo interface {
	Kind() Kind
	ByteSize() int64
	String() string
}

// Int is the language's only scalar numeric type: a 64-bit signed word.
type Int struct{}

func (Int) Kind() Kind       { return KindInt }
func (Int) ByteSize() int64  { return WordSize }
func (Int) String() string   { return "int" }

// Bool is represented identically to Int at runtime (0 or 1 in a word);
// it exists as a distinct TypeInfo purely for type-checking diagnostics.
type Bool struct{}

func (Bool) Kind() Kind      { return KindBool }
func (Bool) ByteSize() int64 { return WordSize }
func (Bool) String() string  { return "bool" }

// Void is the return type of a function declared without a result.
type Void struct{}

func (Void) Kind() Kind      { return KindVoid }
func (Void) ByteSize() int64 { return 0 }
func (Void) String() string  { return "void" }

// Array is a fixed-length, word-padded sequence of a single element type.
type Array struct {
	Elem     TypeInfo
	Elements int64
}

func (a Array) Kind() Kind { return KindArray }

// ByteSize reserves elements * word_align(element_size), matching the
// globals-space layout the translator computes when it reserves storage
// for an array.
func (a Array) ByteSize() int64 {
	return a.Elements * AlignWord(a.Elem.ByteSize())
}

func (a Array) String() string {
	return fmt.Sprintf("[%d]%s", a.Elements, a.Elem)
}

// StructMember is one field of a Struct, laid out at a word-aligned byte
// offset from the struct's own base.
type StructMember struct {
	Name       string
	Type       TypeInfo
	ByteOffset int64
}

// Struct is a word-granular packed aggregate: every member, regardless of
// its own size, occupies a whole number of words so that a single LDBP/STBP
// (or LDA/STA) immediate can address it.
type Struct struct {
	Name    string
	Members []StructMember
}

func (s *Struct) Kind() Kind { return KindStruct }

func (s *Struct) ByteSize() int64 {
	var total int64
	for _, m := range s.Members {
		total += AlignWord(m.Type.ByteSize())
	}
	return total
}

func (s *Struct) String() string { return s.Name }

// Member looks up a member by name, returning ok=false if absent.
func (s *Struct) Member(name string) (StructMember, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return StructMember{}, false
}

// Enum is a named set of integer constants, one word wide.
type Enum struct {
	Name   string
	Values []string
}

func (e *Enum) Kind() Kind      { return KindEnum }
func (e *Enum) ByteSize() int64 { return WordSize }
func (e *Enum) String() string  { return e.Name }

// Ordinal returns the zero-based declaration order of a value name.
func (e *Enum) Ordinal(name string) (int64, bool) {
	for i, v := range e.Values {
		if v == name {
			return int64(i), true
		}
	}
	return 0, false
}

// Func describes a function's signature. It carries no runtime ByteSize of
// its own; IsComptime marks a function the translator skips entirely when
// emitting the final whole-program image.
type Func struct {
	Name       string
	Params     []TypeInfo
	Return     TypeInfo
	IsComptime bool
}

func (f *Func) Kind() Kind      { return KindFunc }
func (f *Func) ByteSize() int64 { return 0 }
func (f *Func) String() string  { return f.Name }

// SymbolKind classifies what a Symbol names: a type, a function, or one of
// the storage classes a variable can resolve to (global, local, parameter,
// struct member).
type SymbolKind int

const (
	SymType SymbolKind = iota
	SymFunc
	SymGlobalVar
	SymLocalVar
	SymParam
	SymMember
)

func (k SymbolKind) String() string {
	switch k {
	case SymType:
		return "type"
	case SymFunc:
		return "func"
	case SymGlobalVar:
		return "global_var"
	case SymLocalVar:
		return "local_var"
	case SymParam:
		return "param"
	case SymMember:
		return "member"
	default:
		return "unknown"
	}
}

// Symbol is a single name -> (kind, type) binding.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type TypeInfo
}

// SymbolTable is a single lexical level of name resolution: a root table for
// globals, structs, enums and functions, or a per-block table for locals and
// parameters. LookupLocal never crosses into Parent automatically — callers that
// want the full chain use Resolve.
type SymbolTable struct {
	Parent  *SymbolTable
	order   []string
	symbols map[string]*Symbol
}

// NewSymbolTable creates an empty table chained to parent (nil for the root).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{Parent: parent, symbols: make(map[string]*Symbol)}
}

// Define adds a new symbol to this table. It is an error to redefine a name
// already present in this exact table (shadowing an outer table is fine).
func (t *SymbolTable) Define(sym *Symbol) error {
	if _, exists := t.symbols[sym.Name]; exists {
		return fmt.Errorf("redefinition of %q in the same scope", sym.Name)
	}
	t.symbols[sym.Name] = sym
	t.order = append(t.order, sym.Name)
	return nil
}

// LookupLocal reports whether name is defined directly in this table,
// without consulting Parent.
func (t *SymbolTable) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Resolve walks this table and its ancestors, innermost first.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for s := t; s != nil; s = s.Parent {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Ordered returns this table's own symbols in declaration order.
func (t *SymbolTable) Ordered() []*Symbol {
	syms := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		syms = append(syms, t.symbols[name])
	}
	return syms
}
