// Package types defines the small algebraic type domain of the language:
// Int, Bool, Unit, and function types built from them.
package types

import "strings"

// Type is the closed sum of type-checker types. Every concrete type
// implements structural Equal and a human-readable String.
type Type interface {
	// Equal reports whether two types are structurally identical.
	Equal(other Type) bool
	String() string
}

// Int is the type of integer literals and arithmetic results.
type Int struct{}

func (Int) Equal(other Type) bool { _, ok := other.(Int); return ok }
func (Int) String() string        { return "Int" }

// Bool is the type of boolean literals and comparison/logical results.
type Bool struct{}

func (Bool) Equal(other Type) bool { _, ok := other.(Bool); return ok }
func (Bool) String() string        { return "Bool" }

// Unit is the type of statements that produce no value: blocks ending in
// ';', while-loops, var declarations, and if-without-else.
type Unit struct{}

func (Unit) Equal(other Type) bool { _, ok := other.(Unit); return ok }
func (Unit) String() string        { return "Unit" }

// FunType is the type of an operator or builtin: a fixed parameter list and
// a return type. There is no currying, polymorphism, or partial application.
type FunType struct {
	Params     []Type
	ReturnType Type
}

func (f FunType) Equal(other Type) bool {
	o, ok := other.(FunType)
	if !ok || len(f.Params) != len(o.Params) {
		return false
	}
	for i, p := range f.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}
	return f.ReturnType.Equal(o.ReturnType)
}

func (f FunType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + f.ReturnType.String()
}
