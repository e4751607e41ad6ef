// Package ir defines the linear, label-and-jump three-address
// instruction set that internal/irgen lowers the typed AST into, and
// that internal/codegen lowers into x86-64 assembly.
package ir

import (
	"fmt"

	"github.com/mini-pl/mplc/internal/token"
)

// Var is an IR temporary or named value. Equality is by Name.
type Var struct {
	Name string
}

// Unit is the distinguished variable representing the unit value. It
// never needs a storage slot.
var Unit = Var{Name: "unit"}

func (v Var) String() string { return v.Name }

// Label names a jump target. A Label also acts as a pseudo-instruction
// inserted directly into the instruction stream at the point it marks.
type Label struct {
	Name string
}

func (l Label) String() string { return "Label(" + l.Name + ")" }

// Instruction is the closed sum of IR instruction variants. Every
// variant carries the source location it was lowered from.
type Instruction interface {
	Pos() token.Position
	String() string
	instructionNode()
}

type base struct {
	pos token.Position
}

func (b base) Pos() token.Position { return b.pos }
func (base) instructionNode()      {}

// LoadIntConst loads an integer constant into Dest.
type LoadIntConst struct {
	base
	Value int64
	Dest  Var
}

func NewLoadIntConst(pos token.Position, value int64, dest Var) *LoadIntConst {
	return &LoadIntConst{base: base{pos}, Value: value, Dest: dest}
}

func (i *LoadIntConst) String() string {
	return fmt.Sprintf("LoadIntConst(%d, %s)", i.Value, i.Dest)
}

// LoadBoolConst loads a boolean constant into Dest.
type LoadBoolConst struct {
	base
	Value bool
	Dest  Var
}

func NewLoadBoolConst(pos token.Position, value bool, dest Var) *LoadBoolConst {
	return &LoadBoolConst{base: base{pos}, Value: value, Dest: dest}
}

func (i *LoadBoolConst) String() string {
	return fmt.Sprintf("LoadBoolConst(%t, %s)", i.Value, i.Dest)
}

// Copy copies Source into Dest.
type Copy struct {
	base
	Source Var
	Dest   Var
}

func NewCopy(pos token.Position, source, dest Var) *Copy {
	return &Copy{base: base{pos}, Source: source, Dest: dest}
}

func (i *Copy) String() string { return fmt.Sprintf("Copy(%s, %s)", i.Source, i.Dest) }

// Call invokes Fun (an operator, intrinsic, or external function) with
// Args and stores the result in Dest.
type Call struct {
	base
	Fun  Var
	Args []Var
	Dest Var
}

func NewCall(pos token.Position, fun Var, args []Var, dest Var) *Call {
	return &Call{base: base{pos}, Fun: fun, Args: args, Dest: dest}
}

func (i *Call) String() string { return fmt.Sprintf("Call(%s, %v, %s)", i.Fun, i.Args, i.Dest) }

// Jump unconditionally transfers control to Label.
type Jump struct {
	base
	Label Label
}

func NewJump(pos token.Position, label Label) *Jump {
	return &Jump{base: base{pos}, Label: label}
}

func (i *Jump) String() string { return fmt.Sprintf("Jump(%s)", i.Label) }

// CondJump transfers control to ThenLabel if Cond is non-zero,
// otherwise to ElseLabel.
type CondJump struct {
	base
	Cond      Var
	ThenLabel Label
	ElseLabel Label
}

func NewCondJump(pos token.Position, cond Var, thenLabel, elseLabel Label) *CondJump {
	return &CondJump{base: base{pos}, Cond: cond, ThenLabel: thenLabel, ElseLabel: elseLabel}
}

func (i *CondJump) String() string {
	return fmt.Sprintf("CondJump(%s, %s, %s)", i.Cond, i.ThenLabel, i.ElseLabel)
}

// LabelInstruction is a Label placed into the instruction stream to mark
// a jump target.
type LabelInstruction struct {
	base
	Label Label
}

func NewLabelInstruction(pos token.Position, label Label) *LabelInstruction {
	return &LabelInstruction{base: base{pos}, Label: label}
}

func (i *LabelInstruction) String() string { return i.Label.String() }
