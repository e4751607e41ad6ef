// Package ast defines the tagged tree of expression variants produced by
// the parser. Every node carries a source location and a mutable Type
// slot filled in by the semantic analyzer (internal/semantic).
package ast

import (
	"strconv"

	"github.com/mini-pl/mplc/internal/token"
	"github.com/mini-pl/mplc/internal/types"
)

// Expression is the closed sum of expression-node variants. Every
// variant embeds base and therefore satisfies this interface.
type Expression interface {
	// Pos returns the node's source location.
	Pos() token.Position
	// Type returns the node's inferred type, types.Unit{} before the
	// semantic analyzer runs.
	Type() types.Type
	// SetType is called by the semantic analyzer to record the
	// inferred type.
	SetType(types.Type)
	// String renders the node for debugging.
	String() string

	exprNode()
}

// base is embedded by every concrete Expression to provide the shared
// location and type fields without repeating accessor boilerplate.
type base struct {
	pos      token.Position
	nodeType types.Type
}

func newBase(pos token.Position) base {
	return base{pos: pos, nodeType: types.Unit{}}
}

func (b *base) Pos() token.Position    { return b.pos }
func (b *base) Type() types.Type       { return b.nodeType }
func (b *base) SetType(t types.Type)   { b.nodeType = t }
func (*base) exprNode()                {}

// Literal is an Int, Bool, or Unit ("None") constant.
type Literal struct {
	base
	// Value holds an int64, a bool, or nil (denoting Unit).
	Value any
}

func NewLiteral(pos token.Position, value any) *Literal {
	return &Literal{base: newBase(pos), Value: value}
}

func (l *Literal) String() string {
	if l.Value == nil {
		return "()"
	}
	return toString(l.Value)
}

// Identifier is a bound or to-be-bound name reference.
type Identifier struct {
	base
	Name string
}

func NewIdentifier(pos token.Position, name string) *Identifier {
	return &Identifier{base: newBase(pos), Name: name}
}

func (i *Identifier) String() string { return i.Name }

// UnaryOperator is a prefix "-" or "not" application.
type UnaryOperator struct {
	base
	Op    string
	Right Expression
}

func NewUnaryOperator(pos token.Position, op string, right Expression) *UnaryOperator {
	return &UnaryOperator{base: newBase(pos), Op: op, Right: right}
}

func (u *UnaryOperator) String() string { return "(" + u.Op + " " + u.Right.String() + ")" }

// BinaryOp is any of + - * / % == != < <= > >= and or =.
type BinaryOp struct {
	base
	Left  Expression
	Op    string
	Right Expression
}

func NewBinaryOp(pos token.Position, left Expression, op string, right Expression) *BinaryOp {
	return &BinaryOp{base: newBase(pos), Left: left, Op: op, Right: right}
}

func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// IfStatement is `if E1 then E2 [else E3]`. ThirdExpr is nil when there is
// no else branch.
type IfStatement struct {
	base
	FirstExpr  Expression
	SecondExpr Expression
	ThirdExpr  Expression // nil if no else branch
}

func NewIfStatement(pos token.Position, first, second, third Expression) *IfStatement {
	return &IfStatement{base: newBase(pos), FirstExpr: first, SecondExpr: second, ThirdExpr: third}
}

func (i *IfStatement) String() string {
	s := "if " + i.FirstExpr.String() + " then " + i.SecondExpr.String()
	if i.ThirdExpr != nil {
		s += " else " + i.ThirdExpr.String()
	}
	return s
}

// WhileStatement is `while E1 do E2`.
type WhileStatement struct {
	base
	ConditionExpr Expression
	BodyExpr      Expression
}

func NewWhileStatement(pos token.Position, cond, body Expression) *WhileStatement {
	return &WhileStatement{base: newBase(pos), ConditionExpr: cond, BodyExpr: body}
}

func (w *WhileStatement) String() string {
	return "while " + w.ConditionExpr.String() + " do " + w.BodyExpr.String()
}

// FunctionCall is `ID(E1, E2, ..., En)`.
type FunctionCall struct {
	base
	FunctionName *Identifier
	Arguments    []Expression
}

func NewFunctionCall(pos token.Position, name *Identifier, args []Expression) *FunctionCall {
	return &FunctionCall{base: newBase(pos), FunctionName: name, Arguments: args}
}

func (f *FunctionCall) String() string {
	s := f.FunctionName.String() + "("
	for i, a := range f.Arguments {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// Block is `{ E1; E2; ...; En [;] }`. ResultExpression duplicates the
// last non-terminated expression; if the block ends in a trailing ';',
// ResultExpression is a Unit Literal instead.
type Block struct {
	base
	Expressions      []Expression
	HasSemicolon     bool
	ResultExpression Expression
}

func NewBlock(pos token.Position, exprs []Expression, hasSemicolon bool, result Expression) *Block {
	return &Block{base: newBase(pos), Expressions: exprs, HasSemicolon: hasSemicolon, ResultExpression: result}
}

func (b *Block) String() string {
	s := "{ "
	for _, e := range b.Expressions {
		s += e.String() + "; "
	}
	return s + "}"
}

// VariableDeclaration is `var id [: T] = E`.
type VariableDeclaration struct {
	base
	ID      *Identifier
	Expr    Expression
	VarType types.Type // nil if no annotation was given
}

func NewVariableDeclaration(pos token.Position, id *Identifier, expr Expression, varType types.Type) *VariableDeclaration {
	return &VariableDeclaration{base: newBase(pos), ID: id, Expr: expr, VarType: varType}
}

func (v *VariableDeclaration) String() string {
	return "var " + v.ID.String() + " = " + v.Expr.String()
}

// EmptyInput is the AST produced when parsing an empty token stream.
type EmptyInput struct {
	base
}

func NewEmptyInput(pos token.Position) *EmptyInput {
	return &EmptyInput{base: newBase(pos)}
}

func (*EmptyInput) String() string { return "" }

func toString(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return "()"
	}
}
