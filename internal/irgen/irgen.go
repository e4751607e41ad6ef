// Package irgen lowers a type-checked AST into the linear IR defined by
// internal/ir, using a monotonic temp counter, a label minter, and a
// scoped symbol table of source names to IR variables.
package irgen

import (
	"fmt"

	"github.com/mini-pl/mplc/internal/ast"
	"github.com/mini-pl/mplc/internal/cerrors"
	"github.com/mini-pl/mplc/internal/ir"
	"github.com/mini-pl/mplc/internal/token"
	"github.com/mini-pl/mplc/internal/types"
)

// varScope is a linked, parent-pointer scope mapping source names to
// IRVars, entered fresh for each Block.
type varScope struct {
	parent *varScope
	names  map[string]ir.Var
}

func (s *varScope) lookup(name string) (ir.Var, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.names[name]; ok {
			return v, true
		}
	}
	return ir.Var{}, false
}

func (s *varScope) define(name string, v ir.Var) {
	s.names[name] = v
}

func (s *varScope) child() *varScope {
	return &varScope{parent: s, names: map[string]ir.Var{}}
}

// Generator lowers AST expressions into a flat IR instruction list.
type Generator struct {
	instructions []ir.Instruction
	tempCounter  int
	labelCounter int
	source       string
}

// NewGenerator creates a Generator. source is attached to any IRError
// produced.
func NewGenerator(source string) *Generator {
	return &Generator{source: source}
}

// Generate lowers root (whose static type must already be set by
// internal/semantic) and returns the full instruction list, including
// a trailing print_int/print_bool call appended per the root's type.
// reservedNames are bound 1:1 to an IRVar of the same name in the root
// scope (operators and builtins from the type checker's global table).
func Generate(root ast.Expression, reservedNames []string, source string) ([]ir.Instruction, error) {
	g := NewGenerator(source)

	rootScope := &varScope{names: map[string]ir.Var{}}
	for _, name := range reservedNames {
		rootScope.define(name, ir.Var{Name: name})
	}

	result, err := g.visit(rootScope, root)
	if err != nil {
		return nil, err
	}

	switch root.Type().(type) {
	case types.Int:
		g.emit(ir.NewCall(token.Any, ir.Var{Name: "print_int"}, []ir.Var{result}, g.newTemp()))
	case types.Bool:
		g.emit(ir.NewCall(token.Any, ir.Var{Name: "print_bool"}, []ir.Var{result}, g.newTemp()))
	}

	return g.instructions, nil
}

func (g *Generator) emit(instr ir.Instruction) {
	g.instructions = append(g.instructions, instr)
}

func (g *Generator) newTemp() ir.Var {
	g.tempCounter++
	return ir.Var{Name: fmt.Sprintf("x%d", g.tempCounter)}
}

func (g *Generator) newLabel(base string) ir.Label {
	g.labelCounter++
	return ir.Label{Name: fmt.Sprintf("%s%d", base, g.labelCounter)}
}

func (g *Generator) visit(scope *varScope, expr ast.Expression) (ir.Var, error) {
	pos := expr.Pos()
	switch node := expr.(type) {
	case *ast.Literal:
		return g.visitLiteral(node)
	case *ast.Identifier:
		v, ok := scope.lookup(node.Name)
		if !ok {
			return ir.Var{}, cerrors.New(cerrors.IR, pos, "unresolved identifier %q reached IR generation", node.Name).WithSource(g.source)
		}
		return v, nil
	case *ast.BinaryOp:
		return g.visitBinaryOp(scope, node)
	case *ast.UnaryOperator:
		return g.visitUnary(scope, node)
	case *ast.IfStatement:
		return g.visitIf(scope, node)
	case *ast.WhileStatement:
		return g.visitWhile(scope, node)
	case *ast.Block:
		return g.visitBlock(scope, node)
	case *ast.VariableDeclaration:
		return g.visitVarDecl(scope, node)
	case *ast.FunctionCall:
		return g.visitCall(scope, node)
	case *ast.EmptyInput:
		return ir.Unit, nil
	default:
		return ir.Var{}, cerrors.New(cerrors.IR, pos, "unsupported AST node %T reached IR generation", expr).WithSource(g.source)
	}
}

func (g *Generator) visitLiteral(lit *ast.Literal) (ir.Var, error) {
	switch v := lit.Value.(type) {
	case bool:
		dest := g.newTemp()
		g.emit(ir.NewLoadBoolConst(lit.Pos(), v, dest))
		return dest, nil
	case int64:
		dest := g.newTemp()
		g.emit(ir.NewLoadIntConst(lit.Pos(), v, dest))
		return dest, nil
	case nil:
		return ir.Unit, nil
	default:
		return ir.Var{}, cerrors.New(cerrors.IR, lit.Pos(), "unsupported literal value %v", lit.Value).WithSource(g.source)
	}
}

// visitBinaryOp lowers "and"/"or" with short-circuit jump shapes and
// every other binary operator as a plain Call.
func (g *Generator) visitBinaryOp(scope *varScope, b *ast.BinaryOp) (ir.Var, error) {
	switch b.Op {
	case "and":
		return g.visitAnd(scope, b)
	case "or":
		return g.visitOr(scope, b)
	case "=":
		return g.visitAssign(scope, b)
	default:
		left, err := g.visit(scope, b.Left)
		if err != nil {
			return ir.Var{}, err
		}
		right, err := g.visit(scope, b.Right)
		if err != nil {
			return ir.Var{}, err
		}
		dest := g.newTemp()
		g.emit(ir.NewCall(b.Pos(), ir.Var{Name: b.Op}, []ir.Var{left, right}, dest))
		return dest, nil
	}
}

func (g *Generator) visitAnd(scope *varScope, b *ast.BinaryOp) (ir.Var, error) {
	pos := b.Pos()
	result := g.newTemp()
	lRight := g.newLabel("and_right")
	lSkip := g.newLabel("and_skip")
	lEnd := g.newLabel("and_end")

	left, err := g.visit(scope, b.Left)
	if err != nil {
		return ir.Var{}, err
	}
	g.emit(ir.NewCondJump(pos, left, lRight, lSkip))

	g.emit(ir.NewLabelInstruction(pos, lRight))
	right, err := g.visit(scope, b.Right)
	if err != nil {
		return ir.Var{}, err
	}
	g.emit(ir.NewCopy(pos, right, result))
	g.emit(ir.NewJump(pos, lEnd))

	g.emit(ir.NewLabelInstruction(pos, lSkip))
	g.emit(ir.NewCopy(pos, left, result))
	g.emit(ir.NewJump(pos, lEnd))

	g.emit(ir.NewLabelInstruction(pos, lEnd))
	return result, nil
}

func (g *Generator) visitOr(scope *varScope, b *ast.BinaryOp) (ir.Var, error) {
	pos := b.Pos()
	result := g.newTemp()
	lSkip := g.newLabel("or_skip")
	lRight := g.newLabel("or_right")
	lEnd := g.newLabel("or_end")

	left, err := g.visit(scope, b.Left)
	if err != nil {
		return ir.Var{}, err
	}
	g.emit(ir.NewCondJump(pos, left, lSkip, lRight))

	g.emit(ir.NewLabelInstruction(pos, lRight))
	right, err := g.visit(scope, b.Right)
	if err != nil {
		return ir.Var{}, err
	}
	g.emit(ir.NewCopy(pos, right, result))
	g.emit(ir.NewJump(pos, lEnd))

	g.emit(ir.NewLabelInstruction(pos, lSkip))
	g.emit(ir.NewCopy(pos, left, result))
	g.emit(ir.NewJump(pos, lEnd))

	g.emit(ir.NewLabelInstruction(pos, lEnd))
	return result, nil
}

// visitAssign lowers "=" as a non-short-circuit binary, except that when
// the left side is an identifier, the scope rebinds that name to the
// right-hand IRVar so later reads see the new value.
func (g *Generator) visitAssign(scope *varScope, b *ast.BinaryOp) (ir.Var, error) {
	right, err := g.visit(scope, b.Right)
	if err != nil {
		return ir.Var{}, err
	}
	if id, ok := b.Left.(*ast.Identifier); ok {
		scope.define(id.Name, right)
		return ir.Unit, nil
	}
	// Non-identifier assignment targets do not occur in a well-typed
	// program reaching this stage (the type checker requires an
	// Identifier on the left for the binding update, though the
	// grammar would admit other expressions syntactically).
	if _, err := g.visit(scope, b.Left); err != nil {
		return ir.Var{}, err
	}
	return ir.Unit, nil
}

func (g *Generator) visitUnary(scope *varScope, u *ast.UnaryOperator) (ir.Var, error) {
	operand, err := g.visit(scope, u.Right)
	if err != nil {
		return ir.Var{}, err
	}
	dest := g.newTemp()
	switch u.Op {
	case "-":
		g.emit(ir.NewCall(u.Pos(), ir.Var{Name: "unary_-"}, []ir.Var{operand}, dest))
	case "not":
		g.emit(ir.NewCall(u.Pos(), ir.Var{Name: "unary_not"}, []ir.Var{operand}, dest))
	default:
		return ir.Var{}, cerrors.New(cerrors.IR, u.Pos(), "unsupported unary operator %q", u.Op).WithSource(g.source)
	}
	return dest, nil
}

// visitIf lowers if-with-else and if-without-else into CondJump shapes.
// The without-else form lowers the then-body expression itself, not the
// "then" keyword token, and yields unit. The with-else form copies each
// branch's value into a shared result temp and yields it, unless the if
// has type Unit, in which case it yields unit.
func (g *Generator) visitIf(scope *varScope, i *ast.IfStatement) (ir.Var, error) {
	pos := i.Pos()
	if i.ThirdExpr == nil {
		lThen := g.newLabel("then")
		lEnd := g.newLabel("if_end")

		cond, err := g.visit(scope, i.FirstExpr)
		if err != nil {
			return ir.Var{}, err
		}
		g.emit(ir.NewCondJump(pos, cond, lThen, lEnd))

		g.emit(ir.NewLabelInstruction(pos, lThen))
		if _, err := g.visit(scope, i.SecondExpr); err != nil {
			return ir.Var{}, err
		}

		g.emit(ir.NewLabelInstruction(pos, lEnd))
		return ir.Unit, nil
	}

	result := ir.Unit
	if _, isUnit := i.Type().(types.Unit); !isUnit {
		result = g.newTemp()
	}
	lThen := g.newLabel("then")
	lElse := g.newLabel("else")
	lEnd := g.newLabel("if_end")

	cond, err := g.visit(scope, i.FirstExpr)
	if err != nil {
		return ir.Var{}, err
	}
	g.emit(ir.NewCondJump(pos, cond, lThen, lElse))

	g.emit(ir.NewLabelInstruction(pos, lThen))
	thenVal, err := g.visit(scope, i.SecondExpr)
	if err != nil {
		return ir.Var{}, err
	}
	if result != ir.Unit {
		g.emit(ir.NewCopy(pos, thenVal, result))
	}
	g.emit(ir.NewJump(pos, lEnd))

	g.emit(ir.NewLabelInstruction(pos, lElse))
	elseVal, err := g.visit(scope, i.ThirdExpr)
	if err != nil {
		return ir.Var{}, err
	}
	if result != ir.Unit {
		g.emit(ir.NewCopy(pos, elseVal, result))
	}

	g.emit(ir.NewLabelInstruction(pos, lEnd))
	return result, nil
}

func (g *Generator) visitWhile(scope *varScope, w *ast.WhileStatement) (ir.Var, error) {
	pos := w.Pos()
	lStart := g.newLabel("while_start")
	lBody := g.newLabel("while_body")
	lEnd := g.newLabel("while_end")

	g.emit(ir.NewLabelInstruction(pos, lStart))
	cond, err := g.visit(scope, w.ConditionExpr)
	if err != nil {
		return ir.Var{}, err
	}
	g.emit(ir.NewCondJump(pos, cond, lBody, lEnd))

	g.emit(ir.NewLabelInstruction(pos, lBody))
	if _, err := g.visit(scope, w.BodyExpr); err != nil {
		return ir.Var{}, err
	}
	g.emit(ir.NewJump(pos, lStart))

	g.emit(ir.NewLabelInstruction(pos, lEnd))
	return ir.Unit, nil
}

// visitBlock lowers each statement in order. When the block has no
// trailing ";", ResultExpression is the same node as the last element of
// Expressions, so it is not visited a second time; when it does have a
// trailing ";", ResultExpression is a synthetic Unit literal lowered on
// its own.
func (g *Generator) visitBlock(scope *varScope, b *ast.Block) (ir.Var, error) {
	child := scope.child()
	last := ir.Unit
	for _, e := range b.Expressions {
		v, err := g.visit(child, e)
		if err != nil {
			return ir.Var{}, err
		}
		last = v
	}
	if b.HasSemicolon {
		return g.visit(child, b.ResultExpression)
	}
	return last, nil
}

// visitVarDecl binds the declared name to the RHS's IRVar directly (no
// copy needed for reads), then emits a Copy into a fresh temp that is
// never read. The copy is redundant but harmless; it is kept rather
// than special-cased away.
func (g *Generator) visitVarDecl(scope *varScope, v *ast.VariableDeclaration) (ir.Var, error) {
	value, err := g.visit(scope, v.Expr)
	if err != nil {
		return ir.Var{}, err
	}
	scope.define(v.ID.Name, value)
	g.emit(ir.NewCopy(v.Pos(), value, g.newTemp()))
	return ir.Unit, nil
}

func (g *Generator) visitCall(scope *varScope, c *ast.FunctionCall) (ir.Var, error) {
	fun, ok := scope.lookup(c.FunctionName.Name)
	if !ok {
		return ir.Var{}, cerrors.New(cerrors.IR, c.Pos(), "unresolved function %q reached IR generation", c.FunctionName.Name).WithSource(g.source)
	}
	args := make([]ir.Var, len(c.Arguments))
	for i, a := range c.Arguments {
		v, err := g.visit(scope, a)
		if err != nil {
			return ir.Var{}, err
		}
		args[i] = v
	}
	dest := g.newTemp()
	g.emit(ir.NewCall(c.Pos(), fun, args, dest))
	return dest, nil
}
