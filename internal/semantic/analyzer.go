// Package semantic implements the single-pass type checker: it walks the
// AST produced by internal/parser, populates each node's Type, and
// returns the first TypeError encountered.
package semantic

import (
	"github.com/mini-pl/mplc/internal/ast"
	"github.com/mini-pl/mplc/internal/cerrors"
	"github.com/mini-pl/mplc/internal/types"
)

// Analyzer performs semantic analysis over a mini-pl AST.
type Analyzer struct {
	symbols *SymbolTable
	source  string
}

// NewAnalyzer creates an Analyzer with the global table seeded with
// operator signatures and runtime builtins.
func NewAnalyzer(source string) *Analyzer {
	a := &Analyzer{symbols: NewSymbolTable(), source: source}
	for op, sig := range operatorSignatures {
		a.symbols.Define(op, sig)
	}
	for name, sig := range builtinSignatures {
		a.symbols.Define(name, sig)
	}
	return a
}

// Symbols exposes the analyzer's global symbol table.
func (a *Analyzer) Symbols() *SymbolTable { return a.symbols }

// ReservedNames lists every operator and builtin name seeded into the
// root scope, for internal/irgen to bind 1:1 to an IR variable of the
// same name in its own root scope.
func ReservedNames() []string {
	names := make([]string, 0, len(operatorSignatures)+len(builtinSignatures))
	for name := range operatorSignatures {
		names = append(names, name)
	}
	for name := range builtinSignatures {
		names = append(names, name)
	}
	return names
}

var operatorSignatures = map[string]types.Type{
	"+": types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Int{}},
	"-": types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Int{}},
	"*": types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Int{}},
	"/": types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Int{}},
	"%": types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Int{}},

	"<":  types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Bool{}},
	"<=": types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Bool{}},
	">":  types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Bool{}},
	">=": types.FunType{Params: []types.Type{types.Int{}, types.Int{}}, ReturnType: types.Bool{}},

	"and": types.FunType{Params: []types.Type{types.Bool{}, types.Bool{}}, ReturnType: types.Bool{}},
	"or":  types.FunType{Params: []types.Type{types.Bool{}, types.Bool{}}, ReturnType: types.Bool{}},

	"unary_-":   types.FunType{Params: []types.Type{types.Int{}}, ReturnType: types.Int{}},
	"unary_not": types.FunType{Params: []types.Type{types.Bool{}}, ReturnType: types.Bool{}},
}

var builtinSignatures = map[string]types.Type{
	"print_int":  types.FunType{Params: []types.Type{types.Int{}}, ReturnType: types.Unit{}},
	"print_bool": types.FunType{Params: []types.Type{types.Bool{}}, ReturnType: types.Unit{}},
	"read_int":   types.FunType{Params: nil, ReturnType: types.Int{}},
}

// Check type-checks expr, writing the inferred type onto every reachable
// node, and returns that root type. It returns the first TypeError
// encountered; there is no recovery or error collection.
func Check(expr ast.Expression, source string) (types.Type, error) {
	a := NewAnalyzer(source)
	return a.check(expr)
}

func (a *Analyzer) check(expr ast.Expression) (types.Type, error) {
	t, err := a.typecheckNode(expr)
	if err != nil {
		return nil, err
	}
	expr.SetType(t)
	return t, nil
}

func (a *Analyzer) typecheckNode(expr ast.Expression) (types.Type, error) {
	switch node := expr.(type) {
	case *ast.Literal:
		return a.checkLiteral(node)
	case *ast.Identifier:
		return a.checkIdentifier(node)
	case *ast.UnaryOperator:
		return a.checkUnary(node)
	case *ast.BinaryOp:
		return a.checkBinaryOp(node)
	case *ast.IfStatement:
		return a.checkIf(node)
	case *ast.WhileStatement:
		return a.checkWhile(node)
	case *ast.Block:
		return a.checkBlock(node)
	case *ast.VariableDeclaration:
		return a.checkVarDecl(node)
	case *ast.FunctionCall:
		return a.checkCall(node)
	case *ast.EmptyInput:
		return types.Unit{}, nil
	default:
		return nil, cerrors.New(cerrors.Type, expr.Pos(), "unknown AST node %T", expr).WithSource(a.source)
	}
}

func (a *Analyzer) checkLiteral(lit *ast.Literal) (types.Type, error) {
	switch lit.Value.(type) {
	case bool:
		return types.Bool{}, nil
	case int64:
		return types.Int{}, nil
	case nil:
		return types.Unit{}, nil
	default:
		return nil, cerrors.New(cerrors.Type, lit.Pos(), "unknown literal type %T", lit.Value).WithSource(a.source)
	}
}

func (a *Analyzer) checkIdentifier(id *ast.Identifier) (types.Type, error) {
	t, ok := a.symbols.Lookup(id.Name)
	if !ok {
		return nil, cerrors.New(cerrors.Type, id.Pos(), "undefined identifier %q", id.Name).WithSource(a.source)
	}
	return t, nil
}

func (a *Analyzer) checkUnary(u *ast.UnaryOperator) (types.Type, error) {
	right, err := a.check(u.Right)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "-":
		if !right.Equal(types.Int{}) {
			return nil, cerrors.New(cerrors.Type, u.Pos(), "unary - expects Int, got %s", right).WithSource(a.source)
		}
		return types.Int{}, nil
	case "not":
		if !right.Equal(types.Bool{}) {
			return nil, cerrors.New(cerrors.Type, u.Pos(), "unary not expects Bool, got %s", right).WithSource(a.source)
		}
		return types.Bool{}, nil
	default:
		return nil, cerrors.New(cerrors.Type, u.Pos(), "unknown unary operator %q", u.Op).WithSource(a.source)
	}
}

func (a *Analyzer) checkBinaryOp(b *ast.BinaryOp) (types.Type, error) {
	switch b.Op {
	case "=":
		return a.checkAssignment(b)
	case "==", "!=":
		left, err := a.check(b.Left)
		if err != nil {
			return nil, err
		}
		right, err := a.check(b.Right)
		if err != nil {
			return nil, err
		}
		if !left.Equal(right) {
			return nil, cerrors.New(cerrors.Type, b.Pos(), "expected two values of the same type, got %s and %s", left, right).WithSource(a.source)
		}
		return types.Bool{}, nil
	default:
		left, err := a.check(b.Left)
		if err != nil {
			return nil, err
		}
		right, err := a.check(b.Right)
		if err != nil {
			return nil, err
		}
		sig, ok := a.symbols.Lookup(b.Op)
		if !ok {
			return nil, cerrors.New(cerrors.Type, b.Pos(), "unexpected operator %q", b.Op).WithSource(a.source)
		}
		fn, ok := sig.(types.FunType)
		if !ok || len(fn.Params) != 2 {
			return nil, cerrors.New(cerrors.Type, b.Pos(), "operator %q is not a binary operator", b.Op).WithSource(a.source)
		}
		if !left.Equal(fn.Params[0]) || !right.Equal(fn.Params[1]) {
			return nil, cerrors.New(cerrors.Type, b.Pos(), "operator %q expects (%s, %s), got %s and %s", b.Op, fn.Params[0], fn.Params[1], left, right).WithSource(a.source)
		}
		return fn.ReturnType, nil
	}
}

func (a *Analyzer) checkAssignment(b *ast.BinaryOp) (types.Type, error) {
	left, err := a.check(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.check(b.Right)
	if err != nil {
		return nil, err
	}
	if id, ok := b.Left.(*ast.Identifier); ok {
		a.symbols.Assign(id.Name, right)
	}
	if !left.Equal(right) {
		return nil, cerrors.New(cerrors.Type, b.Pos(), "assignment requires both sides to have the same type, got %s and %s", left, right).WithSource(a.source)
	}
	return types.Unit{}, nil
}

// checkIf type-checks both branches even without an else: the then-branch
// is checked for errors, but an if-without-else always has type Unit
// regardless of the then-branch's own type.
func (a *Analyzer) checkIf(i *ast.IfStatement) (types.Type, error) {
	cond, err := a.check(i.FirstExpr)
	if err != nil {
		return nil, err
	}
	if !cond.Equal(types.Bool{}) {
		return nil, cerrors.New(cerrors.Type, i.Pos(), "if condition must be Bool, got %s", cond).WithSource(a.source)
	}
	then, err := a.check(i.SecondExpr)
	if err != nil {
		return nil, err
	}
	if i.ThirdExpr == nil {
		return types.Unit{}, nil
	}
	els, err := a.check(i.ThirdExpr)
	if err != nil {
		return nil, err
	}
	if !then.Equal(els) {
		return nil, cerrors.New(cerrors.Type, i.Pos(), "if branches must have the same type, got %s and %s", then, els).WithSource(a.source)
	}
	return then, nil
}

func (a *Analyzer) checkWhile(w *ast.WhileStatement) (types.Type, error) {
	cond, err := a.check(w.ConditionExpr)
	if err != nil {
		return nil, err
	}
	if !cond.Equal(types.Bool{}) {
		return nil, cerrors.New(cerrors.Type, w.Pos(), "while condition must be Bool, got %s", cond).WithSource(a.source)
	}
	if _, err := a.check(w.BodyExpr); err != nil {
		return nil, err
	}
	return types.Unit{}, nil
}

func (a *Analyzer) checkBlock(b *ast.Block) (types.Type, error) {
	a.symbols.Enter()
	defer a.symbols.Leave()

	result := types.Type(types.Unit{})
	for _, e := range b.Expressions {
		t, err := a.check(e)
		if err != nil {
			return nil, err
		}
		result = t
	}
	if b.HasSemicolon {
		if _, err := a.check(b.ResultExpression); err != nil {
			return nil, err
		}
		return types.Unit{}, nil
	}
	return result, nil
}

func (a *Analyzer) checkVarDecl(v *ast.VariableDeclaration) (types.Type, error) {
	rhs, err := a.check(v.Expr)
	if err != nil {
		return nil, err
	}
	a.symbols.Define(v.ID.Name, rhs)
	if v.VarType != nil && !rhs.Equal(v.VarType) {
		return nil, cerrors.New(cerrors.Type, v.Pos(), "variable declaration type mismatch: declared %s, got %s", v.VarType, rhs).WithSource(a.source)
	}
	return types.Unit{}, nil
}

func (a *Analyzer) checkCall(c *ast.FunctionCall) (types.Type, error) {
	sig, ok := a.symbols.Lookup(c.FunctionName.Name)
	if !ok {
		return nil, cerrors.New(cerrors.Type, c.Pos(), "undefined function %q", c.FunctionName.Name).WithSource(a.source)
	}
	fn, ok := sig.(types.FunType)
	if !ok {
		return nil, cerrors.New(cerrors.Type, c.Pos(), "%q is not callable", c.FunctionName.Name).WithSource(a.source)
	}
	if len(c.Arguments) != len(fn.Params) {
		return nil, cerrors.New(cerrors.Type, c.Pos(), "function %q expects %d arguments, got %d", c.FunctionName.Name, len(fn.Params), len(c.Arguments)).WithSource(a.source)
	}
	for i, arg := range c.Arguments {
		argType, err := a.check(arg)
		if err != nil {
			return nil, err
		}
		if !argType.Equal(fn.Params[i]) {
			return nil, cerrors.New(cerrors.Type, arg.Pos(), "argument %d of %q expects %s, got %s", i, c.FunctionName.Name, fn.Params[i], argType).WithSource(a.source)
		}
	}
	return fn.ReturnType, nil
}
