// Package parser implements a recursive-descent parser for mini-pl with
// one token of lookahead (plus a single extra peek for the "=>" token in
// function-type syntax).
//
// Binary operators are grouped into fixed precedence tiers, climbed
// left-associatively; assignment is handled separately as the lowest,
// right-associative level.
package parser

import (
	"strconv"

	"github.com/mini-pl/mplc/internal/ast"
	"github.com/mini-pl/mplc/internal/cerrors"
	"github.com/mini-pl/mplc/internal/token"
	"github.com/mini-pl/mplc/internal/types"
)

// precedenceTiers lists left-associative binary operator groups, lowest
// precedence first. Assignment ("=") and unary operators are handled
// outside this table (see parseExpression and parseUnary).
var precedenceTiers = [][]string{
	{"or"},
	{"and"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

// Parser is a cursor over a token slice that produces an ast.Expression.
type Parser struct {
	tokens []token.Token
	pos    int
	source string
}

// New creates a Parser over tokens. source is optional and, when given,
// is attached to any error produced so it can render a caret-annotated
// context line.
func New(tokens []token.Token, source string) *Parser {
	return &Parser{tokens: tokens, source: source}
}

// Parse parses a complete program: one expression followed by
// end-of-stream. The empty token stream parses to an EmptyInput node.
func Parse(tokens []token.Token, source string) (ast.Expression, error) {
	p := New(tokens, source)
	result, err := p.parseExpression(true)
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.END {
		return nil, p.errorf(cerrors.Parse, p.peek().Pos, "expected end of input but got %q", p.peek().Text)
	}
	return result, nil
}

func (p *Parser) errorf(kind cerrors.Kind, pos token.Position, format string, args ...any) error {
	return cerrors.New(kind, pos, format, args...).WithSource(p.source)
}

// peek returns the current token, or a synthetic END token once the
// stream is exhausted.
func (p *Parser) peek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	pos := token.Any
	if len(p.tokens) > 0 {
		pos = p.tokens[len(p.tokens)-1].Pos
	}
	return token.Token{Text: "", Kind: token.END, Pos: pos}
}

// peekAt returns the token n positions past the current one (peekAt(1)
// is the token after peek()), or END past the end of the stream.
func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx < len(p.tokens) {
		return p.tokens[idx]
	}
	pos := token.Any
	if len(p.tokens) > 0 {
		pos = p.tokens[len(p.tokens)-1].Pos
	}
	return token.Token{Text: "", Kind: token.END, Pos: pos}
}

// consume advances past the current token. If expected is non-empty, the
// current token's text must equal one of the given strings.
func (p *Parser) consume(expected ...string) (token.Token, error) {
	tok := p.peek()
	if len(expected) > 0 && !contains(expected, tok.Text) {
		return token.Token{}, p.errorf(cerrors.Parse, tok.Pos, "expected %s but got %q", joinExpected(expected), tok.Text)
	}
	p.pos++
	return tok, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func joinExpected(expected []string) string {
	if len(expected) == 1 {
		return "\"" + expected[0] + "\""
	}
	s := "one of: "
	for i, e := range expected {
		if i > 0 {
			s += ", "
		}
		s += "\"" + e + "\""
	}
	return s
}

// parseExpression parses assignment, the lowest (right-associative)
// precedence level, then everything below it via parseExpressionLeft.
// allowVar is threaded explicitly rather than held in mutable parser
// state: it is true only at the top level and directly inside a block.
func (p *Parser) parseExpression(allowVar bool) (ast.Expression, error) {
	left, err := p.parseExpressionLeft(allowVar)
	if err != nil {
		return nil, err
	}
	if p.peek().Text == "=" {
		opTok, _ := p.consume("=")
		right, err := p.parseExpression(allowVar)
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryOp(opTok.Pos, left, "=", right), nil
	}
	return left, nil
}

func (p *Parser) parseExpressionLeft(allowVar bool) (ast.Expression, error) {
	var parseTier func(level int, allowVar bool) (ast.Expression, error)
	parseTier = func(level int, allowVar bool) (ast.Expression, error) {
		if level == len(precedenceTiers) {
			return p.parseFactor(allowVar)
		}
		left, err := parseTier(level+1, allowVar)
		if err != nil {
			return nil, err
		}
		for contains(precedenceTiers[level], p.peek().Text) {
			opTok, _ := p.consume()
			right, err := parseTier(level+1, false)
			if err != nil {
				return nil, err
			}
			left = ast.NewBinaryOp(left.Pos(), left, opTok.Text, right)
		}
		return left, nil
	}
	return parseTier(0, allowVar)
}

// atomPositionDisallowed is every binary operator that cannot legally
// start an atom. "-" is deliberately excluded: it doubles as the unary
// minus prefix, handled below.
var atomPositionDisallowed = func() map[string]bool {
	m := map[string]bool{}
	for _, tier := range precedenceTiers {
		for _, op := range tier {
			if op != "-" {
				m[op] = true
			}
		}
	}
	return m
}()

// parseFactor parses an atom: literal, identifier, call, parenthesized
// expression, block, if/while, unary operator, or var declaration.
// allowVar gates whether a leading "var" is accepted here.
func (p *Parser) parseFactor(allowVar bool) (ast.Expression, error) {
	tok := p.peek()
	if tok.Kind == token.OPERATOR && atomPositionDisallowed[tok.Text] {
		return nil, p.errorf(cerrors.Parse, tok.Pos, "unexpected operator %q in atom position", tok.Text)
	}

	switch {
	case tok.Text == "(":
		return p.parseParenthesized()
	case tok.Text == "{":
		return p.parseBlock()
	case tok.Text == "if":
		return p.parseIf()
	case tok.Kind == token.INT:
		return p.parseIntLiteral()
	case tok.Text == "not" || tok.Text == "-":
		return p.parseUnary()
	case tok.Text == "while":
		return p.parseWhile()
	case tok.Kind == token.IDENT && tok.Text == "true":
		p.pos++
		return ast.NewLiteral(tok.Pos, true), nil
	case tok.Kind == token.IDENT && tok.Text == "false":
		p.pos++
		return ast.NewLiteral(tok.Pos, false), nil
	case tok.Text == "var":
		if !allowVar {
			return nil, p.errorf(cerrors.Parse, tok.Pos, "variable declarations are only allowed at top level or directly inside a block")
		}
		return p.parseVarDeclaration()
	case tok.Kind == token.IDENT:
		return p.parseIdentifierOrCall()
	case tok.Kind == token.END:
		return ast.NewEmptyInput(tok.Pos), nil
	default:
		return nil, p.errorf(cerrors.Parse, tok.Pos, "expected \"(\", an integer literal, or an identifier but got %s %q", tok.Kind, tok.Text)
	}
}

func (p *Parser) parseIntLiteral() (ast.Expression, error) {
	tok, err := p.consume()
	if err != nil {
		return nil, err
	}
	value, convErr := strconv.ParseInt(tok.Text, 10, 64)
	if convErr != nil {
		return nil, p.errorf(cerrors.Parse, tok.Pos, "invalid integer literal %q", tok.Text)
	}
	return ast.NewLiteral(tok.Pos, value), nil
}

func (p *Parser) parseIdentifierOrCall() (ast.Expression, error) {
	tok, _ := p.consume()
	id := ast.NewIdentifier(tok.Pos, tok.Text)
	if p.peek().Text != "(" {
		return id, nil
	}

	if _, err := p.consume("("); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.peek().Text != ")" {
		if p.peek().Kind == token.END {
			return nil, p.errorf(cerrors.Parse, p.peek().Pos, "unterminated argument list")
		}
		if p.peek().Text == "," {
			if _, err := p.consume(","); err != nil {
				return nil, err
			}
			continue
		}
		arg, err := p.parseExpression(false)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.consume(")"); err != nil {
		return nil, err
	}
	return ast.NewFunctionCall(id.Pos(), id, args), nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	opTok, err := p.consume("not", "-")
	if err != nil {
		return nil, err
	}
	var right ast.Expression
	if p.peek().Text == "(" {
		right, err = p.parseParenthesized()
	} else {
		right, err = p.parseFactor(false)
	}
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryOperator(opTok.Pos, opTok.Text, right), nil
}

func (p *Parser) parseParenthesized() (ast.Expression, error) {
	if _, err := p.consume("("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseBlock parses `{ E1; E2; ...; En [;] }`. A semicolon is required
// between two expressions unless the previous one ended with '}'.
func (p *Parser) parseBlock() (ast.Expression, error) {
	startTok, err := p.consume("{")
	if err != nil {
		return nil, err
	}

	var exprs []ast.Expression
	hasSemicolon := false
	prevEndedWithBrace := false
	var result ast.Expression = ast.NewLiteral(startTok.Pos, nil)

	for p.peek().Text != "}" {
		if p.peek().Kind == token.END {
			return nil, p.errorf(cerrors.Parse, p.peek().Pos, "unterminated block")
		}
		if p.peek().Text == ";" {
			p.pos++
			hasSemicolon = true
			continue
		}
		if len(exprs) > 0 && !hasSemicolon && !prevEndedWithBrace {
			return nil, p.errorf(cerrors.Parse, p.peek().Pos, "expected \";\" between expressions in block")
		}
		expr, err := p.parseExpression(true)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		result = expr
		hasSemicolon = false
		prevEndedWithBrace = p.pos > 0 && p.tokens[p.pos-1].Text == "}"
	}
	endTok, err := p.consume("}")
	if err != nil {
		return nil, err
	}

	if hasSemicolon {
		result = ast.NewLiteral(endTok.Pos, nil)
	}
	return ast.NewBlock(startTok.Pos, exprs, hasSemicolon, result), nil
}

func (p *Parser) parseWhile() (ast.Expression, error) {
	startTok, err := p.consume("while")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("do"); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(startTok.Pos, cond, body), nil
}

func (p *Parser) parseIf() (ast.Expression, error) {
	startTok, err := p.consume("if")
	if err != nil {
		return nil, err
	}
	first, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("then"); err != nil {
		return nil, err
	}
	second, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}

	var third ast.Expression
	if p.peek().Text == "else" {
		p.pos++
		third, err = p.parseExpression(false)
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(startTok.Pos, first, second, third), nil
}

func (p *Parser) parseVarDeclaration() (ast.Expression, error) {
	if _, err := p.consume("var"); err != nil {
		return nil, err
	}
	if p.peek().Kind != token.IDENT {
		return nil, p.errorf(cerrors.Parse, p.peek().Pos, "expected an identifier")
	}
	idTok, _ := p.consume()
	id := ast.NewIdentifier(idTok.Pos, idTok.Text)

	var varType types.Type
	if p.peek().Text == ":" {
		p.pos++
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		varType = t
	}

	if _, err := p.consume("="); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	return ast.NewVariableDeclaration(id.Pos(), id, expr, varType), nil
}

// parseType parses the type syntax that follows ':' in a var
// declaration: a simple type name, or a function type
// `(T1, T2, ...) [=>] R`.
func (p *Parser) parseType() (types.Type, error) {
	if p.peek().Text == "(" {
		p.pos++
		first, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params := []types.Type{first}
		for p.peek().Text == "," {
			p.pos++
			next, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, next)
		}
		if _, err := p.consume(")"); err != nil {
			return nil, err
		}

		if p.peek().Text == "=" && p.peekAt(1).Text == ">" {
			p.pos += 2
		}

		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return types.FunType{Params: params, ReturnType: ret}, nil
	}

	if p.peek().Kind == token.IDENT {
		nameTok, _ := p.consume()
		switch nameTok.Text {
		case "Int":
			return types.Int{}, nil
		case "Bool":
			return types.Bool{}, nil
		case "Unit":
			return types.Unit{}, nil
		default:
			return nil, p.errorf(cerrors.Parse, nameTok.Pos, "unknown type %q", nameTok.Text)
		}
	}
	return nil, p.errorf(cerrors.Parse, p.peek().Pos, "expected a type but got %q", p.peek().Text)
}
