// Package lexer turns mini-pl source text into a flat token stream.
//
// Recognition rules are tried in a fixed precedence order at each
// position and exactly one rule is selected per position (longest match
// within a rule where the rule itself is variable-length, e.g.
// identifiers and integer literals).
package lexer

import (
	"strings"

	"github.com/mini-pl/mplc/internal/cerrors"
	"github.com/mini-pl/mplc/internal/token"
)

// Lexer is a one-shot tokenizer over an input string.
type Lexer struct {
	input  string
	pos    int // byte offset of ch
	readAt int // byte offset of the next byte to read
	ch     byte
	row    int
	col    int
}

// New creates a Lexer over input, positioned before the first byte.
func New(input string) *Lexer {
	l := &Lexer{input: input, row: 1, col: 0}
	l.readByte()
	return l
}

func (l *Lexer) readByte() {
	if l.readAt >= len(l.input) {
		l.ch = 0
		l.pos = l.readAt
		return
	}
	if l.ch == '\n' {
		l.row++
		l.col = 0
	}
	l.ch = l.input[l.readAt]
	l.pos = l.readAt
	l.readAt++
	l.col++
}

func (l *Lexer) peekByte() byte {
	if l.readAt >= len(l.input) {
		return 0
	}
	return l.input[l.readAt]
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Row: l.row, Col: l.col}
}

// Tokenize scans the entire input and returns its token stream, or the
// first LexError encountered (unrecognised byte at a location).
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, done, err := l.next()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// next recognizes and returns the next token, skipping whitespace and
// comments. done is true once the input is exhausted (no token emitted).
func (l *Lexer) next() (tok token.Token, done bool, err error) {
	for {
		switch {
		case l.ch == 0:
			return token.Token{}, true, nil
		case isWhitespace(l.ch):
			l.readByte()
			continue
		case l.ch == '#' && l.peekByte() == ' ':
			l.skipComment()
			continue
		}
		break
	}

	startPos := l.currentPos()

	switch {
	case isIdentStart(l.ch):
		return l.readIdentifier(startPos), false, nil
	case isDigit(l.ch):
		return l.readInt(startPos), false, nil
	case isOperatorStart(l.ch):
		tok, err := l.readOperator(startPos)
		return tok, false, err
	case isPunctuation(l.ch):
		text := string(l.ch)
		l.readByte()
		return token.Token{Text: text, Kind: token.PUNCTUATION, Pos: startPos}, false, nil
	default:
		bad := l.ch
		return token.Token{}, false, cerrors.New(cerrors.Lex, startPos, "unrecognised byte %q", bad)
	}
}

// skipComment consumes a line comment of the form "# [a-z]*": the '#',
// a single space, and a run of lowercase letters. Anything past the
// lowercase-letter run (including the rest of the physical line) is left
// for the next call.
func (l *Lexer) skipComment() {
	l.readByte() // consume '#'
	l.readByte() // consume the mandatory space
	for l.ch >= 'a' && l.ch <= 'z' {
		l.readByte()
	}
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	var sb strings.Builder
	for isIdentStart(l.ch) || isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readByte()
	}
	return token.Token{Text: sb.String(), Kind: token.IDENT, Pos: start}
}

func (l *Lexer) readInt(start token.Position) token.Token {
	var sb strings.Builder
	for isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readByte()
	}
	return token.Token{Text: sb.String(), Kind: token.INT, Pos: start}
}

// twoByteOperators lists the two-character operators; they must be tried
// before their single-character prefixes so that e.g. "==" is not lexed
// as "=" followed by "=".
var twoByteOperators = []string{"!=", "==", ">=", "<="}

func (l *Lexer) readOperator(start token.Position) (token.Token, error) {
	for _, op := range twoByteOperators {
		if l.ch == op[0] && l.peekByte() == op[1] {
			l.readByte()
			l.readByte()
			return token.Token{Text: op, Kind: token.OPERATOR, Pos: start}, nil
		}
	}
	if l.ch == '!' {
		return token.Token{}, cerrors.New(cerrors.Lex, start, "unrecognised byte %q", l.ch)
	}
	text := string(l.ch)
	l.readByte()
	return token.Token{Text: text, Kind: token.OPERATOR, Pos: start}, nil
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isOperatorStart(ch byte) bool {
	return strings.IndexByte("!=<>+-/*%", ch) >= 0
}

func isPunctuation(ch byte) bool {
	return strings.IndexByte("{}():;,", ch) >= 0
}
