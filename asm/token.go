// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"iter"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ezrec/hmasm/diag"
	"github.com/ezrec/hmasm/internal"
)

//go:generate go tool stringer -linecomment -type=TokenKind

// TokenKind is the lexical class of a token.
type TokenKind int

const (
	TOKEN_LINE_END  = TokenKind(iota) // end of line
	TOKEN_MNEMONIC                    // mnemonic
	TOKEN_IMMEDIATE                   // immediate
	TOKEN_DIRECT                      // address
	TOKEN_INDIRECT                    // memory reference
	TOKEN_LABEL                       // label definition
	TOKEN_LABEL_REF                   // label reference
	TOKEN_COMMA                       // ','
)

// IsOperand is true for the token kinds that form an operand.
func (kind TokenKind) IsOperand() bool {
	switch kind {
	case TOKEN_IMMEDIATE, TOKEN_DIRECT, TOKEN_INDIRECT, TOKEN_LABEL_REF:
		return true
	}
	return false
}

// Token is a lexical token.
//
// The lexeme of a numeric token holds only the number (or the $(...)
// expression): '#' and the parentheses are implied by the kind.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    diag.Position
}

// Source returns the token as it was written.
func (tok Token) Source() string {
	switch tok.Kind {
	case TOKEN_IMMEDIATE:
		return "#" + tok.Lexeme
	case TOKEN_INDIRECT:
		return "(" + tok.Lexeme + ")"
	case TOKEN_LABEL:
		return tok.Lexeme + ":"
	case TOKEN_COMMA:
		return ","
	}
	return tok.Lexeme
}

func (tok Token) String() string {
	if tok.Kind == TOKEN_LINE_END || tok.Kind == TOKEN_COMMA {
		return tok.Kind.String()
	}
	return f("%v '%v'", tok.Kind.String(), tok.Source())
}

// Tokenize returns the lazy token sequence of an assembly source.
//
// Every line ends with a TOKEN_LINE_END. A lexical error is yielded in
// place of the token it spoils, as a diag.Diagnostic, and lexing carries
// on after it. The sequence can be ranged over any number of times.
func Tokenize(source string) iter.Seq2[Token, error] {
	lines := strings.Split(source, "\n")

	return internal.IterSeq2FlatMap(slices.All(lines), func(n int, line string) iter.Seq2[Token, error] {
		return tokenizeLine(strings.TrimSuffix(line, "\r"), n+1)
	})
}

// Tokens materializes Tokenize, collecting every lexical error.
func Tokens(source string) (tokens []Token, diags diag.List) {
	for tok, err := range Tokenize(source) {
		if err != nil {
			diags = append(diags, asDiagnostic(diag.KIND_LEX, tok.Pos, err))
			continue
		}
		tokens = append(tokens, tok)
	}

	return
}

// asDiagnostic wraps an error as a diagnostic, unless it already is one.
func asDiagnostic(kind diag.Kind, pos diag.Position, err error) diag.Diagnostic {
	if d, ok := err.(diag.Diagnostic); ok {
		return d
	}
	return diag.New(kind, pos, err)
}

// lineScanner splits a single line into tokens.
type lineScanner struct {
	line     string
	lineno   int
	pos      int
	mnemonic bool // Set once the mnemonic of the line was seen.
}

func tokenizeLine(line string, lineno int) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := &lineScanner{line: line, lineno: lineno}
		for {
			tok, err, ok := s.next()
			if !ok {
				break
			}
			if err != nil {
				err = diag.New(diag.KIND_LEX, tok.Pos, err)
			}
			if !yield(tok, err) {
				return
			}
		}
		yield(Token{Kind: TOKEN_LINE_END, Pos: s.position()}, nil)
	}
}

func (s *lineScanner) position() diag.Position {
	return diag.Position{Line: s.lineno, Column: s.pos + 1}
}

func (s *lineScanner) skipSpace() {
	for s.pos < len(s.line) && (s.line[s.pos] == ' ' || s.line[s.pos] == '\t') {
		s.pos++
	}
}

func (s *lineScanner) peek() byte {
	if s.pos >= len(s.line) {
		return 0
	}
	return s.line[s.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// word scans a run of identifier characters.
func (s *lineScanner) word() string {
	start := s.pos
	for s.pos < len(s.line) && isIdent(s.line[s.pos]) {
		s.pos++
	}
	return s.line[start:s.pos]
}

// number scans a hexadecimal number or a $(...) expression.
func (s *lineScanner) number() (lexeme string, err error) {
	if s.peek() == '$' {
		return s.expression()
	}

	lexeme = s.word()
	if len(lexeme) == 0 {
		err = ErrNumberMissing
		return
	}

	digits := lexeme
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}

	_, err = strconv.ParseUint(digits, 16, 32)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			err = ErrNumberRange(lexeme)
		} else {
			err = ErrParseNumber(lexeme)
		}
		return
	}

	lexeme = digits

	return
}

// expression scans a $(...) expression with balanced parentheses.
func (s *lineScanner) expression() (lexeme string, err error) {
	start := s.pos
	s.pos++ // '$'
	if s.peek() != '(' {
		err = ErrExpressionMissing
		return
	}

	depth := 0
	for s.pos < len(s.line) {
		switch s.line[s.pos] {
		case '(':
			depth++
		case ')':
			depth--
		}
		s.pos++
		if depth == 0 {
			lexeme = s.line[start:s.pos]
			return
		}
	}

	err = ErrExpressionLonely
	return
}

// next scans the next token on the line, if any.
func (s *lineScanner) next() (tok Token, err error, ok bool) {
	s.skipSpace()

	if s.pos >= len(s.line) || s.line[s.pos] == ';' {
		return
	}

	ok = true
	tok.Pos = s.position()

	c := s.line[s.pos]
	switch {
	case c == ',':
		s.pos++
		tok.Kind = TOKEN_COMMA
	case c == '#':
		s.pos++
		tok.Kind = TOKEN_IMMEDIATE
		tok.Lexeme, err = s.number()
	case c == '(':
		s.pos++
		tok.Kind = TOKEN_INDIRECT
		s.skipSpace()
		tok.Lexeme, err = s.number()
		if err != nil {
			return
		}
		s.skipSpace()
		if s.peek() != ')' {
			err = ErrParenMissing
			return
		}
		s.pos++
	case c == '$' || isDigit(c):
		tok.Kind = TOKEN_DIRECT
		tok.Lexeme, err = s.number()
	case isIdentStart(c):
		tok.Lexeme = s.word()
		switch {
		case s.peek() == ':':
			s.pos++
			tok.Kind = TOKEN_LABEL
		case !s.mnemonic:
			s.mnemonic = true
			tok.Kind = TOKEN_MNEMONIC
		default:
			tok.Kind = TOKEN_LABEL_REF
		}
	default:
		r, size := utf8.DecodeRuneInString(s.line[s.pos:])
		s.pos += size
		err = ErrCharacter(r)
	}

	return
}
