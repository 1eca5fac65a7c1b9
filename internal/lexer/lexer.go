// Package lexer turns UTF-8 source bytes into the ordered Token stream the
// parser consumes. It operates as a character-level state
// machine with a one-rune lookahead.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/token"
)

// LexError is a fatal lexical error: an unterminated string or an
// unterminated block comment. Invalid UTF-8 is not reported as a LexError:
// each invalid byte decodes as U+FFFD, which ends up in a Junk token
// outside string literals and comments and is kept as-is inside them.
type LexError struct {
	Position token.Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos(), e.Msg)
}

// Pos returns the error's source position.
func (e *LexError) Pos() token.Position {
	return e.Position
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithPreserveComments makes the lexer emit LineComment/BlockComment
// tokens instead of silently discarding them — useful for formatters.
func WithPreserveComments(preserve bool) Option {
	return func(l *Lexer) { l.preserveComments = preserve }
}

// Lexer is a rune-level scanner over a single source file's contents.
type Lexer struct {
	file string
	input string
	terms *langterms.Table

	pos int // byte offset of ch
	readPos int // byte offset of next rune
	line, col int
	ch rune
	atEOF bool

	preserveComments bool
}

// New creates a Lexer for input, attributed to file in diagnostics.
func New(file, input string, opts ...Option) *Lexer {
	// Strip a UTF-8 BOM if present, matching common source-reading practice.
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		input = input[3:]
	}

	l := &Lexer{
		file: file,
		input: input,
		terms: langterms.NewTable(),
		line: 1,
		col: 0,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readRune()
	return l
}

func (l *Lexer) readRune() {
	if l.readPos >= len(l.input) {
		l.pos = l.readPos
		l.ch = 0
		l.atEOF = true
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	if r == utf8.RuneError && size <= 1 {
		// Invalid UTF-8 byte; it is read as U+FFFD and no LexError is
		// raised. We advance one byte so scanning makes progress.
		size = 1
	}
	l.pos = l.readPos
	l.readPos += size
	l.advancePosition(r)
	l.ch = r
}

func (l *Lexer) advancePosition(next rune) {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else if l.ch == '\r' && next != '\n' {
		l.line++
		l.col = 0
	} else if l.ch != 0 {
		l.col++
	}
}

func (l *Lexer) peekRune() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) here() token.Position {
	c := l.col
	if c == 0 {
		c = 1
	}
	return token.Position{File: l.file, Line: l.line, Col: c}
}

// Lex scans the entire input and returns its Token stream terminated by an
// EndOfStream token, along with any fatal lexical errors encountered.
func (l *Lexer) Lex() ([]token.Token, []*LexError) {
	var toks []token.Token
	var errs []*LexError
	for {
		tok, err := l.NextToken()
		if err != nil {
			errs = append(errs, err)
			if tok.Kind == token.KindEndOfStream {
				toks = append(toks, tok)
				break
			}
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == token.KindEndOfStream {
			break
		}
	}
	return toks, errs
}

// NextToken scans and classifies the next token, skipping whitespace (and
// comments, unless preserved).
func (l *Lexer) NextToken() (token.Token, *LexError) {
	for {
		if l.atEOF {
			return token.NewToken(token.KindEndOfStream, "", l.here()), nil
		}

		switch {
		case isWhitespace(l.ch):
			l.skipWhitespace()
			continue

		case l.ch == '/' && l.peekRune() == '/':
			tok := l.scanLineComment()
			if l.preserveComments {
				return tok, nil
			}
			continue

		case l.ch == '/' && l.peekRune() == '*':
			tok, err := l.scanBlockComment()
			if err != nil {
				return tok, err
			}
			if l.preserveComments {
				return tok, nil
			}
			continue

		case isIdentStart(l.ch):
			return l.scanIdentifierOrKeyword(), nil

		case isDigit(l.ch):
			return l.scanNumber()

		case l.ch == '"':
			return l.scanString()

		case langterms.IsSingleCharSeparator(l.ch):
			pos := l.here()
			lex := string(l.ch)
			l.readRune()
			return token.NewToken(token.KindSeparator, lex, pos), nil

		case l.ch == ',':
			// The reference implementation never settled whether ',' is a
			// true operator-table separator (it is used only as a list/arg
			// divider, never combined with other punctuation), so it is
			// special-cased here rather than added to langterms' separator
			// set.
			pos := l.here()
			l.readRune()
			return token.NewToken(token.KindSeparator, ",", pos), nil

		default:
			return l.scanOperator()
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		l.readRune()
	}
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentCont(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (l *Lexer) scanLineComment() token.Token {
	pos := l.here()
	var sb strings.Builder
	for !l.atEOF && l.ch != '\n' && l.ch != '\r' {
		sb.WriteRune(l.ch)
		l.readRune()
	}
	return token.NewToken(token.KindLineComment, sb.String(), pos)
}

func (l *Lexer) scanBlockComment() (token.Token, *LexError) {
	pos := l.here()
	var sb strings.Builder
	sb.WriteRune(l.ch) // '/'
	l.readRune()
	sb.WriteRune(l.ch) // '*'
	l.readRune()

	for {
		if l.atEOF {
			return token.Token{Kind: token.KindBroken, Position: pos}, &LexError{Position: pos, Msg: "unterminated block comment"}
		}
		if l.ch == '*' && l.peekRune() == '/' {
			sb.WriteRune(l.ch)
			l.readRune()
			sb.WriteRune(l.ch)
			l.readRune()
			break
		}
		sb.WriteRune(l.ch)
		l.readRune()
	}
	return token.NewToken(token.KindBlockComment, sb.String(), pos), nil
}

func (l *Lexer) scanIdentifierOrKeyword() token.Token {
	pos := l.here()
	var sb strings.Builder
	for isIdentCont(l.ch) {
		sb.WriteRune(l.ch)
		l.readRune()
	}
	return l.resolveWord(sb.String(), pos)
}

// resolveWord implements resolve_final_tkn_type for identifier-shaped
// lexemes: reserved words, data types, bool literals, system
// calls, and otherwise a plain user word.
func (l *Lexer) resolveWord(word string, pos token.Position) token.Token {
	switch {
	case word == "true":
		t := token.NewToken(token.KindBoolLit, word, pos)
		t.Uint = 1
		return t
	case word == "false":
		t := token.NewToken(token.KindBoolLit, word, pos)
		t.Uint = 0
		return t
	case langterms.IsValidDataType(word):
		return token.NewToken(token.KindDataType, word, pos)
	case langterms.IsSystemCallName(word):
		return token.NewToken(token.KindSystemCall, word, pos)
	case langterms.IsReservedWord(word):
		return token.NewToken(token.KindReservedWord, word, pos)
	default:
		return token.NewToken(token.KindUserWord, word, pos)
	}
}

func (l *Lexer) scanString() (token.Token, *LexError) {
	pos := l.here()
	l.readRune() // consume opening quote
	var sb strings.Builder
	for {
		if l.atEOF {
			return token.Token{Kind: token.KindBroken, Position: pos}, &LexError{Position: pos, Msg: "unterminated string literal"}
		}
		if l.ch == '\\' && l.peekRune() == '"' {
			sb.WriteRune('"')
			l.readRune()
			l.readRune()
			continue
		}
		if l.ch == '"' {
			l.readRune()
			break
		}
		sb.WriteRune(l.ch)
		l.readRune()
	}

	lit := sb.String()
	if ms, ok := token.ParseDateTime(lit); ok {
		t := token.NewToken(token.KindDateTimeLit, lit, pos)
		t.Int = ms
		return t, nil
	}
	return token.NewToken(token.KindStringLit, lit, pos), nil
}

func (l *Lexer) scanOperator() (token.Token, *LexError) {
	pos := l.here()

	if langterms.IsAtomicOperatorChar(l.ch) {
		lex := string(l.ch)
		l.readRune()
		return token.NewToken(token.KindSrcOpr8r, lex, pos), nil
	}

	var sb strings.Builder
	for !l.atEOF && !isWhitespace(l.ch) && !isIdentStart(l.ch) && !isDigit(l.ch) &&
	!langterms.IsSingleCharSeparator(l.ch) && !langterms.IsAtomicOperatorChar(l.ch) && l.ch != '"' {
		candidate := sb.String() + string(l.ch)
		if sb.Len() > 0 && !l.terms.IsValid(candidate, langterms.UsrSrc) && l.terms.IsValid(sb.String(), langterms.UsrSrc) {
			// Extending would no longer match any known operator, and what
			// we have so far already does: stop here.
			break
		}
		sb.WriteRune(l.ch)
		l.readRune()
	}

	lex := sb.String()
	if lex == "" {
		// A genuinely unrecognized character (e.g. invalid UTF-8 byte).
		bad := l.ch
		l.readRune()
		return token.NewToken(token.KindJunk, string(bad), pos), nil
	}
	if !l.terms.IsValid(lex, langterms.UsrSrc) {
		return token.NewToken(token.KindJunk, lex, pos), nil
	}
	return token.NewToken(token.KindSrcOpr8r, lex, pos), nil
}
