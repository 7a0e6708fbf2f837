// Package lexer turns tiny-C source text into a linear token stream.
//
// The scanner is hand-written (no regex, no parser-combinator library): a
// single read cursor walks the source buffer once, and the whole token
// stream is produced up front so that Next/Peek are simple index lookups.
package lexer

import (
	"strings"
	"unicode"

	"tinycc.dev/compiler/pkg/token"
)

// Lexer holds the full, pre-tokenized stream for one source buffer.
//
// The source is scanned eagerly in the constructor rather than lazily on
// each Next() call; this keeps Peek(k) a trivial slice index instead of a
// re-entrant scan, at the cost of holding the whole token list in memory
// (never a concern at this language's scale).
type Lexer struct {
	source string
	tokens []token.Token
	cursor int
}

// New scans source in full and returns a Lexer positioned at the first token.
func New(source string) *Lexer {
	l := &Lexer{source: stripCR(source)}
	l.tokenize()
	return l
}

// Next returns the current token and advances the cursor. Past the end of
// the stream it keeps returning the trailing EndOfFile token.
func (l *Lexer) Next() token.Token {
	tok := l.Peek(0)
	if l.cursor < len(l.tokens)-1 {
		l.cursor++
	}
	return tok
}

// Peek returns the token k positions ahead of the cursor without consuming
// anything. An out-of-range k clamps to the trailing EndOfFile token.
func (l *Lexer) Peek(k int) token.Token {
	idx := l.cursor + k
	if idx < 0 {
		idx = 0
	}
	if idx >= len(l.tokens) {
		return l.tokens[len(l.tokens)-1]
	}
	return l.tokens[idx]
}

// Tokens returns the whole token stream, EndOfFile included. Used by
// diagnostics and by tests asserting invariant #1 (exactly one EndOfFile).
func (l *Lexer) Tokens() []token.Token {
	return l.tokens
}

func (l *Lexer) tokenize() {
	src := l.source
	pos, line, col := 0, 1, 1

	advance := func(n int) {
		for i := 0; i < n; i++ {
			if pos+i < len(src) && src[pos+i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		pos += n
	}

	emit := func(typ token.Type, lexeme string, startLine, startCol int) {
		l.tokens = append(l.tokens, token.New(typ, lexeme, startLine, startCol))
	}

	for pos < len(src) {
		// 1. Skip whitespace, tracking line/column.
		if unicode.IsSpace(rune(src[pos])) {
			advance(1)
			continue
		}

		// 2. Skip a `// ...` line comment, to end-of-line inclusive.
		if pos+1 < len(src) && src[pos] == '/' && src[pos+1] == '/' {
			for pos < len(src) && src[pos] != '\n' {
				advance(1)
			}
			continue
		}

		startLine, startCol := line, col

		// 3. Two-character operators before their one-character prefixes.
		if pos+1 < len(src) {
			two := src[pos : pos+2]
			if typ, ok := twoCharOps[two]; ok {
				emit(typ, two, startLine, startCol)
				advance(2)
				continue
			}
		}

		// 4. Single-character tokens (punctuation, arithmetic, and the
		// one-character forms of '=', '<', '>').
		if typ, ok := singleCharOps[src[pos]]; ok {
			emit(typ, string(src[pos]), startLine, startCol)
			advance(1)
			continue
		}

		// 5. Number literal: [0-9]+
		if isDigit(src[pos]) {
			end := pos
			for end < len(src) && isDigit(src[end]) {
				end++
			}
			lexeme := src[pos:end]
			emit(token.Number, lexeme, startLine, startCol)
			advance(end - pos)
			continue
		}

		// 6. String literal: "..." with \x escapes consumed as pairs.
		if src[pos] == '"' {
			end := pos + 1
			for end < len(src) && src[end] != '"' {
				if src[end] == '\\' && end+1 < len(src) {
					end += 2
					continue
				}
				end++
			}
			if end < len(src) && src[end] == '"' {
				end++
			}
			lexeme := src[pos:end]
			emit(token.String, lexeme, startLine, startCol)
			advance(end - pos)
			continue
		}

		// 7. Keyword or identifier: maximal [A-Za-z_][A-Za-z0-9_]*
		if isIdentStart(src[pos]) {
			end := pos + 1
			for end < len(src) && isIdentPart(src[end]) {
				end++
			}
			word := src[pos:end]
			emit(token.Lookup(word), word, startLine, startCol)
			advance(end - pos)
			continue
		}

		// 8. Anything else is a single-byte Unknown token; the parser
		// refuses it, the lexer never raises an exception here.
		emit(token.Unknown, src[pos:pos+1], startLine, startCol)
		advance(1)
	}

	l.tokens = append(l.tokens, token.New(token.EndOfFile, "", line, col))
}

var singleCharOps = map[byte]token.Type{
	';': token.Semicolon,
	'(': token.OpenParen,
	')': token.CloseParen,
	'{': token.OpenBrace,
	'}': token.CloseBrace,
	',': token.Comma,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'=': token.Assign,
	'<': token.LessThan,
	'>': token.GreaterThan,
}

var twoCharOps = map[string]token.Type{
	"==": token.EqualEqual,
	"!=": token.NotEqual,
	"<=": token.LessThanEqual,
	">=": token.GreaterThanEqual,
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// stripCR normalizes Windows line endings before tokenizing so that column
// counting never trips over a stray '\r'.
func stripCR(source string) string {
	if !strings.Contains(source, "\r") {
		return source
	}
	return strings.ReplaceAll(source, "\r\n", "\n")
}
