package lang

type tokenType int

const (
	tokNumber tokenType = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokBang
	tokColon
	tokSemi
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokNewline
	tokEOF
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

func (t token) span() Span {
	return Span{Start: t.pos, End: t.pos + len(t.text)}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

// scan tokenizes src. Line comments run from "//" to end of line; newlines
// are significant because they separate statements.
func scan(src string) ([]token, *EvalError) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '\n':
			toks = append(toks, token{typ: tokNewline, text: "\n", pos: i})
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case isDigit(c):
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			toks = append(toks, token{typ: tokNumber, text: src[start:i], pos: start})
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{typ: tokIdent, text: src[start:i], pos: start})
		default:
			typ, ok := punctType(c)
			if !ok {
				return nil, newErrorf(SyntaxError, Span{Start: i, End: i + 1}, "unexpected character %q", string(c))
			}
			toks = append(toks, token{typ: typ, text: string(c), pos: i})
			i++
		}
	}
	toks = append(toks, token{typ: tokEOF, pos: len(src)})
	return toks, nil
}

func punctType(c byte) (tokenType, bool) {
	switch c {
	case '+':
		return tokPlus, true
	case '-':
		return tokMinus, true
	case '*':
		return tokStar, true
	case '/':
		return tokSlash, true
	case '%':
		return tokPercent, true
	case '^':
		return tokCaret, true
	case '!':
		return tokBang, true
	case ':':
		return tokColon, true
	case ';':
		return tokSemi, true
	case '(':
		return tokLParen, true
	case ')':
		return tokRParen, true
	case '[':
		return tokLBracket, true
	case ']':
		return tokRBracket, true
	case '{':
		return tokLBrace, true
	case '}':
		return tokRBrace, true
	}
	return 0, false
}
