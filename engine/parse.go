package engine

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tNum
	tStr
	tIdent
	tOp
	tSep // ; , or newline at statement level
)

type token struct {
	kind  tokenKind
	text  string
	space bool // whitespace precedes the token
	pos   int
}

func lex(src string) ([]token, error) {
	var toks []token
	space := false
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			space = true
			i++
			continue
		case c == '%':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case c == '\n' || c == ';' || c == ',':
			toks = append(toks, token{kind: tSep, text: string(c), space: space, pos: i})
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1]) && !afterOperand(toks, space)):
			j := scanNumber(src, i)
			toks = append(toks, token{kind: tNum, text: src[i:j], space: space, pos: i})
			i = j
		case isLetter(c):
			j := i + 1
			for j < len(src) && (isLetter(src[j]) || isDigit(src[j]) || src[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tIdent, text: src[i:j], space: space, pos: i})
			i = j
		case c == '\'' || c == '"':
			s, j, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tStr, text: s, space: space, pos: i})
			i = j
		case c == '.' && i+1 < len(src) && (src[i+1] == '*' || src[i+1] == '/'):
			toks = append(toks, token{kind: tOp, text: src[i : i+2], space: space, pos: i})
			i += 2
		case strings.IndexByte("+-*/=(){}[].@:", c) >= 0:
			if c == '=' && i+1 < len(src) && src[i+1] == '=' {
				return nil, fmt.Errorf("Operator '==' is not supported.")
			}
			toks = append(toks, token{kind: tOp, text: string(c), space: space, pos: i})
			i++
		default:
			return nil, fmt.Errorf("Invalid text character. Check for unsupported symbol, invisible character, or pasting of non-ASCII characters.")
		}
		space = false
	}
	return append(toks, token{kind: tEOF, pos: len(src)}), nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func afterOperand(toks []token, space bool) bool {
	if len(toks) == 0 || space {
		return false
	}
	t := toks[len(toks)-1]
	return t.kind == tIdent || t.kind == tNum || t.kind == tStr ||
		(t.kind == tOp && (t.text == ")" || t.text == "}" || t.text == "]"))
}

func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' && !(i+1 < len(src) && (src[i+1] == '*' || src[i+1] == '/')) {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			i = j
			for i < len(src) && isDigit(src[i]) {
				i++
			}
		}
	}
	if i < len(src) && (src[i] == 'i' || src[i] == 'j') &&
		!(i+1 < len(src) && (isLetter(src[i+1]) || isDigit(src[i+1]) || src[i+1] == '_')) {
		i++
	}
	return i
}

// scanString reads a quoted literal; a doubled quote stands for one.
func scanString(src string, i int) (string, int, error) {
	q := src[i]
	var b strings.Builder
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case q:
			if j+1 < len(src) && src[j+1] == q {
				b.WriteByte(q)
				j++
				continue
			}
			return b.String(), j + 1, nil
		case '\n':
			return "", 0, fmt.Errorf("String is not terminated properly.")
		}
		b.WriteByte(src[j])
	}
	return "", 0, fmt.Errorf("String is not terminated properly.")
}

type node interface{}

type numLit struct {
	text string
	v    float64
	imag bool
}

type strLit struct{ s string }

type handleLit struct{ name string }

type ident struct{ name string }

type colonArg struct{}

type indexExpr struct {
	target node
	brace  bool
	args   []node
}

type fieldExpr struct {
	target node
	name   string
}

type unaryExpr struct {
	op string
	x  node
}

type binaryExpr struct {
	op   string
	l, r node
}

type matrixExpr struct {
	rows [][]node
	cell bool
}

type stmt interface{}

type assignStmt struct {
	targets []string
	x       node
}

type exprStmt struct{ x node }

type clearStmt struct{ names []string }

type parser struct {
	toks []token
	pos  int
	// bracket depth; inside [] whitespace separates elements.
	brackets int
}

func parse(src string) ([]stmt, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var out []stmt
	for {
		for p.peek().kind == tSep {
			p.pos++
		}
		if p.peek().kind == tEOF {
			return out, nil
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if t := p.peek(); t.kind != tSep && t.kind != tEOF {
			return nil, fmt.Errorf("Invalid expression near '%s'.", t.text)
		}
	}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(text string) bool {
	t := p.peek()
	return t.kind == tOp && t.text == text
}

func (p *parser) expect(text string) error {
	if !p.isOp(text) {
		t := p.peek()
		if t.kind == tEOF || t.kind == tSep {
			return fmt.Errorf("Invalid expression. When calling a function or indexing a variable, use parentheses. Otherwise, check for mismatched delimiters.")
		}
		return fmt.Errorf("Invalid expression near '%s'.", t.text)
	}
	p.pos++
	return nil
}

func (p *parser) statement() (stmt, error) {
	t := p.peek()
	if t.kind == tIdent && t.text == "clear" && !(p.peekAt(1).kind == tOp && p.peekAt(1).text == "=") {
		p.pos++
		var names []string
		for p.peek().kind == tIdent {
			names = append(names, p.next().text)
		}
		return &clearStmt{names: names}, nil
	}
	if p.isOp("[") {
		if targets, ok := p.multiTargets(); ok {
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			return &assignStmt{targets: targets, x: x}, nil
		}
	}
	if t.kind == tIdent && p.peekAt(1).kind == tOp && p.peekAt(1).text == "=" {
		p.pos += 2
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &assignStmt{targets: []string{t.text}, x: x}, nil
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &exprStmt{x: x}, nil
}

// multiTargets matches "[a, b] =" and consumes it, or leaves the position
// unchanged.
func (p *parser) multiTargets() ([]string, bool) {
	start := p.pos
	p.pos++
	var names []string
	for {
		t := p.peek()
		if t.kind != tIdent {
			break
		}
		names = append(names, t.text)
		p.pos++
		if p.peek().kind == tSep && p.peek().text == "," {
			p.pos++
		}
	}
	if p.isOp("]") && p.peekAt(1).kind == tOp && p.peekAt(1).text == "=" && len(names) > 0 {
		p.pos += 2
		return names, true
	}
	p.pos = start
	return nil, false
}

func (p *parser) expr() (node, error) {
	l, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		if p.brackets > 0 && p.elementBreak() {
			return l, nil
		}
		op := p.next().text
		r, err := p.term()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: op, l: l, r: r}
	}
	return l, nil
}

// elementBreak reports whether a sign inside brackets starts a new element,
// as in [1 -2].
func (p *parser) elementBreak() bool {
	return p.peek().space && !p.peekAt(1).space
}

func (p *parser) term() (node, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") || p.isOp(".*") || p.isOp("./") {
		op := p.next().text
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) unary() (node, error) {
	if p.isOp("-") || p.isOp("+") {
		op := p.next().text
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: op, x: x}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("(") && !(p.brackets > 0 && p.peek().space):
			p.pos++
			args, err := p.args(")")
			if err != nil {
				return nil, err
			}
			x = &indexExpr{target: x, args: args}
		case p.isOp("{") && !(p.brackets > 0 && p.peek().space):
			p.pos++
			args, err := p.args("}")
			if err != nil {
				return nil, err
			}
			x = &indexExpr{target: x, brace: true, args: args}
		case p.isOp("."):
			p.pos++
			t := p.next()
			if t.kind != tIdent {
				return nil, fmt.Errorf("Invalid use of a period. Field names must follow the period.")
			}
			x = &fieldExpr{target: x, name: t.text}
		default:
			return x, nil
		}
	}
}

func (p *parser) args(closer string) ([]node, error) {
	saved := p.brackets
	p.brackets = 0
	defer func() { p.brackets = saved }()

	var args []node
	if p.isOp(closer) {
		p.pos++
		return args, nil
	}
	for {
		if p.isOp(":") && (p.peekAt(1).kind == tSep || (p.peekAt(1).kind == tOp && p.peekAt(1).text == closer)) {
			p.pos++
			args = append(args, colonArg{})
		} else {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		if p.isOp(closer) {
			p.pos++
			return args, nil
		}
		if t := p.peek(); t.kind == tSep && t.text == "," {
			p.pos++
			continue
		}
		return nil, p.expect(closer)
	}
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tNum:
		text := strings.TrimRight(t.text, "ij")
		v, err := strconv.ParseFloat(text, 64)
		if err != nil && !isRangeErr(err) {
			return nil, fmt.Errorf("Invalid number '%s'.", t.text)
		}
		return &numLit{text: text, v: v, imag: text != t.text}, nil
	case tStr:
		return &strLit{s: t.text}, nil
	case tIdent:
		return &ident{name: t.text}, nil
	case tOp:
		switch t.text {
		case "@":
			n := p.next()
			if n.kind != tIdent {
				return nil, fmt.Errorf("Anonymous functions are not supported.")
			}
			return &handleLit{name: n.text}, nil
		case "(":
			saved := p.brackets
			p.brackets = 0
			x, err := p.expr()
			p.brackets = saved
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return x, nil
		case "[":
			return p.matrix("]")
		case "{":
			return p.matrix("}")
		}
	case tEOF, tSep:
		return nil, fmt.Errorf("Invalid expression. Check for missing or extra characters.")
	}
	return nil, fmt.Errorf("Invalid expression near '%s'.", t.text)
}

// matrix parses [a b; c d] or, with closer "}", the cell literal {a b; c d}.
func (p *parser) matrix(closer string) (node, error) {
	p.brackets++
	defer func() { p.brackets-- }()

	m := &matrixExpr{cell: closer == "}"}
	var row []node
	for {
		t := p.peek()
		switch {
		case t.kind == tOp && t.text == closer:
			p.pos++
			if len(row) > 0 || len(m.rows) > 0 {
				m.rows = append(m.rows, row)
			}
			return m, nil
		case t.kind == tEOF:
			return nil, fmt.Errorf("Invalid expression. When calling a function or indexing a variable, use parentheses. Otherwise, check for mismatched delimiters.")
		case t.kind == tSep && t.text == ",":
			p.pos++
		case t.kind == tSep:
			p.pos++
			if len(row) > 0 {
				m.rows = append(m.rows, row)
				row = nil
			}
		default:
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			row = append(row, x)
		}
	}
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
