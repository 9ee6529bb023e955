package golimit

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Expression is a normalized user function. It is created once per query
// and never mutated; transformations build new trees.
type Expression struct {
	Raw        string
	Normalized string
	Variable   string
	Valid      bool
	tree       Expr
	parsed     Expr
}

// Tree returns the canonical expression tree.
func (e Expression) Tree() Expr { return e.tree }

// evalTree is the tree as written, before simplification. It is undefined
// exactly where the input is, so evaluation and sampling use it.
func (e Expression) evalTree() Expr {
	if e.parsed != nil {
		return e.parsed
	}
	return e.tree
}

func (e Expression) LaTeX() string {
	if e.tree == nil {
		return ""
	}
	return e.tree.LaTeX()
}

func (e Expression) String() string { return e.Normalized }

// expressionOf wraps a tree built by the engine itself.
func expressionOf(tree Expr, v string) Expression {
	s := tree.String()
	return Expression{Raw: s, Normalized: s, Variable: v, Valid: true, tree: tree}
}

// Normalizer turns user text into canonical expressions.
type Normalizer struct {
	variable string
}

func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{variable: cfg.Variable}
}

// funcAliases maps accepted function names to canonical ones.
var funcAliases = map[string]string{
	"sin": "sin", "sen": "sin",
	"cos": "cos",
	"tan": "tan", "tg": "tan",
	"ln": "ln", "log": "log",
	"exp": "exp", "sqrt": "sqrt", "abs": "abs",
	"asin": "asin", "arcsin": "asin",
	"acos": "acos", "arccos": "acos",
	"atan": "atan", "arctan": "atan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
}

var notation = strings.NewReplacer(
	"**", "^",
	"×", "*",
	"·", "*",
	"÷", "/",
	"−", "-",
	"π", "pi",
	"√", "sqrt",
)

// Normalize parses raw into a canonical Expression. Errors are *ParseError.
func (n *Normalizer) Normalize(raw string) (Expression, error) {
	parsed, err := n.parse(raw)
	if err != nil {
		return Expression{Raw: raw}, err
	}
	tree := parsed.Simplify()
	return Expression{
		Raw:        raw,
		Normalized: tree.String(),
		Variable:   n.variable,
		Valid:      true,
		tree:       tree,
		parsed:     parsed,
	}, nil
}

func (n *Normalizer) parse(raw string) (Expr, error) {
	text := strings.ToLower(notation.Replace(raw))
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Input: raw, Msg: "empty expression"}
	}
	toks, err := tokenize(raw, text)
	if err != nil {
		return nil, err
	}
	p := &parser{raw: raw, toks: toks, variable: n.variable}
	tree, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return tree, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func tokenize(raw, text string) ([]token, error) {
	var toks []token
	depth := 0
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			j := scanNumber(text, i)
			toks = append(toks, token{kind: tokNum, text: text[i:j], pos: i})
			i = j
		case c == '_' || isLetter(c):
			j := i
			for j < len(text) && (text[j] == '_' || isDigit(text[j]) || isLetter(text[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: text[i:j], pos: i})
			i = j
		case strings.IndexByte("+-*/^", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(' || c == '[' || c == '{':
			depth++
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				return nil, &ParseError{Input: raw, Pos: i, Msg: "unbalanced parentheses: unexpected ')'"}
			}
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, &ParseError{Input: raw, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	if depth > 0 {
		return nil, &ParseError{Input: raw, Pos: len(text), Msg: "unbalanced parentheses: missing ')'"}
	}
	return append(toks, token{kind: tokEOF, pos: len(text)}), nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }

// scanNumber accepts digits, one decimal point and an exponent that is
// followed by digits.
func scanNumber(s string, i int) int {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	if j < len(s) && s[j] == 'e' {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

type parser struct {
	raw      string
	toks     []token
	i        int
	variable string
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Input: p.raw, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(t token) error {
	switch t.kind {
	case tokNum, tokIdent, tokLParen:
		return p.errorf(t.pos, "implicit multiplication is not supported, use '*' before %q", t.text)
	case tokRParen:
		return p.errorf(t.pos, "unexpected ')'")
	case tokEOF:
		return p.errorf(t.pos, "unexpected end of expression")
	}
	return p.errorf(t.pos, "unexpected %q", t.text)
}

// The parser builds trees as written; Normalize simplifies them. Constant
// subtrees are folded so exponents such as 1/3 stay exact rationals.

func (p *parser) fold(e Expr) Expr {
	if dependsOn(e, p.variable) {
		return e
	}
	if n, ok := e.Simplify().(*Num); ok {
		return n
	}
	return e
}

// negParsed negates a parsed operand without simplifying it.
func negParsed(e Expr) Expr {
	if n, ok := e.(*Num); ok {
		return numNeg(n)
	}
	return &Mul{factors: []Expr{N(-1), e}}
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			break
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			right = negParsed(right)
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return p.fold(&Add{terms: terms}), nil
}

// term := unary (('*' | '/') unary)*
func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			break
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.text == "/" {
			right = &Pow{base: right, exp: N(-1)}
		}
		factors = append(factors, right)
	}
	if len(factors) == 1 {
		return left, nil
	}
	return p.fold(&Mul{factors: factors}), nil
}

// unary := ('-' | '+') unary | power
func (p *parser) unary() (Expr, error) {
	if t := p.peek(); t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negParsed(operand), nil
		}
		return operand, nil
	}
	return p.power()
}

// power := primary ('^' unary)?
func (p *parser) power() (Expr, error) {
	start := p.peek()
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp && t.text == "^" {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		if start.kind == tokIdent && start.text == "e" {
			return funcOf("exp", exp), nil
		}
		return p.fold(&Pow{base: base, exp: exp}), nil
	}
	return base, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errorf(t.pos, "malformed number %q", t.text)
		}
		return NRat(r), nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.unexpected(c)
		}
		return inner, nil
	case tokIdent:
		return p.ident(t)
	case tokEOF:
		return nil, p.errorf(t.pos, "unexpected end of expression")
	}
	return nil, p.errorf(t.pos, "unexpected %q", t.text)
}

func (p *parser) ident(t token) (Expr, error) {
	if name, ok := funcAliases[t.text]; ok {
		if p.peek().kind != tokLParen {
			return nil, p.errorf(t.pos, "function %s needs a parenthesized argument", t.text)
		}
		p.next()
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.unexpected(c)
		}
		if name == "sqrt" {
			return &Pow{base: arg, exp: F(1, 2)}, nil
		}
		return funcOf(name, arg), nil
	}
	switch {
	case t.text == p.variable && p.variable != "":
		return S(p.variable), nil
	case t.text == "pi":
		return NFloat(math.Pi), nil
	case t.text == "e":
		return NFloat(math.E), nil
	}
	return nil, p.errorf(t.pos, "unknown identifier %q", t.text)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || isLetter(c) || (i > 0 && isDigit(c))) {
			return false
		}
	}
	return true
}

func isReserved(s string) bool {
	_, fn := funcAliases[s]
	return fn || s == "pi" || s == "e"
}

// ParsePoint parses a limit point: a real literal, a constant expression
// such as pi/2, or one of the infinity tokens.
func ParsePoint(raw string) (ExtendedReal, error) {
	s := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	s = strings.ReplaceAll(s, "∞", "inf")
	switch s {
	case "inf", "+inf", "infinity", "+infinity":
		return PosInf, nil
	case "-inf", "-infinity":
		return NegInf, nil
	case "":
		return ExtendedReal{}, &ParseError{Input: raw, Msg: "empty point"}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return Finite(v), nil
	}
	tree, err := (&Normalizer{}).parse(s)
	if err != nil {
		return ExtendedReal{}, &ParseError{Input: raw, Msg: "point must be a number, a constant or an infinity"}
	}
	n, ok := tree.Simplify().Eval()
	if !ok {
		return ExtendedReal{}, &ParseError{Input: raw, Msg: "point does not evaluate to a real number"}
	}
	return Finite(n.Float64()), nil
}
