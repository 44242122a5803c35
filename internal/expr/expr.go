// Package expr evaluates the free-text quantity expressions operators type
// during a stock count, e.g. "4x8+4x7" for four shelves of 8 and four of 7.
package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrDivisionByZero = errors.New("division by zero")
)

// Eval parses and evaluates an arithmetic expression restricted to
// + - * / and integer literals, with standard precedence. The letter "x"
// (and its Cyrillic lookalike "х") means multiplication; every other
// non-operator character is stripped before parsing. A fractional result
// is truncated toward zero. The result may be negative; callers reject
// negative quantities themselves.
func Eval(input string) (int, error) {
	cleaned := normalize(input)
	if strings.TrimSpace(cleaned) == "" {
		return 0, ErrEmpty
	}

	p := &parser{tokens: tokenize(cleaned)}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("unexpected %q", p.tokens[p.pos].text)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrDivisionByZero
	}
	return int(math.Trunc(value)), nil
}

// normalize maps multiplication aliases to '*' and drops every character
// that is not a digit, an operator, or whitespace.
func normalize(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r == 'x' || r == 'х':
			b.WriteRune('*')
		case r >= '0' && r <= '9' || r == '+' || r == '-' || r == '*' || r == '/':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			// Kept as a separator: "12 34" must fail to parse rather
			// than collapse into one number.
			b.WriteRune(' ')
		}
	}
	return b.String()
}

type token struct {
	text  string
	isNum bool
}

func tokenize(s string) []token {
	var tokens []token
	for i := 0; i < len(s); {
		c := s[i]
		if c == ' ' {
			i++
			continue
		}
		if c >= '0' && c <= '9' {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			tokens = append(tokens, token{text: s[i:j], isNum: true})
			i = j
			continue
		}
		tokens = append(tokens, token{text: string(c)})
		i++
	}
	return tokens
}

// parser is a recursive-descent evaluator over the token stream. Values
// accumulate as float64 so division keeps its fractional part until the
// final truncation in Eval.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("+", "-")
		if !ok {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			value += rhs
		} else {
			value -= rhs
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	value, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("*", "/")
		if !ok {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			value *= rhs
		} else {
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}
			value /= rhs
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	if op, ok := p.peekOp("-", "+"); ok {
		p.pos++
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == "-" {
			return -value, nil
		}
		return value, nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, error) {
	if p.pos >= len(p.tokens) {
		return 0, errors.New("unexpected end of expression")
	}
	t := p.tokens[p.pos]
	if !t.isNum {
		return 0, fmt.Errorf("unexpected %q", t.text)
	}
	p.pos++

	var value float64
	for i := 0; i < len(t.text); i++ {
		value = value*10 + float64(t.text[i]-'0')
	}
	return value, nil
}

func (p *parser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].isNum {
		return "", false
	}
	for _, op := range ops {
		if p.tokens[p.pos].text == op {
			return op, true
		}
	}
	return "", false
}
