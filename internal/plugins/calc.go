package plugins

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

const calcAllowed = "0123456789+-*/() ."

// Calc evaluates + - * / expressions with parentheses.
func Calc() skills.Factory {
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:     "calc",
		Description: "简单计算器，支持加减乘除",
		Usage:       "calc 1+2*3",
	}, func(_ context.Context, req schema.Request) (string, error) {
		if len(req.Args) == 0 {
			return "请输入要计算的表达式，例如: calc 1 + 2", nil
		}
		expr := strings.Join(req.Args, " ")
		for _, r := range expr {
			if !strings.ContainsRune(calcAllowed, r) {
				return "表达式包含不允许的字符，只允许数字和 +、-、*、/、(、) 运算符", nil
			}
		}
		v, err := evaluate(expr)
		if err != nil {
			return fmt.Sprintf("计算错误: %v", err), nil
		}
		return fmt.Sprintf("计算结果: %s = %s", expr, strconv.FormatFloat(v, 'f', -1, 64)), nil
	}))
}

var (
	errDivByZero  = errors.New("division by zero")
	errSyntax     = errors.New("invalid syntax")
	errUnbalanced = errors.New("unbalanced parentheses")
)

// parser is a recursive-descent evaluator over the calcAllowed alphabet.
//
//	expr   = term { ("+"|"-") term }
//	term   = factor { ("*"|"/") factor }
//	factor = ("+"|"-") factor | number | "(" expr ")"
type parser struct {
	src string
	pos int
}

func evaluate(src string) (float64, error) {
	p := &parser{src: src}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		if p.src[p.pos] == ')' {
			return 0, errUnbalanced
		}
		return 0, fmt.Errorf("%w at position %d", errSyntax, p.pos)
	}
	return v, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v += r
		case '-':
			p.pos++
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			r, err := p.factor()
			if err != nil {
				return 0, err
			}
			v *= r
		case '/':
			p.pos++
			r, err := p.factor()
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, errDivByZero
			}
			v /= r
		default:
			return v, nil
		}
	}
}

func (p *parser) factor() (float64, error) {
	switch c := p.peek(); {
	case c == '+':
		p.pos++
		return p.factor()
	case c == '-':
		p.pos++
		v, err := p.factor()
		return -v, err
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, errUnbalanced
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case c == 0:
		return 0, fmt.Errorf("%w: unexpected end of expression", errSyntax)
	default:
		return 0, fmt.Errorf("%w at position %d", errSyntax, p.pos)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] == '.' || (p.src[p.pos] >= '0' && p.src[p.pos] <= '9')) {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", errSyntax, p.src[start:p.pos])
	}
	return v, nil
}
