package formula

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tjc-lp/xlcore/internal/domain"
)

// ParseError is returned (wrapped) when a formula string fails to parse.
type ParseError struct {
	Input  string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %q: %s", e.Input, e.Detail)
}

// Parse parses a formula string (with or without its leading "=") into a
// TExpr. No exceptions escape: every failure returns a *ParseError.
func Parse(src string) (TExpr, error) {
	src = strings.TrimPrefix(strings.TrimSpace(src), "=")
	toks := tokenize(src)
	p := &parser{toks: toks, src: src}
	expr, err := p.parseExpr(0)
	if err != nil {
		return TExpr{}, err
	}
	if p.peek().kind != tokEOF {
		return TExpr{}, &ParseError{Input: src, Detail: "unexpected trailing input at " + p.peek().text}
	}
	return expr, nil
}

type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// precedence table, lowest to highest.
var binPrec = map[string]int{
	"=": 1, "<>": 1, "<": 1, ">": 1, "<=": 1, ">=": 1,
	"&": 2,
	"+": 3, "-": 3,
	"*": 4, "/": 4,
	"^": 6,
}

var binOpOf = map[string]BinOp{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "^": OpPow, "&": OpConcat,
	"=": OpEq, "<>": OpNe, "<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
}

func (p *parser) parseExpr(minPrec int) (TExpr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return TExpr{}, err
	}
	for {
		t := p.peek()
		if t.kind == tokOp && t.text == "%" {
			p.next()
			left = Unary(OpPercent, left)
			continue
		}
		if t.kind != tokOp {
			break
		}
		prec, ok := binPrec[t.text]
		if !ok || prec < minPrec {
			break
		}
		p.next()
		nextMin := prec + 1
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return TExpr{}, err
		}
		left = Binary(binOpOf[t.text], left, right)
	}
	return left, nil
}

func (p *parser) parseUnary() (TExpr, error) {
	t := p.peek()
	if t.kind == tokOp && t.text == "-" {
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return TExpr{}, err
		}
		return Unary(OpNeg, arg), nil
	}
	if t.kind == tokOp && t.text == "+" {
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return TExpr{}, err
		}
		return Unary(OpPos, arg), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (TExpr, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		d, err := decimal.NewFromString(t.text)
		if err != nil {
			return TExpr{}, &ParseError{Input: p.src, Detail: "invalid number literal " + t.text}
		}
		return Num(d), nil
	case tokString:
		p.next()
		return Str(t.text), nil
	case tokError:
		p.next()
		kind, ok := domain.ParseCellError(t.text)
		if !ok {
			return TExpr{}, &ParseError{Input: p.src, Detail: "unknown error literal " + t.text}
		}
		return Err(kind), nil
	case tokLParen:
		p.next()
		inner, err := p.parseExpr(0)
		if err != nil {
			return TExpr{}, err
		}
		if p.peek().kind != tokRParen {
			return TExpr{}, &ParseError{Input: p.src, Detail: "missing closing parenthesis"}
		}
		p.next()
		return inner, nil
	case tokIdent:
		return p.parseIdentLed()
	default:
		return TExpr{}, &ParseError{Input: p.src, Detail: "unexpected token " + t.text}
	}
}

func (p *parser) parseIdentLed() (TExpr, error) {
	t := p.next()
	upper := strings.ToUpper(t.text)
	if upper == "TRUE" {
		return Bool(true), nil
	}
	if upper == "FALSE" {
		return Bool(false), nil
	}
	// function call: ident immediately followed by "("
	if p.peek().kind == tokLParen {
		p.next()
		var args []TExpr
		if p.peek().kind != tokRParen {
			for {
				arg, err := p.parseExpr(0)
				if err != nil {
					return TExpr{}, err
				}
				args = append(args, arg)
				if p.peek().kind == tokComma {
					p.next()
					continue
				}
				break
			}
		}
		if p.peek().kind != tokRParen {
			return TExpr{}, &ParseError{Input: p.src, Detail: "missing closing parenthesis in call to " + t.text}
		}
		p.next()
		return Func(strings.ToUpper(t.text), args), nil
	}
	// sheet-qualified reference
	if p.peek().kind == tokBang {
		p.next()
		sheetName, err := unquoteSheet(t.text)
		if err != nil {
			return TExpr{}, err
		}
		return p.parseReferenceBody(sheetName, true)
	}
	return p.parseReferenceTail(t.text, "", false)
}

// unquoteSheet accepts the sheet-name ident token splitRangeOperand emits
// (an unquoted name verbatim, or a quoted one already unescaped there), so
// it is the identity function either way.
func unquoteSheet(raw string) (domain.SheetName, error) {
	return domain.SheetName(raw), nil
}

func (p *parser) parseReferenceBody(sheet domain.SheetName, qualified bool) (TExpr, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return TExpr{}, &ParseError{Input: p.src, Detail: "expected cell reference after sheet qualifier"}
	}
	p.next()
	return p.parseReferenceTail(t.text, sheet, qualified)
}

func (p *parser) parseReferenceTail(first string, sheet domain.SheetName, qualified bool) (TExpr, error) {
	ref, err := domain.ParseARef(first)
	if err != nil {
		return TExpr{}, &ParseError{Input: p.src, Detail: "invalid reference " + first}
	}
	if p.peek().kind == tokColon {
		p.next()
		endTok := p.peek()
		if endTok.kind != tokIdent {
			return TExpr{}, &ParseError{Input: p.src, Detail: "expected range end after ':'"}
		}
		p.next()
		end, err := domain.ParseARef(endTok.text)
		if err != nil {
			return TExpr{}, &ParseError{Input: p.src, Detail: "invalid range end " + endTok.text}
		}
		return RangeRef(sheet, qualified, domain.NewCellRange(ref, end)), nil
	}
	return Ref(sheet, qualified, ref), nil
}
