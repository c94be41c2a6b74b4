package formula

import (
	"strings"

	"github.com/xuri/efp"
)

// tokenKind enumerates the lexical classes consumed by the recursive-descent
// parser in parser.go. The stream is produced by adapting efp's token types
// (github.com/xuri/efp, the same formula tokenizer excelize itself builds
// its calculation engine on) into this flatter shape: efp groups a whole
// sheet-qualified range into one Operand/Range token, so splitRangeOperand
// below re-splits that single token into the ident/bang/colon sequence this
// parser expects. A function-start token becomes an ident followed by "(",
// whitespace and no-op tokens are dropped, and every other efp token maps
// to one parser token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent // function name, ref, or bare word (TRUE/FALSE)
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokBang
	tokError // #DIV/0! etc.
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// tokenize runs src through efp's Excel formula tokenizer and adapts its
// token stream into the flat shape parser.go consumes. It never returns an
// error; lexically invalid input simply yields a token stream the parser
// will reject with a structured ParseError, matching the "no exceptions
// escape" discipline.
func tokenize(src string) []token {
	raw := efp.ExcelParser().Parse(src)
	var out []token
	for i, t := range raw {
		switch t.TType {
		case efp.TokenTypeSubexpression:
			if t.TSubType == efp.TokenSubTypeStart {
				out = append(out, token{kind: tokLParen, text: "(", pos: i})
			} else {
				out = append(out, token{kind: tokRParen, text: ")", pos: i})
			}
		case efp.TokenTypeFunction:
			if t.TSubType == efp.TokenSubTypeStart {
				out = append(out, token{kind: tokIdent, text: t.TValue, pos: i})
				out = append(out, token{kind: tokLParen, text: "(", pos: i})
			} else {
				out = append(out, token{kind: tokRParen, text: ")", pos: i})
			}
		case efp.TokenTypeArgument:
			out = append(out, token{kind: tokComma, text: ",", pos: i})
		case efp.TokenTypeOperatorPrefix, efp.TokenTypeOperatorInfix, efp.TokenTypeOperatorPostfix:
			out = append(out, token{kind: tokOp, text: t.TValue, pos: i})
		case efp.TokenTypeOperand:
			out = append(out, operandTokens(t, i)...)
		case efp.TokenTypeWhitespace, efp.TokenTypeNoOp, efp.TokenTypeUnknown:
			// dropped: grouping/structure is already carried by adjacent tokens
		default:
			out = append(out, token{kind: tokOp, text: t.TValue, pos: i})
		}
	}
	out = append(out, token{kind: tokEOF, pos: len(raw)})
	return out
}

// operandTokens converts one efp Operand token into one or more parser
// tokens: a literal (number/string/logical/error) stays a single token, but
// a Range operand carries efp's whole "['Sheet Name']!A1[:B2]" text in one
// TValue and must be split back into the ident/bang/ident/colon/ident shape
// parseReferenceTail and parseIdentLed expect.
func operandTokens(t efp.Token, pos int) []token {
	switch t.TSubType {
	case efp.TokenSubTypeNumber:
		return []token{{kind: tokNumber, text: t.TValue, pos: pos}}
	case efp.TokenSubTypeText:
		return []token{{kind: tokString, text: unquoteEfpText(t.TValue), pos: pos}}
	case efp.TokenSubTypeLogical:
		return []token{{kind: tokIdent, text: t.TValue, pos: pos}}
	case efp.TokenSubTypeError:
		return []token{{kind: tokError, text: t.TValue, pos: pos}}
	case efp.TokenSubTypeRange:
		return splitRangeOperand(t.TValue, pos)
	default:
		return []token{{kind: tokIdent, text: t.TValue, pos: pos}}
	}
}

// unquoteEfpText strips the surrounding double quotes efp leaves on a Text
// operand and unescapes doubled internal quotes, mirroring the ECMA-376
// escaping rule for string literals embedded in a formula.
func unquoteEfpText(raw string) string {
	s := strings.TrimPrefix(strings.TrimSuffix(raw, `"`), `"`)
	return strings.ReplaceAll(s, `""`, `"`)
}

// splitRangeOperand turns efp's single Range token text into the token
// sequence parser.go's parseIdentLed/parseReferenceTail already know how to
// read: an optional "sheetname!" qualifier prefix, a first cell reference,
// and an optional ":second" range end.
func splitRangeOperand(raw string, pos int) []token {
	var out []token
	rest := raw

	if strings.HasPrefix(rest, "'") {
		end := 1
		for end < len(rest) {
			if rest[end] == '\'' {
				if end+1 < len(rest) && rest[end+1] == '\'' {
					end += 2
					continue
				}
				break
			}
			end++
		}
		name := strings.ReplaceAll(rest[1:end], "''", "'")
		out = append(out, token{kind: tokIdent, text: name, pos: pos})
		rest = strings.TrimPrefix(rest[end+1:], "!")
		out = append(out, token{kind: tokBang, text: "!", pos: pos})
	} else if i := strings.IndexByte(rest, '!'); i >= 0 {
		out = append(out, token{kind: tokIdent, text: rest[:i], pos: pos})
		out = append(out, token{kind: tokBang, text: "!", pos: pos})
		rest = rest[i+1:]
	}

	if i := strings.IndexByte(rest, ':'); i >= 0 {
		out = append(out, token{kind: tokIdent, text: rest[:i], pos: pos})
		out = append(out, token{kind: tokColon, text: ":", pos: pos})
		out = append(out, token{kind: tokIdent, text: rest[i+1:], pos: pos})
	} else {
		out = append(out, token{kind: tokIdent, text: rest, pos: pos})
	}
	return out
}
