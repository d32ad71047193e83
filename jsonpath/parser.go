/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package jsonpath

import (
	"fmt"
	"strconv"
)

// setOps are the grammar's named set/size/regex operators, lexed as plain
// identifiers and reclassified here when an operator is expected.
var setOps = map[string]bool{
	"in": true, "nin": true, "subsetof": true, "anyof": true,
	"noneof": true, "size": true, "empty": true,
}

type parser struct {
	lex  *lexer
	cur  token
	peek token
}

// Parse compiles a path expression string into an AST.
func Parse(s string) (*Path, error) {
	p := &parser{lex: newLexer(s)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing token %q", p.cur.text)
	}
	return path, nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *parser) parsePath() (*Path, error) {
	var steps []Step
	for {
		switch p.cur.kind {
		case tokDollar:
			steps = append(steps, RootStep{})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokAt:
			steps = append(steps, CurrentStep{})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokStar {
				steps = append(steps, WildcardMemberStep{})
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("expected identifier after '.'")
			}
			steps = append(steps, MemberStep{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokDotDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokStar {
				steps = append(steps, RecursiveWildcardStep{})
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("expected identifier after '..'")
			}
			steps = append(steps, RecursiveMemberStep{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokColon:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("expected identifier after ':'")
			}
			steps = append(steps, MemberStep{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokLBracket:
			step, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		default:
			if len(steps) == 0 {
				return nil, fmt.Errorf("empty path")
			}
			return &Path{Steps: steps}, nil
		}
	}
}

func (p *parser) parseBracket() (Step, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	switch {
	case p.cur.kind == tokStar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return WildcardElementStep{}, nil
	case p.cur.kind == tokQuestion:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return FilterStep{Expr: expr}, nil
	case p.cur.kind == tokString:
		var keys []string
		for {
			keys = append(keys, p.cur.text)
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return KeyStep{Keys: keys}, nil
	default:
		return p.parseIndexOrSlice()
	}
}

func (p *parser) parseOptionalInt() (*int, error) {
	if p.cur.kind != tokInt {
		return nil, nil
	}
	n, err := strconv.Atoi(p.cur.text)
	if err != nil {
		return nil, fmt.Errorf("bad integer %q", p.cur.text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &n, nil
}

func (p *parser) parseIndexOrSlice() (Step, error) {
	first, err := p.parseOptionalInt()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokColon {
		if err := p.advance(); err != nil {
			return nil, err
		}
		end, err := p.parseOptionalInt()
		if err != nil {
			return nil, err
		}
		var step *int
		if p.cur.kind == tokColon {
			if err := p.advance(); err != nil {
				return nil, err
			}
			step, err = p.parseOptionalInt()
			if err != nil {
				return nil, err
			}
		}
		if err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return SliceStep{Start: first, End: end, Step: step}, nil
	}
	if first == nil {
		return nil, fmt.Errorf("expected integer, string, '*', or '?(' inside '['")
	}
	indices := []int{*first}
	for p.cur.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseOptionalInt()
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, fmt.Errorf("expected integer after ','")
		}
		indices = append(indices, *n)
	}
	if err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	return IndexStep{Indices: indices}, nil
}

func (p *parser) expect(k tokenKind) error {
	if p.cur.kind != k {
		return fmt.Errorf("unexpected token %q", p.cur.text)
	}
	return p.advance()
}

// parseExpr parses 'expr (&&|| expr)*', left-associative.
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAndAnd || p.cur.kind == tokOrOr {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = LogicalExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseComparison parses 'sub (op sub)?'.
func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, ok, err := p.tryConsumeOp()
	if err != nil {
		return nil, err
	}
	if !ok {
		return CompareExpr{Op: "exists", Left: left}, nil
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return CompareExpr{Op: op, Left: left, Right: right}, nil
}

func (p *parser) tryConsumeOp() (string, bool, error) {
	if p.cur.kind == tokOp {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return "", false, err
		}
		return op, true, nil
	}
	if p.cur.kind == tokIdent && setOps[p.cur.text] {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return "", false, err
		}
		return op, true, nil
	}
	return "", false, nil
}

func (p *parser) parseOperand() (Operand, error) {
	if p.cur.kind == tokDollar || p.cur.kind == tokAt {
		sub, err := p.parseSubPath()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Path: sub}, nil
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return Operand{}, err
	}
	return Operand{Literal: lit}, nil
}

// parseSubPath parses a path embedded inside an expression: the same step
// grammar as a top-level path, but stopping at operators/logical
// connectives/closing parens rather than EOF.
func (p *parser) parseSubPath() (*Path, error) {
	var steps []Step
	for {
		switch p.cur.kind {
		case tokDollar:
			steps = append(steps, RootStep{})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokAt:
			steps = append(steps, CurrentStep{})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokDot, tokDotDot, tokColon, tokLBracket:
			full := &Path{Steps: steps}
			rest, err := p.parsePathTail()
			if err != nil {
				return nil, err
			}
			full.Steps = append(full.Steps, rest...)
			return full, nil
		default:
			return &Path{Steps: steps}, nil
		}
	}
}

// parsePathTail parses zero or more non-root/current steps (the bracket
// and dot forms), reusing parseBracket/ident handling.
func (p *parser) parsePathTail() ([]Step, error) {
	var steps []Step
	for {
		switch p.cur.kind {
		case tokDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokStar {
				steps = append(steps, WildcardMemberStep{})
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("expected identifier after '.'")
			}
			steps = append(steps, MemberStep{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokDotDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokStar {
				steps = append(steps, RecursiveWildcardStep{})
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("expected identifier after '..'")
			}
			steps = append(steps, RecursiveMemberStep{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokColon:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("expected identifier after ':'")
			}
			steps = append(steps, MemberStep{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokLBracket:
			step, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		default:
			return steps, nil
		}
	}
}

func (p *parser) parseLiteral() (*Literal, error) {
	switch p.cur.kind {
	case tokIdent:
		switch p.cur.text {
		case "null":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &Literal{Kind: LitNull}, nil
		case "true", "false":
			b := p.cur.text == "true"
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &Literal{Kind: LitBool, Bool: b}, nil
		}
		return nil, fmt.Errorf("unexpected identifier %q in expression", p.cur.text)
	case tokInt, tokFloat:
		f, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p.cur.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Kind: LitNumber, Num: f}, nil
	case tokString:
		s := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Kind: LitString, Str: s}, nil
	default:
		return nil, fmt.Errorf("unexpected token %q in expression", p.cur.text)
	}
}
