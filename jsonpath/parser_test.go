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
	"testing"
)

func TestParseSimplePaths(t *testing.T) {
	cases := []struct {
		expr string
		n    int
	}{
		{"$.store.book", 3},
		{"$.store.book[*]", 4},
		{"$..price", 2},
		{"$.a[0]", 3},
		{"$.a[0,1,2]", 3},
		{"$.a[1:3]", 3},
		{"$.a[1:3:2]", 3},
		{`$["a","b"]`, 2},
		{"$.*", 2},
		{"$..*", 2},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			p, err := Parse(c.expr)
			if err != nil {
				t.Fatalf("Parse(%q): %v", c.expr, err)
			}
			if len(p.Steps) != c.n {
				t.Errorf("Parse(%q) steps = %d, want %d (%v)", c.expr, len(p.Steps), c.n, p.Steps)
			}
		})
	}
}

func TestParseFilterExpr(t *testing.T) {
	p, err := Parse("$.store.book[?(@.price < 10)].title")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var filter *FilterStep
	for _, s := range p.Steps {
		if fs, ok := s.(FilterStep); ok {
			filter = &fs
		}
	}
	if filter == nil {
		t.Fatalf("no FilterStep found in %v", p.Steps)
	}
	cmp, ok := filter.Expr.(CompareExpr)
	if !ok {
		t.Fatalf("filter expr = %T, want CompareExpr", filter.Expr)
	}
	if cmp.Op != "<" {
		t.Errorf("op = %q, want <", cmp.Op)
	}
	if cmp.Right.Literal == nil || cmp.Right.Literal.Kind != LitNumber || cmp.Right.Literal.Num != 10 {
		t.Errorf("right operand = %v, want literal 10", cmp.Right)
	}
	if cmp.Left.Path == nil {
		t.Errorf("left operand should be a sub-path")
	}
}

func TestParseLogicalExpr(t *testing.T) {
	p, err := Parse(`$.a[?(@.x == 1 && @.y == 2)]`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fs, ok := p.Steps[len(p.Steps)-1].(FilterStep)
	if !ok {
		t.Fatalf("last step = %T, want FilterStep", p.Steps[len(p.Steps)-1])
	}
	le, ok := fs.Expr.(LogicalExpr)
	if !ok {
		t.Fatalf("expr = %T, want LogicalExpr", fs.Expr)
	}
	if le.Op != "&&" {
		t.Errorf("op = %q, want &&", le.Op)
	}
}

func TestParseSetOperators(t *testing.T) {
	cases := []string{
		`$.a[?(@.x in $.allowed[*])]`,
		`$.a[?(@.x nin $.allowed[*])]`,
		`$.a[?(@.x subsetof $.allowed[*])]`,
		`$.a[?(@.x anyof $.allowed[*])]`,
		`$.a[?(@.x noneof $.allowed[*])]`,
		`$.a[?(@.x size 2)]`,
		`$.a[?(@.x empty true)]`,
		`$.a[?(@.x =~ "^foo")]`,
	}
	for _, expr := range cases {
		t.Run(expr, func(t *testing.T) {
			if _, err := Parse(expr); err != nil {
				t.Errorf("Parse(%q): %v", expr, err)
			}
		})
	}
}

func TestParseExists(t *testing.T) {
	p, err := Parse(`$.a[?(@.x)]`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fs := p.Steps[len(p.Steps)-1].(FilterStep)
	cmp, ok := fs.Expr.(CompareExpr)
	if !ok {
		t.Fatalf("expr = %T, want CompareExpr", fs.Expr)
	}
	if cmp.Op != "exists" {
		t.Errorf("op = %q, want exists", cmp.Op)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"$.",
		"$[",
		"$.a[?(@.x ==)]",
	}
	for _, expr := range cases {
		t.Run(expr, func(t *testing.T) {
			if _, err := Parse(expr); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", expr)
			}
		})
	}
}
