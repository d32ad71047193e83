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

package jsonb

import (
	"regexp"

	"github.com/flowbyte/jsonb/jsonpath"
)

// pathItem is one element of the selector's pipeline queue: a value plus
// its byte offset within the root buffer, when known. Offset is -1 for
// synthetic (freshly wrapped scalar) values that do not alias the root's
// backing array -- grounded on the original selector's
// Item::Container(&[u8]) (borrowed, offset known) vs Item::Scalar(Vec<u8>)
// (owned, no wire position) split.
type pathItem struct {
	value  Value
	offset int
}

// MatchResult is one reported match: its value and, when available, the
// byte offset of that value within the queried root buffer.
type MatchResult struct {
	Value  Value
	Offset int
}

// Selector evaluates a parsed path against a root Value using one of the
// four documented modes.
type Selector struct {
	path *jsonpath.Path
	mode jsonpath.Mode
}

// NewSelector compiles expr and pairs it with mode.
func NewSelector(expr string, mode jsonpath.Mode) (*Selector, error) {
	p, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, wrapErr(ErrInvalidJsonPath, err, "parsing path %q", expr)
	}
	return &Selector{path: p, mode: mode}, nil
}

// Run evaluates the selector against root. For First/Array/Predicate
// modes the encoded result is appended to dst; for Mixed, dst is returned
// unchanged and callers should inspect the returned matches directly.
func (s *Selector) Run(dst []byte, root Value) ([]byte, []MatchResult, error) {
	items, err := s.evaluate(root)
	if err != nil {
		return dst, nil, err
	}
	matches := make([]MatchResult, len(items))
	for i, it := range items {
		matches[i] = MatchResult{Value: it.value, Offset: it.offset}
	}
	switch s.mode {
	case jsonpath.Predicate:
		out, err := wrapBool(dst, len(matches) > 0)
		return out, matches, err
	case jsonpath.First:
		if len(matches) == 0 {
			return dst, matches, nil
		}
		return append(dst, matches[0].Value...), matches[:1], nil
	case jsonpath.Array:
		b := NewArrayBuilder(len(matches))
		for _, m := range matches {
			b.PushValue(m.Value)
		}
		out, err := b.BuildInto(dst)
		return out, matches, err
	default: // Mixed
		return dst, matches, nil
	}
}

func wrapBool(dst []byte, b bool) ([]byte, error) {
	typ := JEntryFalse
	if b {
		typ = JEntryTrue
	}
	v := wrapScalar(jEntry{typ: typ}, nil)
	return append(dst, v...), nil
}

func (s *Selector) evaluate(root Value) ([]pathItem, error) {
	return runSteps(s.path.Steps, root, pathItem{value: root, offset: 0})
}

// runSteps drives the queue through each step in order: the queue starts
// as the single item start, and each step maps the current queue to the
// next, matching the pipeline contract in spec.md §4.7.
func runSteps(steps []jsonpath.Step, root Value, start pathItem) ([]pathItem, error) {
	queue := []pathItem{start}
	for _, step := range steps {
		var next []pathItem
		for _, item := range queue {
			produced, err := evalStep(step, item, root)
			if err != nil {
				return nil, err
			}
			next = append(next, produced...)
		}
		queue = next
	}
	return queue, nil
}

func borrowOrWrap(je jEntry, payload []byte, baseOffset, localOff int) pathItem {
	if je.typ == JEntryContainer {
		off := -1
		if baseOffset >= 0 {
			off = baseOffset + localOff
		}
		return pathItem{value: Value(payload), offset: off}
	}
	return pathItem{value: wrapScalar(je, payload), offset: -1}
}

func evalStep(step jsonpath.Step, item pathItem, root Value) ([]pathItem, error) {
	switch st := step.(type) {
	case jsonpath.RootStep:
		return []pathItem{{value: root, offset: 0}}, nil
	case jsonpath.CurrentStep:
		return []pathItem{item}, nil
	case jsonpath.WildcardMemberStep:
		h, err := item.value.header()
		if err != nil || h.tag != TagObject {
			return nil, nil
		}
		return collectObjectValues(item.value, item.offset)
	case jsonpath.RecursiveWildcardStep:
		return collectDescendants(item.value, item.offset), nil
	case jsonpath.WildcardElementStep:
		h, err := item.value.header()
		if err != nil {
			return nil, err
		}
		if h.tag != TagArray {
			return []pathItem{item}, nil // leniency: pass through non-arrays
		}
		return collectArrayElements(item.value, item.offset)
	case jsonpath.MemberStep:
		h, err := item.value.header()
		if err != nil || h.tag != TagObject {
			return nil, nil
		}
		return lookupMember(item.value, item.offset, st.Name)
	case jsonpath.RecursiveMemberStep:
		var out []pathItem
		recGatherByName(item.value, st.Name, item.offset, &out)
		return out, nil
	case jsonpath.IndexStep:
		h, err := item.value.header()
		if err != nil || h.tag != TagArray {
			return nil, nil
		}
		return lookupIndices(item.value, item.offset, st.Indices)
	case jsonpath.KeyStep:
		h, err := item.value.header()
		if err != nil || h.tag != TagObject {
			return nil, nil
		}
		var out []pathItem
		for _, k := range st.Keys {
			found, err := lookupMember(item.value, item.offset, k)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
		return out, nil
	case jsonpath.SliceStep:
		h, err := item.value.header()
		if err != nil || h.tag != TagArray {
			return nil, nil
		}
		return lookupSlice(item.value, item.offset, st)
	case jsonpath.FilterStep:
		candidates := []pathItem{item}
		if h, err := item.value.header(); err == nil && h.tag == TagArray {
			candidates, err = collectArrayElements(item.value, item.offset)
			if err != nil {
				return nil, err
			}
		}
		var out []pathItem
		for _, c := range candidates {
			ok, err := evalExpr(st.Expr, root, c.value)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, c)
			}
		}
		return out, nil
	default:
		return nil, newErr(ErrInvalidJsonPath, "unsupported path step %T", step)
	}
}

func collectArrayElements(v Value, baseOffset int) ([]pathItem, error) {
	it, err := v.ArrayElements()
	if err != nil {
		return nil, err
	}
	var out []pathItem
	for {
		je, payload, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, borrowOrWrap(je, payload, baseOffset, it.LastOffset()))
	}
}

func collectObjectValues(v Value, baseOffset int) ([]pathItem, error) {
	it, err := v.ObjectEntries()
	if err != nil {
		return nil, err
	}
	var out []pathItem
	for {
		_, je, payload, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, borrowOrWrap(je, payload, baseOffset, it.LastValueOffset()))
	}
}

func lookupMember(v Value, baseOffset int, name string) ([]pathItem, error) {
	it, err := v.ObjectEntries()
	if err != nil {
		return nil, err
	}
	for {
		k, je, payload, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if k == name {
			return []pathItem{borrowOrWrap(je, payload, baseOffset, it.LastValueOffset())}, nil
		}
	}
}

func lookupIndices(v Value, baseOffset int, indices []int) ([]pathItem, error) {
	n, err := v.Length()
	if err != nil {
		return nil, err
	}
	want := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 {
			idx += n
		}
		want[idx] = true
	}
	it, err := v.ArrayElements()
	if err != nil {
		return nil, err
	}
	var out []pathItem
	for i := 0; ; i++ {
		je, payload, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		if want[i] {
			out = append(out, borrowOrWrap(je, payload, baseOffset, it.LastOffset()))
		}
	}
}

func lookupSlice(v Value, baseOffset int, st jsonpath.SliceStep) ([]pathItem, error) {
	n, err := v.Length()
	if err != nil {
		return nil, err
	}
	start, end, step := 0, n, 1
	if st.Start != nil {
		start = *st.Start
		if start < 0 {
			start += n
		}
	}
	if st.End != nil {
		end = *st.End
		if end < 0 {
			end += n
		}
	}
	if st.Step != nil && *st.Step > 0 {
		step = *st.Step
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	it, err := v.ArrayElements()
	if err != nil {
		return nil, err
	}
	var out []pathItem
	for i := 0; ; i++ {
		je, payload, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		if i >= start && i < end && (i-start)%step == 0 {
			out = append(out, borrowOrWrap(je, payload, baseOffset, it.LastOffset()))
		}
	}
}

// collectDescendants gathers every value reachable at any depth under v
// (not including v itself), for the '..*' step.
func collectDescendants(v Value, baseOffset int) []pathItem {
	var out []pathItem
	var walk func(Value, int)
	walk = func(cur Value, off int) {
		h, err := cur.header()
		if err != nil {
			return
		}
		switch h.tag {
		case TagArray:
			it, err := cur.ArrayElements()
			if err != nil {
				return
			}
			for {
				je, payload, ok, err := it.Next()
				if err != nil || !ok {
					return
				}
				pi := borrowOrWrap(je, payload, off, it.LastOffset())
				out = append(out, pi)
				if je.typ == JEntryContainer {
					walk(pi.value, pi.offset)
				}
			}
		case TagObject:
			it, err := cur.ObjectEntries()
			if err != nil {
				return
			}
			for {
				_, je, payload, ok, err := it.Next()
				if err != nil || !ok {
					return
				}
				pi := borrowOrWrap(je, payload, off, it.LastValueOffset())
				out = append(out, pi)
				if je.typ == JEntryContainer {
					walk(pi.value, pi.offset)
				}
			}
		}
	}
	walk(v, baseOffset)
	return out
}

// recGatherByName walks every container subtree rooted at v (including v
// itself) and appends the value of every object member named name, at
// any depth.
func recGatherByName(v Value, name string, baseOffset int, out *[]pathItem) {
	h, err := v.header()
	if err != nil {
		return
	}
	switch h.tag {
	case TagObject:
		it, err := v.ObjectEntries()
		if err != nil {
			return
		}
		for {
			k, je, payload, ok, err := it.Next()
			if err != nil || !ok {
				return
			}
			pi := borrowOrWrap(je, payload, baseOffset, it.LastValueOffset())
			if k == name {
				*out = append(*out, pi)
			}
			if je.typ == JEntryContainer {
				recGatherByName(pi.value, name, pi.offset, out)
			}
		}
	case TagArray:
		it, err := v.ArrayElements()
		if err != nil {
			return
		}
		for {
			je, payload, ok, err := it.Next()
			if err != nil || !ok {
				return
			}
			if je.typ == JEntryContainer {
				pi := borrowOrWrap(je, payload, baseOffset, it.LastOffset())
				recGatherByName(pi.value, name, pi.offset, out)
			}
		}
	}
}

// --- filter expression evaluation ---

func evalExpr(expr jsonpath.Expr, root, cur Value) (bool, error) {
	switch e := expr.(type) {
	case jsonpath.LogicalExpr:
		left, err := evalExpr(e.Left, root, cur)
		if err != nil {
			return false, err
		}
		if e.Op == "&&" && !left {
			return false, nil
		}
		if e.Op == "||" && left {
			return true, nil
		}
		return evalExpr(e.Right, root, cur)
	case jsonpath.CompareExpr:
		return evalCompare(e, root, cur)
	default:
		return false, newErr(ErrInvalidJsonPath, "unsupported expression %T", expr)
	}
}

func evalCompare(e jsonpath.CompareExpr, root, cur Value) (bool, error) {
	left, err := evalOperand(e.Left, root, cur)
	if err != nil {
		return false, err
	}
	if e.Op == "exists" {
		return len(left) > 0, nil
	}
	right, err := evalOperand(e.Right, root, cur)
	if err != nil {
		return false, err
	}
	return setCompare(e.Op, left, right)
}

func evalOperand(op jsonpath.Operand, root, cur Value) ([]Value, error) {
	if op.Path != nil {
		start := pathItem{value: cur, offset: -1}
		items, err := runSteps(op.Path.Steps, root, start)
		if err != nil {
			return nil, err
		}
		vals := make([]Value, len(items))
		for i, it := range items {
			vals[i] = it.value
		}
		return vals, nil
	}
	v, err := litToValue(op.Literal)
	if err != nil {
		return nil, err
	}
	return []Value{v}, nil
}

func litToValue(lit *jsonpath.Literal) (Value, error) {
	switch lit.Kind {
	case jsonpath.LitNull:
		return wrapScalar(jEntry{typ: JEntryNull}, nil), nil
	case jsonpath.LitBool:
		typ := JEntryFalse
		if lit.Bool {
			typ = JEntryTrue
		}
		return wrapScalar(jEntry{typ: typ}, nil), nil
	case jsonpath.LitNumber:
		payload := encodeNumber(nil, NumberFromFloat64(lit.Num))
		return wrapScalar(jEntry{typ: JEntryNumber, length: len(payload)}, payload), nil
	case jsonpath.LitString:
		return wrapScalar(jEntry{typ: JEntryString, length: len(lit.Str)}, []byte(lit.Str)), nil
	default:
		return nil, newErr(ErrInvalidJsonPath, "unknown literal kind")
	}
}

func comparePredicate(op string, c int) bool {
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	default:
		return false
	}
}

func setCompare(op string, left, right []Value) (bool, error) {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		for _, l := range left {
			for _, r := range right {
				c, err := Compare(l, r)
				if err != nil {
					continue
				}
				if comparePredicate(op, c) {
					return true, nil
				}
			}
		}
		return false, nil
	case "in", "anyof":
		for _, l := range left {
			for _, r := range right {
				c, err := Compare(l, r)
				if err == nil && c == 0 {
					return true, nil
				}
			}
		}
		return false, nil
	case "nin", "noneof":
		found, err := setCompare("in", left, right)
		if err != nil {
			return false, err
		}
		return !found, nil
	case "subsetof":
		for _, l := range left {
			matched := false
			for _, r := range right {
				c, err := Compare(l, r)
				if err == nil && c == 0 {
					matched = true
					break
				}
			}
			if !matched {
				return false, nil
			}
		}
		return true, nil
	case "size":
		if len(right) != 1 {
			return false, newErr(ErrInvalidJsonPath, "'size' expects one numeric operand")
		}
		n, err := right[0].AsNumber()
		if err != nil {
			return false, err
		}
		return float64(len(left)) == n.Float64(), nil
	case "empty":
		if len(right) != 1 {
			return false, newErr(ErrInvalidJsonPath, "'empty' expects one boolean operand")
		}
		want, err := right[0].AsBool()
		if err != nil {
			return false, err
		}
		return (len(left) == 0) == want, nil
	case "=~":
		if len(right) != 1 {
			return false, newErr(ErrInvalidJsonPath, "'=~' expects one string pattern")
		}
		pattern, err := right[0].AsString()
		if err != nil {
			return false, err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, newErr(ErrInvalidJsonPath, "bad regex %q: %v", pattern, err)
		}
		for _, l := range left {
			s, err := l.AsString()
			if err != nil {
				continue
			}
			if re.MatchString(s) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, newErr(ErrInvalidJsonPath, "unsupported operator %q", op)
	}
}
