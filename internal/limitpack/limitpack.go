// Package limitpack renders values as compact one-line debug strings bounded
// to a byte budget, for embedding arbitrary payloads in structured logs.
//
// Rendered forms:
//
//	str~         string, trimmed from the tail; '~' marks the cut
//	fix          number/bool rendering, never trimmed
//	(a,b)        fixed-size group, element count never trimmed
//	[a,b^]       list, tail elements dropped; '^' marks the cut
//	{k:v^}       dict, tail pairs dropped; '^' marks the cut
//
// Trimming is iterative: each round either shortens the longest trimmable
// strings by one character or drops the tail element of the container with
// the best space-per-element ratio, whichever frees bytes cheaper. Strings
// keep at least three characters before the '~'; single-element containers
// are never cut. The loop stops when the budget is met or nothing trimmable
// remains, so the result can exceed the budget when the tree bottoms out.
package limitpack

import (
	"slices"
	"strings"
	"unicode/utf8"
)

type nodeKind int

const (
	kindString nodeKind = iota
	kindList
	kindDict
)

// Pair is one key/value entry of a dict node.
type Pair struct {
	Key   *Node
	Value *Node
}

// Node is one element of a renderable tree. Build leaves with NewString and
// group them with NewList/NewDict, or derive a whole tree with From.
type Node struct {
	kind  nodeKind
	uid   int
	chars []rune
	items []*Node
	pairs []Pair
	open  rune
	close rune
	space int // byte width of the current rendering
	trim  int // bytes the next cut on this node can free; 0 = untrimmable
	more  bool
}

// NewString builds a string leaf. Fixed leaves are never trimmed.
func NewString(text string, fixed bool) *Node {
	chars := []rune(text)
	n := &Node{kind: kindString, chars: chars, space: len(text)}
	if !fixed {
		n.trim = stringTrim(chars, len(text))
	}
	return n
}

// NewList builds a list node rendered as open+items+close with comma
// separators. Fixed lists keep all elements.
func NewList(items []*Node, open, close rune, fixed bool) *Node {
	space := 2
	for _, it := range items {
		space += it.space
	}
	if len(items) > 1 {
		space += len(items) - 1
	}
	n := &Node{kind: kindList, items: items, open: open, close: close, space: space}
	if !fixed && len(items) > 1 {
		n.trim = items[len(items)-1].space
	}
	return n
}

// NewDict builds a dict node rendered as open+pairs+close with "k:v" pairs.
func NewDict(pairs []Pair, open, close rune) *Node {
	space := 2
	for _, p := range pairs {
		space += p.Key.space + 1 + p.Value.space
	}
	if len(pairs) > 1 {
		space += len(pairs) - 1
	}
	n := &Node{kind: kindDict, pairs: pairs, open: open, close: close, space: space}
	if len(pairs) > 1 {
		last := pairs[len(pairs)-1]
		n.trim = last.Key.space + 1 + last.Value.space
	}
	return n
}

// stringTrim returns the bytes freed by cutting the string down to its
// shortest allowed form (>=3 chars plus '~'). Strings whose full form is not
// wider than that have no trim space.
func stringTrim(chars []rune, total int) int {
	sum := 0
	for _, ch := range chars {
		if sum >= 3 {
			return total - (sum + 1)
		}
		sum += utf8.RuneLen(ch)
	}
	return 0
}

// Render trims the tree in place until its rendering fits limit bytes or no
// trim space remains, then returns the text. A rendered node is spent; build
// a fresh tree for another budget.
func (n *Node) Render(limit int) string {
	n.setUID(1)

	for n.space > limit {
		var uids []int
		stringBest := n.maxStringTrim(1, &uids)
		pick := n.minListTrim(listPick{size: 1})

		switch {
		case len(uids) == 0 && pick.uid == 0:
			return n.text() // nothing trimmable left
		case len(uids) == 0:
			n.trimMatch([]int{pick.uid})
		case pick.uid == 0:
			n.trimMatch(uids)
		case pick.trim*stringBest < pick.size*len(uids):
			// dropping a container element frees bytes cheaper than
			// shortening the candidate strings by one char each
			n.trimMatch([]int{pick.uid})
		default:
			n.trimMatch(uids)
		}
	}
	return n.text()
}

// setUID numbers the tree depth-first starting at uid; 0 stays reserved as
// the no-candidate sentinel.
func (n *Node) setUID(uid int) int {
	n.uid = uid
	uid++
	for _, it := range n.items {
		uid = it.setUID(uid)
	}
	for _, p := range n.pairs {
		uid = p.Key.setUID(uid)
		uid = p.Value.setUID(uid)
	}
	return uid
}

// maxStringTrim collects the uids of the trimmable strings with the largest
// remaining trim space; ties shrink together in lockstep.
func (n *Node) maxStringTrim(best int, uids *[]int) int {
	if n.kind == kindString {
		if len(n.chars) == 0 {
			return best
		}
		if n.trim > best {
			*uids = (*uids)[:0]
		}
		if n.trim >= best {
			*uids = append(*uids, n.uid)
			return n.trim
		}
		return best
	}
	for _, it := range n.items {
		best = it.maxStringTrim(best, uids)
	}
	for _, p := range n.pairs {
		best = p.Key.maxStringTrim(best, uids)
		best = p.Value.maxStringTrim(best, uids)
	}
	return best
}

type listPick struct {
	trim int
	size int
	uid  int
}

// minListTrim finds the container whose next cut has the smallest
// space-per-element ratio (trim/size, compared cross-multiplied).
func (n *Node) minListTrim(best listPick) listPick {
	for _, it := range n.items {
		best = it.minListTrim(best)
	}
	for _, p := range n.pairs {
		best = p.Key.minListTrim(best)
		best = p.Value.minListTrim(best)
	}

	if n.kind == kindString || n.trim == 0 {
		return best
	}

	size := 1
	switch n.kind {
	case kindList:
		size = len(n.items) + 1
	case kindDict:
		size = len(n.pairs) + 1
	}
	if best.uid == 0 || n.trim*best.size < best.trim*size {
		return listPick{trim: n.trim, size: size, uid: n.uid}
	}
	return best
}

// trimMatch applies one cut to every node in uids and propagates the freed
// bytes up through parent space accounting.
func (n *Node) trimMatch(uids []int) int {
	if slices.Contains(uids, n.uid) {
		if n.kind != kindString || len(n.chars) >= 2 {
			return n.trimOne()
		}
		return 0
	}

	total := 0
	for _, it := range n.items {
		total += it.trimMatch(uids)
	}
	for _, p := range n.pairs {
		total += p.Key.trimMatch(uids) + p.Value.trimMatch(uids)
	}
	n.space -= total
	return total
}

// trimOne performs a single cut on this node and returns the bytes freed.
// Callers guarantee the node is currently trimmable.
func (n *Node) trimOne() int {
	switch n.kind {
	case kindString:
		last := n.chars[len(n.chars)-1]
		prev := n.chars[len(n.chars)-2]
		cut := utf8.RuneLen(last) + utf8.RuneLen(prev) - 1
		n.chars = append(n.chars[:len(n.chars)-2], '~')
		n.space -= cut
		n.trim -= cut
		return cut

	case kindList:
		cut := n.items[len(n.items)-1].space + n.moreWidth()
		n.items = n.items[:len(n.items)-1]
		n.space -= cut
		n.more = true
		if len(n.items) > 1 {
			n.trim = n.items[len(n.items)-1].space + 1
		} else {
			n.trim = 0
		}
		return cut

	default: // kindDict
		last := n.pairs[len(n.pairs)-1]
		cut := last.Key.space + 1 + last.Value.space + n.moreWidth()
		n.pairs = n.pairs[:len(n.pairs)-1]
		n.space -= cut
		n.more = true
		if len(n.pairs) > 1 {
			p := n.pairs[len(n.pairs)-1]
			n.trim = p.Key.space + 1 + p.Value.space + 1
		} else {
			n.trim = 0
		}
		return cut
	}
}

// moreWidth is the byte the '^' marker will reuse: the first cut trades the
// dropped comma for '^' (net zero), later cuts also reclaim the marker.
func (n *Node) moreWidth() int {
	if n.more {
		return 1
	}
	return 0
}

func (n *Node) text() string {
	switch n.kind {
	case kindString:
		return string(n.chars)

	case kindList:
		var b strings.Builder
		b.WriteRune(n.open)
		for i, it := range n.items {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(it.text())
		}
		if n.more {
			b.WriteByte('^')
		}
		b.WriteRune(n.close)
		return b.String()

	default: // kindDict
		var b strings.Builder
		b.WriteRune(n.open)
		for i, p := range n.pairs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Key.text())
			b.WriteByte(':')
			b.WriteString(p.Value.text())
		}
		if n.more {
			b.WriteByte('^')
		}
		b.WriteRune(n.close)
		return b.String()
	}
}

// Pack renders v within limit bytes where trimming can get it there.
func Pack(v any, limit int) string {
	return From(v).Render(limit)
}

// Clip shortens a single string to at most limit bytes using the tail-trim
// rule, marking any cut with '~'. Strings of four bytes or fewer pass
// through unchanged.
func Clip(s string, limit int) string {
	return NewString(s, false).Render(limit)
}
