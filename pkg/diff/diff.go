// Package diff computes classified edit scripts between two text contents.
//
// The engine is line-oriented: tokens are whole lines (keeping their
// terminators) diffed with the Myers algorithm, then merged into maximal
// same-kind segments. Adjacent removed/inserted segment pairs are refined at
// rune granularity so an edit inside a single line reports its common
// prefix and suffix as Equal instead of churning the whole line.
//
// Two identities hold for every result: concatenating the Text of all Equal
// and Inserted segments, in order, reproduces the new content exactly, and
// concatenating Equal and Removed segments reproduces the old content.
package diff

import "strings"

// SegmentKind classifies a segment of an edit script.
type SegmentKind int

const (
	Equal    SegmentKind = iota // present in both old and new
	Inserted                    // present in new only
	Removed                     // present in old only
)

func (k SegmentKind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Segment is one maximal run of a classified edit script.
type Segment struct {
	Kind SegmentKind
	Text string
}

// op is a single-token step produced by the Myers core before grouping.
type op struct {
	kind  SegmentKind
	token string
}

// Lines computes the edit script transforming old into new.
func Lines(old, new string) []Segment {
	segs := group(myers(splitLines(old), splitLines(new)))
	return refine(segs)
}

// splitLines splits s after every newline, keeping the terminator with its
// line, so segment concatenation is loss-free even without a trailing
// newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// runeTokens splits s into single-rune tokens for the refinement pass.
func runeTokens(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// group merges consecutive same-kind ops into segments.
func group(ops []op) []Segment {
	var out []Segment
	for _, o := range ops {
		if n := len(out); n > 0 && out[n-1].Kind == o.kind {
			out[n-1].Text += o.token
			continue
		}
		out = append(out, Segment{Kind: o.kind, Text: o.token})
	}
	return out
}

// refine replaces each adjacent removed/inserted segment pair with a
// rune-level edit script between the two texts. Both reconstruction
// identities are preserved: the refined script still spells out the removed
// text in old order and the inserted text in new order.
func refine(segs []Segment) []Segment {
	var out []Segment
	for i := 0; i < len(segs); i++ {
		cur := segs[i]
		if i+1 < len(segs) {
			next := segs[i+1]
			if cur.Kind == Removed && next.Kind == Inserted {
				out = append(out, group(myers(runeTokens(cur.Text), runeTokens(next.Text)))...)
				i++
				continue
			}
			if cur.Kind == Inserted && next.Kind == Removed {
				out = append(out, group(myers(runeTokens(next.Text), runeTokens(cur.Text)))...)
				i++
				continue
			}
		}
		out = append(out, cur)
	}
	return mergeAdjacent(out)
}

// mergeAdjacent collapses neighboring segments of the same kind.
func mergeAdjacent(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Kind == s.Kind {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// myers computes the shortest edit script transforming a into b, operating
// on whole tokens. It runs in O((N+M)*D) time where D is the size of the
// minimum edit script.
func myers(a, b []string) []op {
	n := len(a)
	m := len(b)

	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		ops := make([]op, m)
		for i, tok := range b {
			ops[i] = op{kind: Inserted, token: tok}
		}
		return ops
	}
	if m == 0 {
		ops := make([]op, n)
		for i, tok := range a {
			ops[i] = op{kind: Removed, token: tok}
		}
		return ops
	}

	max := n + m
	size := 2*max + 1

	v := make([]int, size)

	// trace[d] holds a snapshot of v after processing edit distance d.
	var trace [][]int

	for d := 0; d <= max; d++ {
		for k := -d; k <= d; k += 2 {
			idx := k + max
			var x int
			if k == -d || (k != d && v[idx-1] < v[idx+1]) {
				x = v[idx+1] // move down (insert)
			} else {
				x = v[idx-1] + 1 // move right (delete)
			}
			y := x - k

			// Follow the diagonal of equal tokens.
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}

			v[idx] = x

			if x >= n && y >= m {
				snap := make([]int, size)
				copy(snap, v)
				trace = append(trace, snap)
				return backtrack(trace, a, b, d)
			}
		}

		snap := make([]int, size)
		copy(snap, v)
		trace = append(trace, snap)
	}

	// Unreachable for valid inputs.
	return nil
}

// backtrack reconstructs the edit script from the trace of v snapshots.
func backtrack(trace [][]int, a, b []string, dFinal int) []op {
	n := len(a)
	m := len(b)
	max := n + m

	x := n
	y := m

	// Build the edit script in reverse.
	var ops []op

	for d := dFinal; d > 0; d-- {
		k := x - y
		idx := k + max

		vPrev := trace[d-1]

		var prevK int
		if k == -d || (k != d && vPrev[idx-1] < vPrev[idx+1]) {
			prevK = k + 1 // came from an insert (down move)
		} else {
			prevK = k - 1 // came from a delete (right move)
		}

		prevX := vPrev[prevK+max]
		prevY := prevX - prevK

		// Trace back along the diagonal of equal tokens.
		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, op{kind: Equal, token: a[x]})
		}

		if k == prevK+1 {
			x--
			ops = append(ops, op{kind: Removed, token: a[x]})
		} else {
			y--
			ops = append(ops, op{kind: Inserted, token: b[y]})
		}
	}

	// Remaining diagonal at d=0.
	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, op{kind: Equal, token: a[x]})
	}

	// Reverse to get forward order.
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}

	return ops
}
