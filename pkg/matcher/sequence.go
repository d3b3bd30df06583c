// Package matcher scores keyword similarity and selects exact and related
// dataset rows.
package matcher

// popularMinLength is the sequence length from which very frequent elements of
// the second sequence stop seeding matches.
const popularMinLength = 200

type block struct {
	a, b, size int
}

// sequenceMatcher finds matching blocks between two rune sequences using the
// greedy longest-common-block strategy.
type sequenceMatcher struct {
	a, b    []rune
	b2j     map[rune][]int
	popular map[rune]struct{}
}

func newSequenceMatcher(a, b []rune) *sequenceMatcher {
	m := &sequenceMatcher{a: a, b: b}
	m.indexB()
	return m
}

func (m *sequenceMatcher) indexB() {
	m.b2j = make(map[rune][]int)
	for j, r := range m.b {
		m.b2j[r] = append(m.b2j[r], j)
	}

	m.popular = make(map[rune]struct{})
	n := len(m.b)
	if n >= popularMinLength {
		limit := n/100 + 1
		for r, idx := range m.b2j {
			if len(idx) > limit {
				m.popular[r] = struct{}{}
			}
		}
		for r := range m.popular {
			delete(m.b2j, r)
		}
	}
}

// longestMatch returns the longest block a[i:i+k] == b[j:j+k] inside the given
// ranges, preferring the earliest start in a, then in b.
func (m *sequenceMatcher) longestMatch(alo, ahi, blo, bhi int) block {
	best := block{a: alo, b: blo}
	j2len := map[int]int{}

	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > best.size {
				best = block{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		j2len = next
	}

	// Popular elements were left out of the index; let them extend a match.
	for best.a > alo && best.b > blo && m.a[best.a-1] == m.b[best.b-1] {
		best.a--
		best.b--
		best.size++
	}
	for best.a+best.size < ahi && best.b+best.size < bhi &&
		m.a[best.a+best.size] == m.b[best.b+best.size] {
		best.size++
	}

	return best
}

// matches returns the total number of matched elements across all blocks.
func (m *sequenceMatcher) matches() int {
	type span struct{ alo, ahi, blo, bhi int }

	total := 0
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		blk := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if blk.size == 0 {
			continue
		}
		total += blk.size
		if s.alo < blk.a && s.blo < blk.b {
			queue = append(queue, span{s.alo, blk.a, s.blo, blk.b})
		}
		if blk.a+blk.size < s.ahi && blk.b+blk.size < s.bhi {
			queue = append(queue, span{blk.a + blk.size, s.ahi, blk.b + blk.size, s.bhi})
		}
	}
	return total
}

// Ratio returns 2*M/T where M is the number of characters in matching blocks
// and T the combined length of both strings. The operands are ordered before
// matching so Ratio(a, b) == Ratio(b, a). Two empty strings score 1.
func Ratio(a, b string) float64 {
	if a > b {
		a, b = b, a
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	m := newSequenceMatcher(ra, rb).matches()
	return 2.0 * float64(m) / float64(total)
}
