package lexical

// matcher aligns two sequences of comparable elements and reports matching
// blocks, opcodes and an alignment ratio. The algorithm follows the classic
// longest-matching-block approach: repeatedly find the longest contiguous
// run common to both sequences, then recurse on the pieces to its left and
// right. Elements that appear very frequently in long sequences are treated
// as noise when locating matches so that runs of filler (whitespace lines,
// repeated symbols in OCR output) do not dominate the alignment.
type matcher struct {
	a, b    []string
	b2j     map[string][]int
	popular map[string]bool
}

type match struct {
	aStart, bStart, size int
}

// opCode describes how a[i1:i2] maps onto b[j1:j2].
type opCode struct {
	tag            string // "replace", "delete", "insert" or "equal"
	i1, i2, j1, j2 int
}

func newMatcher(a, b []string) *matcher {
	m := &matcher{a: a, b: b}
	m.indexB()
	return m
}

func (m *matcher) indexB() {
	m.b2j = make(map[string][]int)
	for j, elem := range m.b {
		m.b2j[elem] = append(m.b2j[elem], j)
	}

	// Popular-element suppression only kicks in for long sequences.
	m.popular = make(map[string]bool)
	n := len(m.b)
	if n >= 200 {
		threshold := n/100 + 1
		for elem, idxs := range m.b2j {
			if len(idxs) > threshold {
				m.popular[elem] = true
			}
		}
		for elem := range m.popular {
			delete(m.b2j, elem)
		}
	}
}

// findLongestMatch locates the longest matching block within
// a[alo:ahi] and b[blo:bhi].
func (m *matcher) findLongestMatch(alo, ahi, blo, bhi int) match {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	// Extend the match to include popular elements that happen to line up
	// on either side.
	for besti > alo && bestj > blo &&
		m.popular[m.b[bestj-1]] && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi &&
		m.popular[m.b[bestj+bestsize]] && m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}

	return match{besti, bestj, bestsize}
}

// matchingBlocks returns all maximal matching blocks, in order, terminated
// by a sentinel zero-length match at (len(a), len(b)).
func (m *matcher) matchingBlocks() []match {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	var matched []match

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		mt := m.findLongestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if mt.size == 0 {
			continue
		}
		matched = append(matched, mt)
		if s.alo < mt.aStart && s.blo < mt.bStart {
			queue = append(queue, span{s.alo, mt.aStart, s.blo, mt.bStart})
		}
		if mt.aStart+mt.size < s.ahi && mt.bStart+mt.size < s.bhi {
			queue = append(queue, span{mt.aStart + mt.size, s.ahi, mt.bStart + mt.size, s.bhi})
		}
	}

	sortMatches(matched)

	// Merge adjacent blocks.
	var blocks []match
	cur := match{}
	for _, mt := range matched {
		if cur.aStart+cur.size == mt.aStart && cur.bStart+cur.size == mt.bStart {
			cur.size += mt.size
			continue
		}
		if cur.size > 0 {
			blocks = append(blocks, cur)
		}
		cur = mt
	}
	if cur.size > 0 {
		blocks = append(blocks, cur)
	}

	blocks = append(blocks, match{len(m.a), len(m.b), 0})
	return blocks
}

func sortMatches(ms []match) {
	// Insertion sort keeps this dependency-free; block counts are small.
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && less(ms[j], ms[j-1]); j-- {
			ms[j], ms[j-1] = ms[j-1], ms[j]
		}
	}
}

func less(x, y match) bool {
	if x.aStart != y.aStart {
		return x.aStart < y.aStart
	}
	return x.bStart < y.bStart
}

// opCodes describes how to turn a into b as a sequence of operations.
func (m *matcher) opCodes() []opCode {
	var codes []opCode
	i, j := 0, 0
	for _, blk := range m.matchingBlocks() {
		tag := ""
		if i < blk.aStart && j < blk.bStart {
			tag = "replace"
		} else if i < blk.aStart {
			tag = "delete"
		} else if j < blk.bStart {
			tag = "insert"
		}
		if tag != "" {
			codes = append(codes, opCode{tag, i, blk.aStart, j, blk.bStart})
		}
		i, j = blk.aStart+blk.size, blk.bStart+blk.size
		if blk.size > 0 {
			codes = append(codes, opCode{"equal", blk.aStart, i, blk.bStart, j})
		}
	}
	return codes
}

// groupedOpCodes splits opcodes into groups with up to n lines of
// surrounding context, mirroring unified diff hunk construction.
func (m *matcher) groupedOpCodes(n int) [][]opCode {
	codes := m.opCodes()
	if len(codes) == 0 {
		codes = []opCode{{"equal", 0, 1, 0, 1}}
	}
	if codes[0].tag == "equal" {
		c := codes[0]
		codes[0] = opCode{c.tag, max(c.i1, c.i2-n), c.i2, max(c.j1, c.j2-n), c.j2}
	}
	if codes[len(codes)-1].tag == "equal" {
		c := codes[len(codes)-1]
		codes[len(codes)-1] = opCode{c.tag, c.i1, min(c.i2, c.i1+n), c.j1, min(c.j2, c.j1+n)}
	}

	var groups [][]opCode
	var group []opCode
	for _, c := range codes {
		if c.tag == "equal" && c.i2-c.i1 > n*2 {
			group = append(group, opCode{c.tag, c.i1, min(c.i2, c.i1+n), c.j1, min(c.j2, c.j1+n)})
			groups = append(groups, group)
			group = nil
			c = opCode{c.tag, max(c.i1, c.i2-n), c.i2, max(c.j1, c.j2-n), c.j2}
		}
		group = append(group, c)
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].tag == "equal") {
		groups = append(groups, group)
	}
	return groups
}

// ratio returns a similarity measure in [0, 1]: twice the number of matched
// elements divided by the total number of elements in both sequences.
// Two empty sequences are defined as identical (1.0).
func (m *matcher) ratio() float64 {
	matches := 0
	for _, blk := range m.matchingBlocks() {
		matches += blk.size
	}
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matches) / float64(total)
}
