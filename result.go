package bounce

import "sort"

// Pair is an unordered pair of shape indices, normalized so that A < B
type Pair struct {
	A, B int
}

// makePair creates a normalized pair with consistent ordering
func makePair(i, j int) Pair {
	if j < i {
		i, j = j, i
	}
	return Pair{A: i, B: j}
}

// Result is the outcome of one broad-phase pass.
// Per-shape state is indexed like the shapes slice given to Check.
type Result struct {
	Mode Mode
	// Order lists the shape indices in sweep order (identity order for the naive mode)
	Order []int
	// Pairs lists the confirmed intersecting pairs, sorted
	Pairs []Pair

	// Candidates counts the pairs considered by the broad phase
	Candidates int
	// BoxRejected counts the candidates discarded by the bounding-box filter
	BoxRejected int
	// NarrowPhaseCalls counts the pairs handed to the narrow phase
	NarrowPhaseCalls int
	// Inconclusive counts the narrow-phase calls that hit the iteration cap,
	// recorded as not intersecting
	Inconclusive int
	// Truncated is set when the pass was cancelled before every candidate was tested
	Truncated bool

	intersecting []bool
	xOverlapping []bool
	neighbors    [][]int
}

func newResult(mode Mode, n int) *Result {
	return &Result{
		Mode:         mode,
		Order:        make([]int, 0, n),
		intersecting: make([]bool, n),
		xOverlapping: make([]bool, n),
		neighbors:    make([][]int, n),
	}
}

// Len returns the number of shapes covered by the result
func (r *Result) Len() int {
	return len(r.intersecting)
}

// Intersecting reports whether shape i intersects at least one other shape
func (r *Result) Intersecting(i int) bool {
	return r.intersecting[i]
}

// XOverlapping reports whether the x interval of shape i overlapped another shape's
func (r *Result) XOverlapping(i int) bool {
	return r.xOverlapping[i]
}

// Neighbors returns the sorted indices of the shapes intersecting shape i
func (r *Result) Neighbors(i int) []int {
	return r.neighbors[i]
}

// HasPair reports whether shapes i and j were found intersecting
func (r *Result) HasPair(i, j int) bool {
	pair := makePair(i, j)
	k := sort.Search(len(r.Pairs), func(k int) bool {
		p := r.Pairs[k]
		return p.A > pair.A || (p.A == pair.A && p.B >= pair.B)
	})
	return k < len(r.Pairs) && r.Pairs[k] == pair
}

// record writes a confirmed pair back to both shapes
func (r *Result) record(pair Pair) {
	r.Pairs = append(r.Pairs, pair)
	r.intersecting[pair.A] = true
	r.intersecting[pair.B] = true
	r.neighbors[pair.A] = append(r.neighbors[pair.A], pair.B)
	r.neighbors[pair.B] = append(r.neighbors[pair.B], pair.A)
}

func (r *Result) markXOverlap(pair Pair) {
	r.xOverlapping[pair.A] = true
	r.xOverlapping[pair.B] = true
}

// finish sorts the pairs and neighbor lists, so both modes report identical results
func (r *Result) finish() {
	sort.Slice(r.Pairs, func(i, j int) bool {
		if r.Pairs[i].A != r.Pairs[j].A {
			return r.Pairs[i].A < r.Pairs[j].A
		}
		return r.Pairs[i].B < r.Pairs[j].B
	})
	for _, neighbors := range r.neighbors {
		if len(neighbors) > 1 {
			sort.Ints(neighbors)
		}
	}
}
