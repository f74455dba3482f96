package spatial

import (
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// DefaultBucketSize is the bucket edge length in cells. Sprites are usually a
// few cells across, so small buckets keep candidate lists short.
const DefaultBucketSize = 16

// Entry pairs an entity with its bounding box for one frame
type Entry struct {
	ID  uint64
	Box Box
}

// Pair is an unordered overlap report, normalized to A < B so each
// intersecting pair is reported exactly once
type Pair struct {
	A, B uint64
}

type bucketKey struct {
	bx, by int
}

// Index is a broad-phase spatial partition over uniform grid buckets. Each
// box registers in every bucket it spans, so a true overlap always shares at
// least one bucket: no false negatives. Candidates are verified with exact
// intersection before being reported.
//
// The index is rebuilt from scratch each frame; the entry set may change
// completely between frames.
type Index struct {
	bucketSize int
	buckets    map[bucketKey][]int
	entries    []Entry
}

// NewIndex creates an index. A non-positive bucket size falls back to
// DefaultBucketSize.
func NewIndex(bucketSize int) *Index {
	if bucketSize <= 0 {
		bucketSize = DefaultBucketSize
	}
	return &Index{
		bucketSize: bucketSize,
		buckets:    make(map[bucketKey][]int),
	}
}

// Rebuild replaces the indexed set with this frame's entries. Degenerate
// boxes are dropped; they can neither overlap nor contain a point.
func (ix *Index) Rebuild(entries []Entry) {
	clear(ix.buckets)
	ix.entries = ix.entries[:0]

	for _, e := range entries {
		if e.Box.Empty() {
			continue
		}
		ix.entries = append(ix.entries, e)
	}

	for i, e := range ix.entries {
		minX, minY := ix.bucketOf(e.Box.X, e.Box.Y)
		maxX, maxY := ix.bucketOf(e.Box.X+e.Box.W-1, e.Box.Y+e.Box.H-1)
		for by := minY; by <= maxY; by++ {
			for bx := minX; bx <= maxX; bx++ {
				k := bucketKey{bx, by}
				ix.buckets[k] = append(ix.buckets[k], i)
			}
		}
	}
}

// Pairs returns every intersecting pair, each reported once as (A, B) with
// A < B, ordered ascending. The red-black tree keyed on the normalized pair
// both deduplicates boxes sharing several buckets and fixes the output order
// independent of map iteration.
func (ix *Index) Pairs() []Pair {
	tree := redblacktree.NewWith(pairComparator)

	for _, indices := range ix.buckets {
		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				a := ix.entries[indices[i]]
				b := ix.entries[indices[j]]
				if a.ID == b.ID {
					continue
				}
				if !a.Box.Intersects(b.Box) {
					continue
				}
				p := Pair{A: a.ID, B: b.ID}
				if p.A > p.B {
					p.A, p.B = p.B, p.A
				}
				tree.Put(p, struct{}{})
			}
		}
	}

	pairs := make([]Pair, 0, tree.Size())
	for _, k := range tree.Keys() {
		pairs = append(pairs, k.(Pair))
	}
	return pairs
}

// At returns the IDs of all entries whose box contains (x, y), ascending
func (ix *Index) At(x, y int) []uint64 {
	bx, by := ix.bucketOf(x, y)
	indices := ix.buckets[bucketKey{bx, by}]
	if len(indices) == 0 {
		return nil
	}

	var ids []uint64
	for _, i := range indices {
		if ix.entries[i].Box.Contains(x, y) {
			ids = append(ids, ix.entries[i].ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// bucketOf maps a cell coordinate to its bucket coordinate, handling
// negative coordinates with floor division
func (ix *Index) bucketOf(x, y int) (int, int) {
	return floorDiv(x, ix.bucketSize), floorDiv(y, ix.bucketSize)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// pairComparator orders pairs by (A, B) ascending
func pairComparator(a, b interface{}) int {
	pa := a.(Pair)
	pb := b.(Pair)
	switch {
	case pa.A < pb.A:
		return -1
	case pa.A > pb.A:
		return 1
	case pa.B < pb.B:
		return -1
	case pa.B > pb.B:
		return 1
	default:
		return 0
	}
}
