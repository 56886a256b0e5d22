package pairwise

import "sort"

// Counter maintains co-occurrence counts of items across features
// (documents, sections, windows).
type Counter struct {
	N   int64            // number of features
	Nx  map[string]int64 // features per item
	Nxy map[Pair]int64   // features shared per item pair
}

// Pair is an ordered pair of items (A < B).
type Pair struct {
	A, B string
}

// NewCounter creates a new co-occurrence counter
func NewCounter() *Counter {
	return &Counter{
		Nx:  make(map[string]int64),
		Nxy: make(map[Pair]int64),
	}
}

// AddFeature records one feature holding the given distinct items.
func (c *Counter) AddFeature(uniqueItems []string) {
	c.N++
	for _, it := range uniqueItems {
		c.Nx[it]++
	}

	sorted := make([]string, len(uniqueItems))
	copy(sorted, uniqueItems)
	sort.Strings(sorted)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			c.Nxy[Pair{A: sorted[i], B: sorted[j]}]++
		}
	}
}

// PairCount returns how many features hold both items.
func (c *Counter) PairCount(a, b string) int64 {
	if a > b {
		a, b = b, a
	}
	return c.Nxy[Pair{A: a, B: b}]
}

// ItemCount returns how many features hold the item.
func (c *Counter) ItemCount(it string) int64 {
	return c.Nx[it]
}

// Pairs returns the counted pairs sorted by descending count, then A, then B.
func (c *Counter) Pairs() []Pair {
	out := make([]Pair, 0, len(c.Nxy))
	for p := range c.Nxy {
		out = append(out, p)
	}
	c.sortPairs(out)
	return out
}

// AllPairs returns every pair of seen items, including pairs that never share
// a feature, in Pairs order.
func (c *Counter) AllPairs() []Pair {
	items := make([]string, 0, len(c.Nx))
	for it := range c.Nx {
		items = append(items, it)
	}
	sort.Strings(items)
	out := make([]Pair, 0, len(items)*(len(items)-1)/2)
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			out = append(out, Pair{A: items[i], B: items[j]})
		}
	}
	c.sortPairs(out)
	return out
}

func (c *Counter) sortPairs(ps []Pair) {
	sort.Slice(ps, func(i, j int) bool {
		ni, nj := c.Nxy[ps[i]], c.Nxy[ps[j]]
		if ni != nj {
			return ni > nj
		}
		if ps[i].A != ps[j].A {
			return ps[i].A < ps[j].A
		}
		return ps[i].B < ps[j].B
	})
}
