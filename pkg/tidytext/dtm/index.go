package dtm

import (
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Index is a bijection between keys and 0-based positions, in first-occurrence
// order. It is immutable once returned to callers.
type Index struct {
	keys []string
	pos  map[string]int
}

func newIndex() *Index {
	return &Index{pos: make(map[string]int)}
}

// NewIndex builds an index over distinct keys.
func NewIndex(keys []string) (*Index, error) {
	ix := newIndex()
	for _, k := range keys {
		if _, dup := ix.pos[k]; dup {
			return nil, fmt.Errorf("index key %q repeated: %w", k, internalerr.ErrDuplicateKey)
		}
		ix.add(k)
	}
	return ix, nil
}

// add returns the position of k, assigning the next one if k is new.
func (ix *Index) add(k string) int {
	if p, ok := ix.pos[k]; ok {
		return p
	}
	p := len(ix.keys)
	ix.keys = append(ix.keys, k)
	ix.pos[k] = p
	return p
}

// Len returns the number of keys.
func (ix *Index) Len() int { return len(ix.keys) }

// Key returns the key at position i.
func (ix *Index) Key(i int) (string, error) {
	if i < 0 || i >= len(ix.keys) {
		return "", fmt.Errorf("position %d outside [0, %d): %w", i, len(ix.keys), internalerr.ErrIndexOutOfRange)
	}
	return ix.keys[i], nil
}

// Position returns the position of key.
func (ix *Index) Position(key string) (int, bool) {
	p, ok := ix.pos[key]
	return p, ok
}

// Keys returns a copy of the keys in position order.
func (ix *Index) Keys() []string {
	return append([]string(nil), ix.keys...)
}

// Equal reports whether both indexes hold the same keys at the same positions.
func (ix *Index) Equal(o *Index) bool {
	if ix.Len() != o.Len() {
		return false
	}
	for i, k := range ix.keys {
		if o.keys[i] != k {
			return false
		}
	}
	return true
}
