package numbering

import (
	"slices"
)

type entry struct {
	key   []string
	numID int
}

// cache maps style sequences to definition ids. Entries are sorted
// ascending by element-wise comparison of their keys, so every stored key
// that extends a query sits after the query's own position.
type cache struct {
	entries []entry
}

func compareEntry(e entry, key []string) int {
	return slices.Compare(e.key, key)
}

// lookup returns the definition of the greatest stored key that key is a
// prefix of. An exact match qualifies.
func (c *cache) lookup(key []string) (int, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if hasPrefix(e.key, key) {
			return e.numID, true
		}
	}
	return 0, false
}

func (c *cache) store(key []string, numID int) {
	i, found := slices.BinarySearchFunc(c.entries, key, compareEntry)
	if found {
		c.entries[i].numID = numID
		return
	}
	c.entries = slices.Insert(c.entries, i, entry{key: slices.Clone(key), numID: numID})
}

func (c *cache) len() int {
	return len(c.entries)
}

func hasPrefix(s, prefix []string) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}
