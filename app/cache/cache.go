package cache

import (
	"sort"
)

// Entry is the last state of a record confirmed with the provider.
type Entry struct {
	IP       string `yaml:"ip"`
	RecordID string `yaml:"record_id"`
}

// Cache maps record names to entries. A name without an entry has never been
// fetched.
type Cache struct {
	entries map[string]Entry
}

func New() Cache {
	return Cache{entries: make(map[string]Entry)}
}

func (c Cache) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

func (c *Cache) Set(name string, e Entry) {
	if c.entries == nil {
		c.entries = make(map[string]Entry)
	}
	c.entries[name] = e
}

func (c Cache) Clone() Cache {
	out := Cache{entries: make(map[string]Entry, len(c.entries))}
	for k, v := range c.entries {
		out.entries[k] = v
	}
	return out
}

func (c Cache) Len() int {
	return len(c.entries)
}

// Names returns the cached names in sorted order.
func (c Cache) Names() []string {
	names := make([]string, 0, len(c.entries))
	for k := range c.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
