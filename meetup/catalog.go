package meetup

// Entry is a single selectable option: a stable identifier plus the
// display name shown to the user.
type Entry struct {
	ID   string
	Name string
}

// Catalog is a fixed, ordered list of options validated against on input.
// It is read-only after construction.
type Catalog struct {
	entries []Entry
	byID    map[string]int
}

// NewCatalog builds a catalog from ordered entries. Entries with empty or
// duplicate ids are skipped.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := c.byID[e.ID]; dup {
			continue
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Lookup returns the entry for id, if present.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Entries returns the catalog in its configured order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Len reports the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
