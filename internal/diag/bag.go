package diag

// Bag collects diagnostics in emission order up to a limit.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag creates a bag; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capacity),
		max:   max,
	}
}

// Add appends d unless the limit is reached; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasFatal reports whether any diagnostic carries the fatal flag.
func (b *Bag) HasFatal() bool {
	for i := range b.items {
		if b.items[i].Fatal {
			return true
		}
	}
	return false
}

// Items returns the collected diagnostics. The slice aliases the bag.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
