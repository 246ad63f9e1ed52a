package domain

import "slices"

// TargetList is an insertion-ordered set of LinkedIn usernames.
// The zero value is ready to use.
type TargetList struct {
	items []string
	seen  map[string]struct{}
}

// NewTargetList builds a list from values, dropping empties and repeats.
func NewTargetList(values ...string) TargetList {
	var l TargetList
	for _, v := range values {
		l.Add(v)
	}
	return l
}

// Add appends v unless it is empty or already present. It reports whether
// v was added.
func (l *TargetList) Add(v string) bool {
	if v == "" {
		return false
	}
	if l.seen == nil {
		l.seen = make(map[string]struct{})
	}
	if _, ok := l.seen[v]; ok {
		return false
	}
	l.seen[v] = struct{}{}
	l.items = append(l.items, v)
	return true
}

// Contains reports whether v was added.
func (l TargetList) Contains(v string) bool {
	_, ok := l.seen[v]
	return ok
}

// Len returns the number of targets.
func (l TargetList) Len() int { return len(l.items) }

// Items returns a copy of the targets in first-seen order.
func (l TargetList) Items() []string { return slices.Clone(l.items) }

// Truncate returns the first n targets as a new list.
func (l TargetList) Truncate(n int) TargetList {
	if n < 0 {
		n = 0
	}
	if n >= len(l.items) {
		return NewTargetList(l.items...)
	}
	return NewTargetList(l.items[:n]...)
}
