package controller

import "strings"

// Location is the externally owned address the controller mirrors its state
// into. Search values carry no leading "?"; the empty string is the base path.
type Location interface {
	// Search returns the current query portion.
	Search() string
	// Replace rewrites the current history entry.
	Replace(search string)
	// Push adds a new history entry.
	Push(search string)
}

// MemoryLocation is an in-process Location that records its history.
type MemoryLocation struct {
	entries []string
}

// NewMemoryLocation starts a history at search.
func NewMemoryLocation(search string) *MemoryLocation {
	return &MemoryLocation{entries: []string{strings.TrimPrefix(search, "?")}}
}

// Search returns the current entry.
func (l *MemoryLocation) Search() string {
	return l.entries[len(l.entries)-1]
}

// Replace overwrites the current entry.
func (l *MemoryLocation) Replace(search string) {
	l.entries[len(l.entries)-1] = strings.TrimPrefix(search, "?")
}

// Push appends a new entry.
func (l *MemoryLocation) Push(search string) {
	l.entries = append(l.entries, strings.TrimPrefix(search, "?"))
}

// Back drops the current entry, as a browser back button would, and reports
// whether there was an earlier entry to return to.
func (l *MemoryLocation) Back() bool {
	if len(l.entries) < 2 {
		return false
	}
	l.entries = l.entries[:len(l.entries)-1]
	return true
}

// History returns a copy of every entry, oldest first.
func (l *MemoryLocation) History() []string {
	return append([]string(nil), l.entries...)
}
