// Package symtab holds the variable store. The language is declaration-free:
// the first occurrence of a name creates its entry.
package symtab

import "strings"

// Entry is one variable's storage cell. Entries live for the whole run and
// are shared between every VARIABLE node that names them.
type Entry struct {
	Name  string
	value float64
}

func (e *Entry) Value() float64 {
	return e.value
}

func (e *Entry) SetValue(v float64) {
	e.value = v
}

// Symtab maps case-insensitive names to entries.
type Symtab struct {
	entries map[string]*Entry
}

func New() *Symtab {
	return &Symtab{
		entries: map[string]*Entry{},
	}
}

// Lookup finds an entry by name, or nil. Matching is case-insensitive.
func (s *Symtab) Lookup(name string) *Entry {
	return s.entries[strings.ToLower(name)]
}

// Enter creates the entry for name if it does not exist yet and returns it.
// The entry keeps the spelling of the first occurrence.
func (s *Symtab) Enter(name string) *Entry {
	key := strings.ToLower(name)
	if entry, ok := s.entries[key]; ok {
		return entry
	}

	entry := &Entry{Name: name}
	s.entries[key] = entry
	return entry
}
