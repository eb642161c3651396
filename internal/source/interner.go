package source

import "sync"

type StringID uint32

const NoStringID StringID = 0

// Interner keeps one shared copy of every distinct element name, so a
// directory full of "p(" and "li(" does not hold thousands of equal strings.
// Safe for concurrent use: ParsePaths shares one between its workers.
type Interner struct {
	mu    sync.RWMutex
	names []string // names[0] = "" для NoStringID
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		names: []string{""},
		ids:   map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, registering it on first sight.
func (i *Interner) Intern(s string) StringID {
	id, _ := i.intern(s)
	return id
}

// Canonical returns the shared copy of s.
func (i *Interner) Canonical(s string) string {
	_, c := i.intern(s)
	return c
}

func (i *Interner) intern(s string) (StringID, string) {
	i.mu.RLock()
	id, ok := i.ids[s]
	if ok {
		c := i.names[id]
		i.mu.RUnlock()
		return id, c
	}
	i.mu.RUnlock()

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.ids[s]; ok {
		return id, i.names[id]
	}
	id = StringID(len(i.names))
	i.names = append(i.names, s)
	i.ids[s] = id
	return id, s
}

// Lookup returns the string of id; ok is false for unknown IDs.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.names) {
		return "", false
	}
	return i.names[id], true
}

// Len counts the interned strings, NoStringID included.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.names)
}
