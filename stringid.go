package celeste

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// StringID is an interned string handle used for GameObject names and tags.
// The zero value is the null id and never maps to a string.
type StringID uint32

// NullStringID is the id of the empty name.
const NullStringID StringID = 0

var internTable = struct {
	sync.Mutex
	ids   map[string]StringID
	names []string
}{
	ids:   make(map[string]StringID),
	names: []string{""},
}

// InternString returns the id for s, assigning a new one on first use.
// Names are NFC-normalized first so that visually identical names share an id.
// The empty string maps to NullStringID.
func InternString(s string) StringID {
	if s == "" {
		return NullStringID
	}
	s = norm.NFC.String(s)
	internTable.Lock()
	defer internTable.Unlock()
	if id, ok := internTable.ids[s]; ok {
		return id
	}
	id := StringID(len(internTable.names))
	internTable.names = append(internTable.names, s)
	internTable.ids[s] = id
	return id
}

// LookupStringID returns the id for s without interning it.
func LookupStringID(s string) (StringID, bool) {
	if s == "" {
		return NullStringID, true
	}
	s = norm.NFC.String(s)
	internTable.Lock()
	defer internTable.Unlock()
	id, ok := internTable.ids[s]
	return id, ok
}

// String returns the interned string, or "" for the null id or an unknown id.
func (id StringID) String() string {
	internTable.Lock()
	defer internTable.Unlock()
	if int(id) >= len(internTable.names) {
		return ""
	}
	return internTable.names[id]
}

// IsNull reports whether id is the null id.
func (id StringID) IsNull() bool { return id == NullStringID }
