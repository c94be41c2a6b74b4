package domain

// StyleId is an opaque index into a sheet's StyleRegistry.
type StyleId uint32

// StyleRegistry is an append-only vector of CellStyle values plus a
// canonical-key index used to deduplicate visually-equivalent styles.
// Index 0 is always CellStyle.default (invariant 1).
type StyleRegistry struct {
	styles []CellStyle
	byKey  map[CanonicalKey]StyleId
}

// NewStyleRegistry builds a registry seeded with the default style at
// index 0.
func NewStyleRegistry() *StyleRegistry {
	r := &StyleRegistry{
		styles: []CellStyle{DefaultCellStyle},
		byKey:  map[CanonicalKey]StyleId{},
	}
	r.byKey[DefaultCellStyle.Canonical()] = 0
	return r
}

// Len returns the number of distinct styles registered.
func (r *StyleRegistry) Len() int { return len(r.styles) }

// Get returns the style at id, and whether id indexed a live entry.
func (r *StyleRegistry) Get(id StyleId) (CellStyle, bool) {
	if int(id) < 0 || int(id) >= len(r.styles) {
		return CellStyle{}, false
	}
	return r.styles[id], true
}

// Register returns the StyleId for style. When its canonical key already
// exists it returns the receiver itself, unchanged, with the existing id;
// otherwise it returns a new *StyleRegistry (the registry is a persistent
// value owned by the enclosing Sheet) with style appended, and its new id.
func (r *StyleRegistry) Register(style CellStyle) (*StyleRegistry, StyleId) {
	key := style.Canonical()
	if id, ok := r.byKey[key]; ok {
		return r, id
	}
	next := r.clone()
	id := StyleId(len(next.styles))
	next.styles = append(next.styles, style)
	next.byKey[key] = id
	return next, id
}

func (r *StyleRegistry) clone() *StyleRegistry {
	styles := make([]CellStyle, len(r.styles), len(r.styles)+1)
	copy(styles, r.styles)
	byKey := make(map[CanonicalKey]StyleId, len(r.byKey)+1)
	for k, v := range r.byKey {
		byKey[k] = v
	}
	return &StyleRegistry{styles: styles, byKey: byKey}
}

// All returns a snapshot of every registered style, in insertion order.
func (r *StyleRegistry) All() []CellStyle {
	out := make([]CellStyle, len(r.styles))
	copy(out, r.styles)
	return out
}
