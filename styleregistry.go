package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// StyleId is an opaque index into a sheet's StyleRegistry.
type StyleId = domain.StyleId

// StyleRegistry is an append-only vector of CellStyle values plus a
// canonical-key index used to deduplicate visually-equivalent styles.
// Index 0 is always DefaultCellStyle.
type StyleRegistry = domain.StyleRegistry

// NewStyleRegistry builds a registry seeded with the default style at
// index 0.
var NewStyleRegistry = domain.NewStyleRegistry
