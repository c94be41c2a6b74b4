package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// PatchTag discriminates the constructors of the Patch algebra.
type PatchTag = domain.PatchTag

const (
	PEmpty               = domain.PEmpty
	PPut                 = domain.PPut
	PRemove              = domain.PRemove
	PRemoveRange         = domain.PRemoveRange
	PMerge               = domain.PMerge
	PUnmerge             = domain.PUnmerge
	PSetStyle            = domain.PSetStyle
	PSetCellStyle        = domain.PSetCellStyle
	PSetRangeStyle       = domain.PSetRangeStyle
	PClearStyle          = domain.PClearStyle
	PSetRowProperties    = domain.PSetRowProperties
	PSetColumnProperties = domain.PSetColumnProperties
	PSetComment          = domain.PSetComment
	PRemoveComment       = domain.PRemoveComment
	PBatch               = domain.PBatch
)

// Patch is a tagged atomic mutation, or a Batch sequence of them. Patches
// form a monoid under Combine: Empty is the identity, and the monoid is
// NOT commutative.
type Patch = domain.Patch

// NoopPatch is the identity element of the patch monoid.
var NoopPatch = domain.NoopPatch

// Put constructs a Patch that writes a single cell.
var Put = domain.Put

// Remove constructs a Patch that deletes a single cell.
var Remove = domain.Remove

// RemoveRange constructs a Patch that deletes every cell in rng.
var RemoveRange = domain.RemoveRange

// Merge constructs a Patch that merges rng.
var Merge = domain.Merge

// Unmerge constructs a Patch that unmerges rng.
var Unmerge = domain.Unmerge

// SetStyle constructs a Patch that assigns an already-registered style.
var SetStyle = domain.SetStyle

// SetCellStyle constructs a Patch that registers and assigns style.
var SetCellStyle = domain.SetCellStyle

// SetRangeStyle constructs a Patch that registers style once and applies it
// to every cell in rng.
var SetRangeStyle = domain.SetRangeStyle

// ClearStyle constructs a Patch that drops ref's StyleId, keeping its value.
var ClearStyle = domain.ClearStyle

// SetRowProperties constructs a Patch that replaces a row's properties.
var SetRowProperties = domain.SetRowProperties

// SetColumnProperties constructs a Patch that replaces a column's properties.
var SetColumnProperties = domain.SetColumnProperties

// SetComment constructs a Patch that attaches a comment to ref.
var SetComment = domain.SetComment

// RemoveComment constructs a Patch that removes ref's comment.
var RemoveComment = domain.RemoveComment

// BatchPatch sequences patches in order.
var BatchPatch = domain.BatchPatch

// Combine composes two patches into the monoid: Empty is the identity on
// either side, and two Batches concatenate rather than nest.
var Combine = domain.Combine

// ApplyPatch executes p against sheet left-to-right, returning a new Sheet.
var ApplyPatch = domain.ApplyPatch
