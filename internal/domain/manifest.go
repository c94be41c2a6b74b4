package domain

// CompressionMethod mirrors the ZIP local-header compression method field
// for a preserved part, so the writer can stream it through unchanged.
type CompressionMethod uint16

const (
	MethodStore   CompressionMethod = 0
	MethodDeflate CompressionMethod = 8
)

// MediaInfo describes an embedded xl/media part well enough for a drawing
// anchor to size itself, without decoding (and holding in memory) the full
// pixel raster: media parts are always streamed through untouched via
// PreservedPartStore, never reencoded.
type MediaInfo struct {
	Format string
	Width  int
	Height int
}

// PartEntry describes one ZIP entry the reader observed, whether or not it
// was parsed into the domain model.
type PartEntry struct {
	Name             string
	UncompressedSize uint64
	CRC32            uint32
	Method           CompressionMethod
	Parsed           bool
	// SecondaryDigest is a SHA3-256 hash of the part's decompressed bytes,
	// computed at read time and re-checked before a preserved part streams
	// through a later write unchanged (belt-and-suspenders alongside the
	// ZIP format's own CRC32, which a reopen of a since-modified file would
	// not by itself have re-verified against what this library last saw).
	SecondaryDigest [32]byte
	// Media is populated for entries under xl/media/ whose format one of
	// the registered image decoders recognises; nil for every other part,
	// and for media parts in an unsupported/vector format (e.g. .emf/.wmf),
	// which remain preserve-only pass-through content.
	Media *MediaInfo
}

// PartManifest enumerates every entry the reader saw in the source package,
// in original ZIP order.
type PartManifest struct {
	Entries []PartEntry
}

// Entry looks up a manifest entry by name.
func (m PartManifest) Entry(name string) (PartEntry, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return PartEntry{}, false
}

// SourceFingerprint records the total byte size and SHA-256 digest of the
// source file at read time, verified before any surgical write.
type SourceFingerprint struct {
	Size   int64
	SHA256 [32]byte
}

// ModificationTracker records which physical parts have changed since the
// workbook was read.
type ModificationTracker struct {
	modifiedSheets map[int]struct{}
	deletedSheets  map[int]struct{}
	reordered      bool
	metadata       bool
}

// NewModificationTracker returns a clean tracker.
func NewModificationTracker() *ModificationTracker {
	return &ModificationTracker{
		modifiedSheets: map[int]struct{}{},
		deletedSheets:  map[int]struct{}{},
	}
}

// IsClean reports whether no mutation has been recorded.
func (t *ModificationTracker) IsClean() bool {
	return len(t.modifiedSheets) == 0 && len(t.deletedSheets) == 0 && !t.reordered && !t.metadata
}

// MarkSheetModified records that the sheet at idx changed.
func (t *ModificationTracker) MarkSheetModified(idx int) *ModificationTracker {
	n := t.clone()
	n.modifiedSheets[idx] = struct{}{}
	return n
}

// MarkSheetDeleted records that the sheet at idx was removed.
func (t *ModificationTracker) MarkSheetDeleted(idx int) *ModificationTracker {
	n := t.clone()
	n.deletedSheets[idx] = struct{}{}
	return n
}

// MarkReordered records that the sheet order changed.
func (t *ModificationTracker) MarkReordered() *ModificationTracker {
	n := t.clone()
	n.reordered = true
	return n
}

// MarkMetadata records that workbook-level metadata changed.
func (t *ModificationTracker) MarkMetadata() *ModificationTracker {
	n := t.clone()
	n.metadata = true
	return n
}

// ModifiedSheets returns the set of sheet indices marked modified.
func (t *ModificationTracker) ModifiedSheets() map[int]struct{} {
	out := make(map[int]struct{}, len(t.modifiedSheets))
	for k := range t.modifiedSheets {
		out[k] = struct{}{}
	}
	return out
}

// DeletedSheets returns the set of sheet indices marked deleted.
func (t *ModificationTracker) DeletedSheets() map[int]struct{} {
	out := make(map[int]struct{}, len(t.deletedSheets))
	for k := range t.deletedSheets {
		out[k] = struct{}{}
	}
	return out
}

// Reordered reports whether sheet order changed.
func (t *ModificationTracker) Reordered() bool { return t.reordered }

// MetadataDirty reports whether workbook-level metadata changed.
func (t *ModificationTracker) MetadataDirty() bool { return t.metadata }

func (t *ModificationTracker) clone() *ModificationTracker {
	n := &ModificationTracker{
		modifiedSheets: make(map[int]struct{}, len(t.modifiedSheets)),
		deletedSheets:  make(map[int]struct{}, len(t.deletedSheets)),
		reordered:      t.reordered,
		metadata:       t.metadata,
	}
	for k := range t.modifiedSheets {
		n.modifiedSheets[k] = struct{}{}
	}
	for k := range t.deletedSheets {
		n.deletedSheets[k] = struct{}{}
	}
	return n
}

// SourceContext records everything needed to perform a surgical write: the
// original path, the part manifest, the modification tracker, and the
// fingerprint verified before writing.
type SourceContext struct {
	SourcePath  string
	Manifest    PartManifest
	Tracker     *ModificationTracker
	Fingerprint SourceFingerprint
}
