package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// CompressionMethod mirrors the ZIP local-header compression method field
// for a preserved part, so the writer can stream it through unchanged.
type CompressionMethod = domain.CompressionMethod

const (
	MethodStore   = domain.MethodStore
	MethodDeflate = domain.MethodDeflate
)

// PartEntry describes one ZIP entry the reader observed, whether or not it
// was parsed into the domain model.
type PartEntry = domain.PartEntry

// PartManifest enumerates every entry the reader saw in the source package,
// in original ZIP order.
type PartManifest = domain.PartManifest

// SourceFingerprint records the total byte size and SHA-256 digest of the
// source file at read time, verified before any surgical write.
type SourceFingerprint = domain.SourceFingerprint

// ModificationTracker records which physical parts have changed since the
// workbook was read.
type ModificationTracker = domain.ModificationTracker

// NewModificationTracker returns a clean tracker.
var NewModificationTracker = domain.NewModificationTracker

// SourceContext records everything needed to perform a surgical write: the
// original path, the part manifest, the modification tracker, and the
// fingerprint verified before writing.
type SourceContext = domain.SourceContext
