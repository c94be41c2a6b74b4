package xlcore

// WriteFile is implemented on Workbook itself (internal/domain/codec.go);
// internal/ooxml registers the actual surgical-write codec in its init(),
// which this package pulls in by importing internal/ooxml from open.go.
// This file exists as the write-side counterpart to open.go in the package
// layout; there is nothing further to wrap here.
