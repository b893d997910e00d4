package models

// ConversionRequest holds everything the pipeline needs for one run.
// It is built once by the argument parser and never mutated afterwards.
type ConversionRequest struct {
	InputPath  string
	OutputPath string
	DPI        int
	Verbose    bool
	BatchMode  bool
}

// PageImageSet is the ordered list of per-page image paths produced by the
// rasterizing stage. Names are zero-padded so lexicographic order matches
// page order.
type PageImageSet struct {
	Paths []string
}

func (s PageImageSet) Count() int {
	return len(s.Paths)
}

// ConversionResult is derived for the final summary only; nothing persists it.
type ConversionResult struct {
	OriginalSizeBytes int64
	OutputSizeBytes   int64
	PageCount         int
	DPIUsed           int
	Optimized         bool
}

// SizeKnown reports whether a best-effort size probe succeeded.
// A negative size means the file could not be stat'ed.
func SizeKnown(size int64) bool {
	return size >= 0
}
