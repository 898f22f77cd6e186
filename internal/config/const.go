package config

const (
	LogLevelDebug   string = "debug"
	LogLevelInfo    string = "info"
	LogLevelWarning string = "warn"
	LogLevelError   string = "error"

	Version string = "0.1.0"
)

// DistinctValueThreshold is the empirical cutoff used by the page
// classifier (internal/order): a page with fewer distinct byte values
// than this looks like structured data, at or above it looks like
// random parity.
const DistinctValueThreshold = 80

// CandidatePageSizesKB are the page sizes, in KiB, tried by pagesize
// inference, in the descending order the search requires.
var CandidatePageSizesKB = []int64{1024, 512, 256, 128, 64}

// RestoreProgressEveryPages controls how often the restore subcommand
// logs a progress line.
const RestoreProgressEveryPages = 1000
