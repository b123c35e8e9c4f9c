package ingest

import "runtime"

// defaultFastModeThreshold is the byte-length cap spec.md §4.E
// describes as "a byte-length threshold, default ≈6 kB".
const defaultFastModeThreshold = 6 * 1024

// Options configures one Ingest call, mirroring spec.md §6's
// `options := { hard_limit?, max_files_per_project?, fast_mode?, workers? }`.
type Options struct {
	// Workers bounds the number of projects processed concurrently.
	// Zero selects runtime.NumCPU()/2 + 1, per spec.md §4.E.
	Workers int
	// HardLimit stops the pipeline once this many files have been
	// INSERTED, cancelling pending work. Zero means unlimited.
	HardLimit int
	// MaxFilesPerProject caps how many files are considered per
	// project; zero means unlimited.
	MaxFilesPerProject int
	// FastMode skips files whose source exceeds FastModeThreshold
	// (or defaultFastModeThreshold if that's zero) rather than
	// parsing them.
	FastMode bool
	// FastModeThreshold overrides defaultFastModeThreshold.
	FastModeThreshold int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()/2 + 1
	}
	if o.FastModeThreshold <= 0 {
		o.FastModeThreshold = defaultFastModeThreshold
	}
	return o
}
