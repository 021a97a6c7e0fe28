package util

import "runtime"

// GetOptimalPoolSize returns the worker count for CPU-bound fan-out:
// min(max(2*NumCPU, 4), 32).
//
// Used for parser pools (one tree-sitter parser per slot) and the snippet
// build workers, which must stay in step so workers never starve waiting
// for a parser.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
