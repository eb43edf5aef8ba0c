package bench

import (
	"math"

	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// bytesToMB scales bytes to megabytes (10^6, as STREAM reports MB/s).
const bytesToMB = 1e-6

// Throughput converts an elapsed kernel time into bandwidth in MB/s:
//
//	1e-6 * processesPerNode * transferSizeBytes / elapsedSeconds
//
// transferSizeBytes is the per-process volume moved by the kernel. A
// non-positive or non-finite elapsed time fails with
// [errors.ErrCodeInvalidMetricValue]; it is never coerced.
func Throughput(processesPerNode int, transferSizeBytes int64, elapsedSeconds float64) (float64, error) {
	if math.IsNaN(elapsedSeconds) || math.IsInf(elapsedSeconds, 0) || elapsedSeconds <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidMetricValue,
			"elapsed time must be positive, got %v", elapsedSeconds)
	}
	return (bytesToMB * float64(processesPerNode) * float64(transferSizeBytes)) / elapsedSeconds, nil
}
