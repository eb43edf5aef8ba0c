package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNodeNameLength bounds host names; MPI_MAX_PROCESSOR_NAME is 256 on
// every MPI implementation we target.
const maxNodeNameLength = 256

// ValidateNodeName validates a compute node name read from a results file.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > maxNodeNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", maxNodeNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name %q contains control characters", name)
		}
	}

	return nil
}

// metricKeyRegex matches metric keys such as "gflops" or "copy_avg".
var metricKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateMetricKey validates a metric key used for file names and lookups.
func ValidateMetricKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "metric key cannot be empty")
	}
	if !metricKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid metric key: %q", key)
	}
	return nil
}

// ValidateOutputPath validates an output directory or file prefix.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}
