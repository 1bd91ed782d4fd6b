package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classifying render pipeline failures. Component code wraps
// low-level errors with one of these so the caller-facing layer can report
// which stage failed without inspecting raw error text.
var (
	// ErrSetup covers workspace creation and job-file write failures that
	// abort a job before the engine is invoked.
	ErrSetup = errors.New("setup error")
	// ErrEngine covers jobs where the engine ran but no artifact could be
	// resolved and no fallback applied.
	ErrEngine = errors.New("engine failure")
	// ErrConversion covers fallback converter failures, reported distinctly
	// from primary engine failures.
	ErrConversion = errors.New("conversion failure")
	// ErrValidation covers malformed requests rejected before setup.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration covers unusable configuration discovered at run time.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrEngine
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
