package extractor

import (
	"errors"
	"fmt"
)

// Kind classifies extraction failures. The kinds stay distinguishable
// all the way to the API response: "no captions" is not "network
// failure" is not "video too long".
type Kind int

const (
	KindDurationExceeded Kind = iota
	KindMetadata
	KindNoCaptions
	KindNetwork
	KindUnsupportedFormat
	KindParse
	// KindTimecode marks a single bad time code. It is segment-local:
	// the parsers log and drop the offending cue instead of failing the
	// extraction.
	KindTimecode
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindDurationExceeded:
		return "DurationExceeded"
	case KindMetadata:
		return "Metadata"
	case KindNoCaptions:
		return "NoCaptions"
	case KindNetwork:
		return "Network"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindParse:
		return "Parse"
	case KindTimecode:
		return "Timecode"
	default:
		return "Unknown"
	}
}

// ExtractionError labels every failure crossing the orchestrator
// boundary; raw collaborator errors never surface unlabeled.
type ExtractionError struct {
	Kind    Kind
	Message string
	Cause   error
}

func NewError(kind Kind, message string) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: message}
}

func WrapError(err error, kind Kind, message string) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: message, Cause: err}
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an ExtractionError of the given kind.
func IsKind(err error, kind Kind) bool {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind == kind
	}
	return false
}

// KindOf extracts the failure kind, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return KindUnknown
}
