package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoMetadata means the file was readable but carried no tags.
	ErrNoMetadata = errors.New("no metadata")
	// ErrUnsupported means no reader understands the file format.
	ErrUnsupported = errors.New("unsupported format")
	// ErrDestinationExists is returned by movers that refuse to overwrite.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrRunLocked means another run holds the lock for the same root.
	ErrRunLocked = errors.New("another rename run is active")
)

// NoTimestampError is returned when metadata exists but none of the
// capture-time tags holds a usable value.
type NoTimestampError struct {
	Path string
	Keys []string // tags that were consulted
}

func (e *NoTimestampError) Error() string {
	return fmt.Sprintf("no capture time in %s (looked for %s)", e.Path, strings.Join(e.Keys, ", "))
}

// InvalidTimezoneError reports a malformed --target-timezone or
// --source-timezone value.
type InvalidTimezoneError struct {
	Value string
	Err   error
}

func (e *InvalidTimezoneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid timezone %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid timezone %q", e.Value)
}

func (e *InvalidTimezoneError) Unwrap() error { return e.Err }

// InvalidTimeFormatError reports a strftime pattern that cannot be used
// for file names.
type InvalidTimeFormatError struct {
	Pattern string
	Reason  string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: %s", e.Pattern, e.Reason)
}

// InvalidShiftError reports a bad --modify-time argument.
type InvalidShiftError struct {
	Unit   string
	Amount string
	Reason string
}

func (e *InvalidShiftError) Error() string {
	return fmt.Sprintf("invalid time modification %s %s: %s", e.Unit, e.Amount, e.Reason)
}

// InvalidFilterError reports a bad --filter-meta argument.
type InvalidFilterError struct {
	Arg string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid metadata filter %q: expected KEY=VALUE", e.Arg)
}

// ErrorCategory represents the type of error encountered
type ErrorCategory string

const (
	ErrorCategoryIO          ErrorCategory = "io_error"           // File system, permissions, disk space
	ErrorCategoryMetadata    ErrorCategory = "metadata_error"     // Tag extraction failed
	ErrorCategoryTimestamp   ErrorCategory = "no_timestamp"       // Tags present, no capture time
	ErrorCategoryUnsupported ErrorCategory = "unsupported_format" // Unrecognized file format
	ErrorCategoryUnknown     ErrorCategory = "unknown_error"      // Unexpected errors
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityCritical ErrorSeverity = "critical" // System-level issues (disk full, permissions)
	ErrorSeverityError    ErrorSeverity = "error"    // File-level issues (move failed)
	ErrorSeverityWarning  ErrorSeverity = "warning"  // File skipped, run continues
)

// ProcessError represents a categorized error during file processing
type ProcessError struct {
	FilePath    string
	Category    ErrorCategory
	Severity    ErrorSeverity
	OriginalErr error
	Suggestion  string // User-friendly suggestion to fix
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Category, e.FilePath, e.OriginalErr)
}

func (e *ProcessError) Unwrap() error { return e.OriginalErr }

// CategorizeError analyzes an error and returns a ProcessError with category and severity
func CategorizeError(filePath string, err error) *ProcessError {
	if err == nil {
		return nil
	}

	procErr := &ProcessError{
		FilePath:    filePath,
		OriginalErr: err,
	}

	var noTS *NoTimestampError
	switch {
	case errors.As(err, &noTS):
		procErr.Category = ErrorCategoryTimestamp
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File has no capture time tag - inspect it with --list-meta"
		return procErr
	case errors.Is(err, ErrUnsupported):
		procErr.Category = ErrorCategoryUnsupported
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File format not recognized - add the extension to the config or use --exiftool"
		return procErr
	case errors.Is(err, ErrNoMetadata):
		procErr.Category = ErrorCategoryMetadata
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "Metadata could not be extracted - try --exiftool for better compatibility"
		return procErr
	case errors.Is(err, ErrDestinationExists):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Destination appeared during the run - rerun to pick a free name"
		return procErr
	}

	errStr := strings.ToLower(err.Error())
	switch {
	// Disk/Filesystem errors (CRITICAL)
	case strings.Contains(errStr, "no space left"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Free up disk space and retry"

	case strings.Contains(errStr, "permission denied"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Check write permissions on the directory containing the file"

	case strings.Contains(errStr, "read-only file system"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Filesystem is read-only - check mount options"

	case strings.Contains(errStr, "cross-device"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Source and destination are on different filesystems"

	case strings.Contains(errStr, "input/output error"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "I/O error - check disk health with SMART tools"

	case strings.Contains(errStr, "no such file"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "File disappeared during the run - check if the drive disconnected"

	case strings.Contains(errStr, "exif") || strings.Contains(errStr, "metadata"):
		procErr.Category = ErrorCategoryMetadata
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "Metadata could not be extracted - try --exiftool for better compatibility"

	default:
		procErr.Category = ErrorCategoryUnknown
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Unexpected error - rerun with --verbose for details"
	}

	return procErr
}

// ErrorStats tracks error statistics during a run
type ErrorStats struct {
	Total      int
	Critical   int
	Errors     int
	Warnings   int
	ByCategory map[ErrorCategory]int
	LastErrors []*ProcessError // Last 5 errors for quick diagnosis
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByCategory: make(map[ErrorCategory]int),
		LastErrors: make([]*ProcessError, 0, 5),
	}
}

func (s *ErrorStats) Add(err *ProcessError) {
	s.Total++
	s.ByCategory[err.Category]++

	switch err.Severity {
	case ErrorSeverityCritical:
		s.Critical++
	case ErrorSeverityError:
		s.Errors++
	case ErrorSeverityWarning:
		s.Warnings++
	}

	if err.Severity == ErrorSeverityWarning {
		return
	}
	// Keep last 5 failures
	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

// Failed reports whether any file failed (warnings are skips, not failures).
func (s *ErrorStats) Failed() bool {
	return s.Critical+s.Errors > 0
}

// GenerateReport creates a human-readable error report
func (s *ErrorStats) GenerateReport() string {
	var report strings.Builder

	fmt.Fprintf(&report, "\nRun encountered %d problems:\n\n", s.Total)

	if s.Critical > 0 {
		fmt.Fprintf(&report, "  Critical: %d (system-level issues)\n", s.Critical)
	}
	if s.Errors > 0 {
		fmt.Fprintf(&report, "  Errors:   %d (file-level issues)\n", s.Errors)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(&report, "  Warnings: %d (skipped files)\n", s.Warnings)
	}

	report.WriteString("\nError categories:\n")
	cats := make([]string, 0, len(s.ByCategory))
	for cat := range s.ByCategory {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)
	for _, cat := range cats {
		fmt.Fprintf(&report, "  - %s: %d\n", cat, s.ByCategory[ErrorCategory(cat)])
	}

	if len(s.LastErrors) > 0 {
		report.WriteString("\nRecent errors:\n")
		for i, err := range s.LastErrors {
			fmt.Fprintf(&report, "\n%d. %s\n", i+1, err.FilePath)
			fmt.Fprintf(&report, "   Category: %s | Severity: %s\n", err.Category, err.Severity)
			fmt.Fprintf(&report, "   Error: %v\n", err.OriginalErr)
			if err.Suggestion != "" {
				fmt.Fprintf(&report, "   Suggestion: %s\n", err.Suggestion)
			}
		}
	}

	report.WriteString("\n")
	report.WriteString(s.generateSuggestions())

	return report.String()
}

func (s *ErrorStats) generateSuggestions() string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggested next steps:\n")

	if s.ByCategory[ErrorCategoryIO] > 0 {
		suggestions.WriteString("  - Check disk space and permissions\n")
	}
	if s.ByCategory[ErrorCategoryMetadata]+s.ByCategory[ErrorCategoryUnsupported] > s.Total/2 {
		suggestions.WriteString("  - Many metadata errors - consider using --exiftool for better compatibility\n")
	}
	if s.ByCategory[ErrorCategoryTimestamp] > 0 {
		suggestions.WriteString("  - Inspect files without capture time using --list-meta\n")
	}
	suggestions.WriteString("  - Rerun with --dry to preview the remaining renames\n")

	return suggestions.String()
}
