package errors

import "fmt"

// Kind classifies why author retrieval failed.
type Kind int

const (
	// KindRetrieval: the history source could not be reached or opened
	// (network, auth, malformed URL, log streaming).
	KindRetrieval Kind = iota
	// KindAnalysis: the source was opened but ref resolution or traversal failed.
	KindAnalysis
	// KindScan: source-tree enumeration failed.
	KindScan
)

func (k Kind) String() string {
	switch k {
	case KindRetrieval:
		return "retrieval"
	case KindAnalysis:
		return "analysis"
	case KindScan:
		return "scan"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AuthorshipError is the single failure type returned by author sources.
// A source either returns a complete author set or one of these.
type AuthorshipError struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *AuthorshipError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Cause.Error()
}

func (e *AuthorshipError) Unwrap() error { return e.Cause }

func newAuthorshipError(kind Kind, cause error, format string, args ...interface{}) error {
	return WithStack(&AuthorshipError{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		Cause: cause,
	})
}

// RetrievalFailure reports that a history source could not be reached or opened.
func RetrievalFailure(cause error, format string, args ...interface{}) error {
	return newAuthorshipError(KindRetrieval, cause, format, args...)
}

// AnalysisFailure reports a ref/revision resolution or traversal failure.
func AnalysisFailure(cause error, format string, args ...interface{}) error {
	return newAuthorshipError(KindAnalysis, cause, format, args...)
}

// ScanFailure reports that a source tree could not be enumerated.
func ScanFailure(cause error, format string, args ...interface{}) error {
	return newAuthorshipError(KindScan, cause, format, args...)
}

// IsAuthorshipError checks if an error is or wraps an *AuthorshipError
func IsAuthorshipError(err error) bool {
	var ae *AuthorshipError
	return err != nil && As(err, &ae)
}

// KindOf returns the kind of the first *AuthorshipError in err's chain.
// ok is false when err carries none.
func KindOf(err error) (kind Kind, ok bool) {
	var ae *AuthorshipError
	if err == nil || !As(err, &ae) {
		return 0, false
	}
	return ae.Kind, true
}
