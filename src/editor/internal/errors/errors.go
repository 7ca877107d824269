package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// ErrNoProject reports that an operation requires a selected project.
	ErrNoProject = New("no project selected")
	// ErrSessionDisabled reports that the semantic language session is turned off.
	ErrSessionDisabled = New("language session is disabled")
	// ErrInvalidPath reports a file path that escapes the project root or is empty.
	ErrInvalidPath = New("invalid file path")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	return stderr.Is(e, ErrNoProject) || stderr.Is(e, ErrInvalidPath)
}
