package errors

import (
	stderr "errors"
	"fmt"
	"strings"
)

// Fallback messages shown when a failure carries no usable text.
const (
	MsgSaveFailed         = "Failed to save file"
	MsgValidateFailed     = "Failed to validate project"
	MsgOpenFailed         = "Failed to open file"
	MsgJobProblemsFailed  = "Failed to load job problems"
	MsgLanguageFeatureErr = "Language features are unavailable"
)

// UserMessage normalizes any failure value into text fit for display.
// v may be an error, a string, a fmt.Stringer or a recovered panic value of any type.
// When no usable text can be extracted the fallback is returned.
func UserMessage(v interface{}, fallback string) string {
	var msg string
	switch e := v.(type) {
	case nil:
	case *RemoteError:
		if e != nil {
			msg = e.Message
		}
	case error:
		var remote *RemoteError
		if stderr.As(e, &remote) && remote != nil && strings.TrimSpace(remote.Message) != "" {
			msg = remote.Message
		} else {
			msg = e.Error()
		}
	case string:
		msg = e
	case fmt.Stringer:
		msg = e.String()
	}

	msg = strings.TrimSpace(msg)
	if msg == "" || msg == "<nil>" {
		return fallback
	}
	return msg
}

// UserError is an error whose text is already normalized for display. The cause stays reachable through Unwrap.
type UserError struct {
	Message string
	Cause   error
}

// Error is an implementation of the error interface.
func (u *UserError) Error() string {
	return u.Message
}

// Unwrap returns the underlying failure.
func (u *UserError) Unwrap() error {
	return u.Cause
}

// NewUserError wraps err with a normalized message. It returns nil when err is nil.
func NewUserError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &UserError{Message: UserMessage(err, fallback), Cause: err}
}
