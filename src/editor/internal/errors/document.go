package errors

import "fmt"

// DocumentNotFoundError indicates that a document is not open.
type DocumentNotFoundError struct {
	Path string
}

// Error is an implementation of the error interface.
func (n *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document %q is not open", n.Path)
}

// DocumentSizeLimitError indicates that content has exceeded the specified size limit.
type DocumentSizeLimitError struct {
	Path  string
	Size  int64
	Limit int64
}

// Error is an implementation of the error interface.
func (n *DocumentSizeLimitError) Error() string {
	return fmt.Sprintf("size of %d bytes for %q exceeds permitted limit of %d bytes", n.Size, n.Path, n.Limit)
}

// RemoteError is returned by collaborators that answered with a failure status.
type RemoteError struct {
	Operation  string
	StatusCode int
	Message    string
}

// Error is an implementation of the error interface.
func (n *RemoteError) Error() string {
	if n.Message == "" {
		return fmt.Sprintf("%s: status %d", n.Operation, n.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", n.Operation, n.StatusCode, n.Message)
}
