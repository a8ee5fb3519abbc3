// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import "errors"

var (
	// ErrInvalidState is matched by every error that reports a Msg that cannot be rendered in its
	// current state, e.g. an attachment that does not exist at render time.
	ErrInvalidState = errors.New("invalid message state")

	// ErrNoFromAddress should be used when a FROM address is requrested but not set
	ErrNoFromAddress = errors.New("no FROM address set")

	// ErrNoRcptAddresses should be used when the list of RCPTs is empty
	ErrNoRcptAddresses = errors.New("no recipient addresses set")

	// ErrNoTransport is returned by Msg.Send if the Msg was created without a Transport
	ErrNoTransport = errors.New("no transport set for message")

	// ErrNoHTMLBody is returned by Msg.SetPlainFromHTML if no HTML body is set
	ErrNoHTMLBody = errors.New("no HTML body set")
)

// FileError reports an attachment or inline attachment that failed validation at render time.
//
// It matches ErrInvalidState via errors.Is. The error text carries the offending path and
// distinguishes attachments from inline attachments.
type FileError struct {
	// Path is the filesystem path of the offending file.
	Path string

	// Inline is true if the file was added as inline attachment.
	Inline bool

	// Size is the file size in bytes, if the file exceeded the configured maximum.
	Size int64

	// MaxSize is the configured maximum attachment size, if it was exceeded.
	MaxSize int64
}

// Error implements the error interface for the FileError type.
func (e *FileError) Error() string {
	prefix := "Attachment"
	if e.Inline {
		prefix = "Inline attachment"
	}
	if e.MaxSize > 0 && e.Size > e.MaxSize {
		return prefix + " file too large: " + e.Path
	}
	return prefix + " file not found: " + e.Path
}

// Is implements the errors.Is functionality. A FileError always matches ErrInvalidState.
func (e *FileError) Is(target error) bool {
	return target == ErrInvalidState
}
