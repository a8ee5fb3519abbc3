// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/emersion/go-smtp"
)

// List of SendError reasons
const (
	// ErrConnect is returned if the connection to the SMTP server could not be established or
	// the greeting, STARTTLS or AUTH failed
	ErrConnect SendErrReason = iota

	// ErrSMTPMailFrom is returned if the delivery failed when sending the MAIL FROM command
	// to the sending SMTP server
	ErrSMTPMailFrom

	// ErrSMTPRcptTo is returned if the delivery failed when sending the RCPT TO command
	// to the sending SMTP server
	ErrSMTPRcptTo

	// ErrSMTPData is returned if the delivery failed when sending the DATA command
	// to the sending SMTP server
	ErrSMTPData

	// ErrSMTPDataClose is returned if the delivery failed when trying to close the
	// Client data writer
	ErrSMTPDataClose

	// ErrWriteContent is returned if the delivery failed when sending the message content
	// to the Client writer
	ErrWriteContent

	// ErrAmbiguous is a generalized delivery error for the SendError type that is
	// returned if the exact reason for the delivery failure is ambiguous
	ErrAmbiguous
)

// SendError is an error wrapper for delivery errors of the Client.
//
// It holds the underlying errors, the affected recipients, the SMTP reply code and enhanced
// status code if the server sent any, and whether the error is temporary or permanent.
type SendError struct {
	errcode            int
	enhancedStatusCode string
	errlist            []error
	isTemp             bool
	rcpt               []string
	Reason             SendErrReason
}

// SendErrReason represents a comparable reason on why the delivery failed
type SendErrReason int

// newSendError returns a SendError for err. The reply code, enhanced status code and temporary
// state are taken from the SMTP server reply, if err carries one.
func newSendError(reason SendErrReason, err error, rcpts ...string) *SendError {
	sendErr := &SendError{Reason: reason, rcpt: rcpts}
	if err == nil {
		return sendErr
	}
	sendErr.errlist = []error{err}

	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		sendErr.errcode = smtpErr.Code
		sendErr.isTemp = smtpErr.Code/100 == 4
		if smtpErr.EnhancedCode[0] > 0 {
			sendErr.enhancedStatusCode = fmt.Sprintf("%d.%d.%d", smtpErr.EnhancedCode[0],
				smtpErr.EnhancedCode[1], smtpErr.EnhancedCode[2])
		}
		return sendErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		sendErr.isTemp = true
	}
	return sendErr
}

// Error implements the error interface for the SendError type.
//
// The message is built from the reason, the list of errors and the affected recipients. If the
// reason is unknown, it returns "unknown reason".
func (e *SendError) Error() string {
	if e.Reason > ErrAmbiguous || e.Reason < ErrConnect {
		return "unknown reason"
	}

	var errMessage strings.Builder
	errMessage.WriteString(e.Reason.String())
	if len(e.errlist) > 0 {
		errMessage.WriteRune(':')
		for i := range e.errlist {
			errMessage.WriteRune(' ')
			errMessage.WriteString(e.errlist[i].Error())
			if i != len(e.errlist)-1 {
				errMessage.WriteString(",")
			}
		}
	}
	if len(e.rcpt) > 0 {
		errMessage.WriteString(", affected recipient(s): ")
		errMessage.WriteString(strings.Join(e.rcpt, ", "))
	}
	return errMessage.String()
}

// Is implements the errors.Is functionality and compares the SendErrReason and the temporary
// state of both errors.
func (e *SendError) Is(errType error) bool {
	var t *SendError
	if errors.As(errType, &t) && t != nil {
		return e.Reason == t.Reason && e.isTemp == t.isTemp
	}
	return false
}

// Unwrap returns the underlying errors of the SendError
func (e *SendError) Unwrap() []error {
	return e.errlist
}

// IsTemp returns true if the delivery error is of a temporary nature and can be retried.
func (e *SendError) IsTemp() bool {
	if e == nil {
		return false
	}
	return e.isTemp
}

// Rcpt returns the recipients affected by the error
func (e *SendError) Rcpt() []string {
	if e == nil {
		return nil
	}
	return e.rcpt
}

// EnhancedStatusCode returns the enhanced status code of the server response if the
// server supports it, as described in RFC 2034. Otherwise an empty string is returned.
//
// References:
//   - https://datatracker.ietf.org/doc/html/rfc2034
func (e *SendError) EnhancedStatusCode() string {
	if e == nil {
		return ""
	}
	return e.enhancedStatusCode
}

// ErrorCode returns the error code of the server response. The error code will start with 5 on
// permanent errors and with 4 on a temporary error. If the error is not returned by the server,
// the code will be 0.
func (e *SendError) ErrorCode() int {
	if e == nil {
		return 0
	}
	return e.errcode
}

// String satisfies the fmt.Stringer interface for the SendErrReason type.
func (r SendErrReason) String() string {
	switch r {
	case ErrConnect:
		return "connecting to SMTP server"
	case ErrSMTPMailFrom:
		return "sending SMTP MAIL FROM command"
	case ErrSMTPRcptTo:
		return "sending SMTP RCPT TO command"
	case ErrSMTPData:
		return "sending SMTP DATA command"
	case ErrSMTPDataClose:
		return "closing SMTP DATA writer"
	case ErrWriteContent:
		return "sending message content"
	case ErrAmbiguous:
		return "ambiguous reason, check the wrapped errors for details"
	}
	return "unknown reason"
}
