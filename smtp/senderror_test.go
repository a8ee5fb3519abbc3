// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"errors"
	"strings"
	"testing"

	"github.com/emersion/go-smtp"
)

func TestSendErrReason_String(t *testing.T) {
	tests := []struct {
		name   string
		reason SendErrReason
		want   string
	}{
		{"ErrConnect", ErrConnect, "connecting to SMTP server"},
		{"ErrSMTPMailFrom", ErrSMTPMailFrom, "sending SMTP MAIL FROM command"},
		{"ErrSMTPRcptTo", ErrSMTPRcptTo, "sending SMTP RCPT TO command"},
		{"ErrSMTPData", ErrSMTPData, "sending SMTP DATA command"},
		{"ErrSMTPDataClose", ErrSMTPDataClose, "closing SMTP DATA writer"},
		{"ErrWriteContent", ErrWriteContent, "sending message content"},
		{"ErrAmbiguous", ErrAmbiguous, "ambiguous reason, check the wrapped errors for details"},
		{"unknown", 99, "unknown reason"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reason.String(); got != tt.want {
				t.Errorf("SendErrReason.String() failed. Want: %s, got: %s", tt.want, got)
			}
		})
	}
}

func TestSendError(t *testing.T) {
	serverErr := &smtp.SMTPError{Code: 452, EnhancedCode: smtp.EnhancedCode{4, 2, 2}, Message: "mailbox full"}
	err := newSendError(ErrSMTPRcptTo, serverErr, "toni@example.com", "tina@example.com")

	if !err.IsTemp() {
		t.Error("SendError with 4xx reply was expected to be temporary")
	}
	if err.ErrorCode() != 452 {
		t.Errorf("SendError failed. Expected error code: 452, got: %d", err.ErrorCode())
	}
	if err.EnhancedStatusCode() != "4.2.2" {
		t.Errorf("SendError failed. Expected enhanced status code: 4.2.2, got: %s", err.EnhancedStatusCode())
	}
	if !strings.HasPrefix(err.Error(), "sending SMTP RCPT TO command: ") {
		t.Errorf("SendError failed. Unexpected error message: %s", err.Error())
	}
	if !strings.HasSuffix(err.Error(), ", affected recipient(s): toni@example.com, tina@example.com") {
		t.Errorf("SendError failed. Unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, &SendError{Reason: ErrSMTPRcptTo, isTemp: true}) {
		t.Error("SendError was expected to match reason and temporary state")
	}
	if errors.Is(err, &SendError{Reason: ErrSMTPRcptTo, isTemp: false}) {
		t.Error("SendError was not expected to match a permanent error")
	}
	var unwrapped *smtp.SMTPError
	if !errors.As(err, &unwrapped) || unwrapped.Code != 452 {
		t.Error("SendError was expected to unwrap to the SMTP server error")
	}
}

func TestSendError_NonServerError(t *testing.T) {
	err := newSendError(ErrWriteContent, errors.New("broken pipe"))
	if err.IsTemp() {
		t.Error("SendError without server reply was not expected to be temporary")
	}
	if err.ErrorCode() != 0 || err.EnhancedStatusCode() != "" {
		t.Errorf("SendError without server reply failed. Unexpected codes: %d, %q", err.ErrorCode(),
			err.EnhancedStatusCode())
	}
	if err.Error() != "sending message content: broken pipe" {
		t.Errorf("SendError failed. Unexpected error message: %s", err.Error())
	}
}

func TestSendError_Nil(t *testing.T) {
	var err *SendError
	if err.IsTemp() || err.ErrorCode() != 0 || err.EnhancedStatusCode() != "" || err.Rcpt() != nil {
		t.Error("nil SendError was expected to return zero values")
	}
}

func TestSendError_UnknownReason(t *testing.T) {
	err := &SendError{Reason: 42}
	if err.Error() != "unknown reason" {
		t.Errorf("SendError with unknown reason failed. Expected: unknown reason, got: %s", err.Error())
	}
}
