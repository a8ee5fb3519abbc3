// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"errors"
	"io"
)

// newlineBytes is a byte slice representation of the SingleNewLine constant used for line breaking
// in encoding processes.
var newlineBytes = []byte(SingleNewLine)

// ErrNoOutWriter is returned when no io.Writer is set for Base64LineBreaker.
var ErrNoOutWriter = errors.New("no io.Writer set for Base64LineBreaker")

// Base64LineBreaker is used to handle base64 encoding with the insertion of new lines after a certain
// number of characters.
//
// It satisfies the io.WriteCloser interface.
type Base64LineBreaker struct {
	line [MaxBodyLength]byte
	used int
	out  io.Writer
}

// Write writes data to the Base64LineBreaker, ensuring lines do not exceed MaxBodyLength.
// Full lines are flushed to the output writer followed by a CRLF, the remainder is buffered
// until the next Write or Close.
func (l *Base64LineBreaker) Write(data []byte) (int, error) {
	if l.out == nil {
		return 0, ErrNoOutWriter
	}
	written := 0
	for len(data) > 0 {
		n := copy(l.line[l.used:], data)
		l.used += n
		written += n
		data = data[n:]
		if l.used < MaxBodyLength {
			break
		}
		if _, err := l.out.Write(l.line[:l.used]); err != nil {
			return written, err
		}
		if _, err := l.out.Write(newlineBytes); err != nil {
			return written, err
		}
		l.used = 0
	}
	return written, nil
}

// Close finalizes the Base64LineBreaker, writing any remaining buffered data and appending a newline.
func (l *Base64LineBreaker) Close() (err error) {
	if l.used > 0 {
		_, err = l.out.Write(l.line[0:l.used])
		if err != nil {
			return
		}
		_, err = l.out.Write(newlineBytes)
		l.used = 0
	}

	return
}
