// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"path/filepath"
)

const (
	// MaxBodyLength defines the maximum line length for the base64 encoded body parts
	// RFC 2045 allows 76 characters
	MaxBodyLength = 76

	// SingleNewLine represents a new line that is used to terminate header and body lines
	SingleNewLine = "\r\n"
)

// msgWriter renders a Msg into an io.Writer. The first error is latched and all
// subsequent writes become no-ops.
type msgWriter struct {
	err     error
	maxSize int64
	n       int64
	w       io.Writer
}

// Write implements the io.Writer interface for msgWriter
func (mw *msgWriter) Write(p []byte) (int, error) {
	if mw.err != nil {
		return 0, fmt.Errorf("failed to write due to previous error: %w", mw.err)
	}

	var n int
	n, mw.err = mw.w.Write(p)
	mw.n += int64(n)
	return n, mw.err
}

// writeMsg formats the message into the msgWriter's io.Writer
//
// The structure is always the same: a multipart/mixed envelope that holds a multipart/alternative
// section for the text bodies, followed by the inline attachments and the regular attachments.
func (mw *msgWriter) writeMsg(m *Msg) {
	if mw.err = m.validateFiles(); mw.err != nil {
		return
	}

	mw.writeString(m.composeHeaders().render())
	mw.writeString(SingleNewLine)

	mw.startPart(m.MixedBoundary())
	mw.writeHeader(HeaderContentType, multipartType(MIMEAlternative, m.AltBoundary()))
	mw.writeString(SingleNewLine)
	if m.plain != nil {
		mw.writePart(m.plain, m.AltBoundary())
	}
	if m.html != nil {
		mw.writePart(m.html, m.AltBoundary())
	}
	mw.stopMP(m.AltBoundary())
	mw.writeString(SingleNewLine)

	mw.writeInlineFiles(m.inlines, m.MixedBoundary())
	mw.writeAttachments(m.attachments, m.MixedBoundary())
	mw.writeString("--" + m.MixedBoundary() + "--")
}

// startPart writes the delimiter line that opens a new part inside the multipart
// container with the given boundary
func (mw *msgWriter) startPart(boundary string) {
	mw.writeString("--" + boundary + SingleNewLine)
}

// stopMP writes the closing delimiter of the multipart container with the given boundary
func (mw *msgWriter) stopMP(boundary string) {
	mw.writeString("--" + boundary + "--" + SingleNewLine)
}

// writePart writes a text body as part of the multipart/alternative section
func (mw *msgWriter) writePart(p *Part, boundary string) {
	mw.startPart(boundary)
	mw.writeHeader(HeaderContentType, fmt.Sprintf("%s; charset=%s", p.ctype, CharsetUTF8))
	mw.writeHeader(HeaderContentTransferEnc, p.enc.String())
	mw.writeString(SingleNewLine)
	mw.writeBody(p.content, p.enc)
	mw.writeString(SingleNewLine + SingleNewLine)
}

// writeInlineFiles adds the inline attachments as parts of the multipart/mixed envelope
func (mw *msgWriter) writeInlineFiles(inlines []InlineAttachment, boundary string) {
	for _, inline := range inlines {
		if mw.err != nil {
			return
		}
		if mw.err = checkFile(inline.Path, true, mw.maxSize); mw.err != nil {
			return
		}
		name := mime.QEncoding.Encode(CharsetUTF8.String(), filepath.Base(inline.Path))
		mw.startPart(boundary)
		mw.writeHeader(HeaderContentType, fmt.Sprintf(`%s; name="%s"`, ResolveContentType(inline.Path), name))
		mw.writeHeader(HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, name))
		mw.writeHeader(HeaderContentID, inline.ContentID)
		mw.writeFile(inline.Path)
	}
}

// writeAttachments adds the regular attachments as parts of the multipart/mixed envelope
func (mw *msgWriter) writeAttachments(attachments []string, boundary string) {
	for _, path := range attachments {
		if mw.err != nil {
			return
		}
		if mw.err = checkFile(path, false, mw.maxSize); mw.err != nil {
			return
		}
		name := mime.QEncoding.Encode(CharsetUTF8.String(), filepath.Base(path))
		mw.startPart(boundary)
		mw.writeHeader(HeaderContentType, fmt.Sprintf(`%s; name="%s"`, ResolveContentType(path), name))
		mw.writeHeader(HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
		mw.writeFile(path)
	}
}

// writeFile writes the transfer encoding header and the base64 encoded file content
func (mw *msgWriter) writeFile(path string) {
	mw.writeHeader(HeaderContentTransferEnc, EncodingB64.String())
	mw.writeString(SingleNewLine)
	if mw.err != nil {
		return
	}
	if _, err := writeFileBase64(mw, path); err != nil {
		mw.err = err
		return
	}
	mw.writeString(SingleNewLine)
}

// writeString writes a string into the msgWriter's io.Writer interface
func (mw *msgWriter) writeString(s string) {
	if mw.err != nil {
		return
	}
	var n int
	n, mw.err = io.WriteString(mw.w, s)
	mw.n += int64(n)
}

// writeHeader writes a single "<Name>: <Value>" header line into the msgWriter's io.Writer
func (mw *msgWriter) writeHeader(k Header, v string) {
	mw.writeString(k.String() + ": " + v + SingleNewLine)
}

// writeBody writes a text body into the msgWriter's io.Writer using the provided Encoding
func (mw *msgWriter) writeBody(content string, e Encoding) {
	if mw.err != nil {
		return
	}

	var ew io.WriteCloser
	switch e {
	case EncodingB64:
		lineBreaker := &Base64LineBreaker{out: mw}
		ew = &multiCloser{
			WriteCloser: base64.NewEncoder(base64.StdEncoding, lineBreaker),
			next:        lineBreaker,
		}
	case NoEncoding:
		mw.writeString(content)
		return
	default:
		ew = quotedprintable.NewWriter(mw)
	}

	if _, err := io.WriteString(ew, content); err != nil {
		mw.err = err
		return
	}
	if err := ew.Close(); err != nil && mw.err == nil {
		mw.err = err
	}
}

// multiCloser closes the wrapped io.WriteCloser first and next afterwards, so that an encoder
// can flush into the writer it wraps.
type multiCloser struct {
	io.WriteCloser
	next io.Closer
}

// Close implements the io.Closer interface for the multiCloser type
func (c *multiCloser) Close() error {
	if err := c.WriteCloser.Close(); err != nil {
		return err
	}
	return c.next.Close()
}

// multipartType returns the Content-Type value of a multipart container
func multipartType(t MIMEType, boundary string) string {
	return fmt.Sprintf(`multipart/%s; boundary="%s"`, t, boundary)
}
