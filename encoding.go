// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

// Charset represents a character set for the encoding of text parts.
type Charset string

// ContentType represents a content type of a Msg part or attachment.
type ContentType string

// Encoding represents a MIME encoding scheme like quoted-printable or base64.
type Encoding string

// MIMEType represents the subtype of a multipart container.
type MIMEType string

// CharsetUTF8 is the only charset text bodies are rendered with.
const CharsetUTF8 Charset = "utf-8"

const (
	// EncodingB64 represents the Base64 encoding as specified in RFC 2045.
	EncodingB64 Encoding = "base64"

	// EncodingQP represents the "quoted-printable" encoding as specified in RFC 2045.
	EncodingQP Encoding = "quoted-printable"

	// NoEncoding avoids any character encoding (except of the mail headers)
	NoEncoding Encoding = "8bit"
)

const (
	// TypeAppOctetStream is the fallback content type for files of unknown type.
	TypeAppOctetStream ContentType = "application/octet-stream"

	// TypeTextHTML is the content type of the HTML body.
	TypeTextHTML ContentType = "text/html"

	// TypeTextPlain is the content type of the plain text body.
	TypeTextPlain ContentType = "text/plain"
)

const (
	// MIMEAlternative is the multipart subtype wrapping the plain and HTML bodies.
	MIMEAlternative MIMEType = "alternative"

	// MIMEMixed is the outermost multipart subtype of every Msg.
	MIMEMixed MIMEType = "mixed"
)

// String satisfies the fmt.Stringer interface for the Charset type.
func (c Charset) String() string {
	return string(c)
}

// String satisfies the fmt.Stringer interface for the ContentType type.
func (c ContentType) String() string {
	return string(c)
}

// String satisfies the fmt.Stringer interface for the Encoding type.
func (e Encoding) String() string {
	return string(e)
}

// String satisfies the fmt.Stringer interface for the MIMEType type.
func (m MIMEType) String() string {
	return string(m)
}
