// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Header is a type wrapper for a string and represents email header fields in a Msg.
type Header string

// Priority is a type wrapper for an int and represents the X-Priority level of a Msg.
//
// Lower numbers mean higher priority. PriorityNormal is the implicit default of every Msg.
type Priority int

const (
	// HeaderBcc is the "Blind Carbon Copy" header field. It is never rendered into the message.
	HeaderBcc Header = "Bcc"

	// HeaderCc is the "Carbon Copy" header field.
	HeaderCc Header = "Cc"

	// HeaderContentDisposition is the "Content-Disposition" header.
	HeaderContentDisposition Header = "Content-Disposition"

	// HeaderContentID is the "Content-ID" header.
	HeaderContentID Header = "Content-ID"

	// HeaderContentTransferEnc is the "Content-Transfer-Encoding" header.
	HeaderContentTransferEnc Header = "Content-Transfer-Encoding"

	// HeaderContentType is the "Content-Type" header.
	HeaderContentType Header = "Content-Type"

	// HeaderDate represents the "Date" field.
	// https://datatracker.ietf.org/doc/html/rfc822#section-5.1
	HeaderDate Header = "Date"

	// HeaderFrom is the "From" header field.
	HeaderFrom Header = "From"

	// HeaderMessageID represents the "Message-ID" field for message identification.
	// https://datatracker.ietf.org/doc/html/rfc1036#section-2.1.5
	HeaderMessageID Header = "Message-ID"

	// HeaderMIMEVersion represents the "MIME-Version" field as per RFC 2045.
	// https://datatracker.ietf.org/doc/html/rfc2045#section-4
	HeaderMIMEVersion Header = "MIME-Version"

	// HeaderReplyTo is the "Reply-To" header field.
	HeaderReplyTo Header = "Reply-To"

	// HeaderSubject is the "Subject" header field.
	HeaderSubject Header = "Subject"

	// HeaderTo is the "Recipient" header field.
	HeaderTo Header = "To"

	// HeaderUserAgent is the "User-Agent" header field.
	HeaderUserAgent Header = "User-Agent"

	// HeaderXMailer is the "X-Mailer" header field.
	HeaderXMailer Header = "X-Mailer"

	// HeaderXPriority is the "X-Priority" header field.
	HeaderXPriority Header = "X-Priority"
)

const (
	// PriorityHighest is X-Priority 1.
	PriorityHighest Priority = iota + 1

	// PriorityHigh is X-Priority 2.
	PriorityHigh

	// PriorityNormal is X-Priority 3 and the default for a new Msg.
	PriorityNormal

	// PriorityLow is X-Priority 4.
	PriorityLow

	// PriorityLowest is X-Priority 5.
	PriorityLowest
)

// upperSegments lists header name segments that are not title-cased but kept in their
// conventional spelling.
var upperSegments = map[string]string{
	"arc":    "ARC",
	"dkim":   "DKIM",
	"id":     "ID",
	"mime":   "MIME",
	"msmail": "MSMail",
	"spf":    "SPF",
}

// HeaderField is a single name/value pair of the Msg header store.
type HeaderField struct {
	Name  string
	Value string
}

// headerStore is an ordered list of header fields with case-insensitive lookup. Mail messages
// carry only a handful of headers, so a linear scan is all it takes.
type headerStore struct {
	fields []HeaderField
}

// String satisfies the fmt.Stringer interface for the Header type.
func (h Header) String() string {
	return string(h)
}

// String satisfies the fmt.Stringer interface for the Priority type and returns a human readable
// name of the priority level.
func (p Priority) String() string {
	switch p {
	case PriorityHighest:
		return "highest"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	case PriorityLowest:
		return "lowest"
	default:
		return "unknown"
	}
}

// XPrioString returns the value used for the X-Priority header.
func (p Priority) XPrioString() string {
	return strconv.Itoa(int(p))
}

// CanonicalHeaderName returns the spelling a header name is stored under when it is first set.
//
// Every hyphen-separated segment is title-cased, except for well-known acronyms which keep their
// conventional spelling, so "mime-version" becomes "MIME-Version" and "x-priority" becomes
// "X-Priority".
//
// Parameters:
//   - name: The header name as provided by the caller.
//
// Returns:
//   - The canonical header name.
func CanonicalHeaderName(name string) string {
	caser := cases.Title(language.Und)
	segments := strings.Split(strings.TrimSpace(name), "-")
	for i, segment := range segments {
		if upper, ok := upperSegments[strings.ToLower(segment)]; ok {
			segments[i] = upper
			continue
		}
		segments[i] = caser.String(segment)
	}
	return strings.Join(segments, "-")
}

func newHeaderStore() *headerStore {
	return &headerStore{
		fields: []HeaderField{{Name: HeaderMIMEVersion.String(), Value: "1.0"}},
	}
}

// index returns the position of the field matching name case-insensitively, or -1.
func (s *headerStore) index(name string) int {
	name = strings.TrimSpace(name)
	for i := range s.fields {
		if strings.EqualFold(s.fields[i].Name, name) {
			return i
		}
	}
	return -1
}

// set overwrites an existing field in place or appends a new one under its canonical name.
func (s *headerStore) set(name, value string) {
	if i := s.index(name); i >= 0 {
		s.fields[i].Value = value
		return
	}
	s.fields = append(s.fields, HeaderField{Name: CanonicalHeaderName(name), Value: value})
}

func (s *headerStore) get(name string) (string, bool) {
	if i := s.index(name); i >= 0 {
		return s.fields[i].Value, true
	}
	return "", false
}

func (s *headerStore) clone() *headerStore {
	fields := make([]HeaderField, len(s.fields))
	copy(fields, s.fields)
	return &headerStore{fields: fields}
}

// render serializes all fields as "<Name>: <Value>\r\n" in storage order.
func (s *headerStore) render() string {
	var sb strings.Builder
	for _, field := range s.fields {
		sb.WriteString(field.Name)
		sb.WriteString(": ")
		sb.WriteString(field.Value)
		sb.WriteString(SingleNewLine)
	}
	return sb.String()
}
