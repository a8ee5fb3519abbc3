// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"time"

	"github.com/google/uuid"
	"jaytaylor.com/html2text"
)

// Msg is the mail message struct. It is a mutable builder for a single outgoing mail and
// renders into the exact payload of an SMTP DATA command.
//
// A Msg is not safe for concurrent use. It is owned by whoever composes it and handed read-only
// to its Transport for delivery.
type Msg struct {
	// attachments are the filesystem paths of the regular attachments, in order
	attachments []string

	// bcc holds the blind carbon copy recipients, never rendered into the headers
	bcc addrList

	// boundary is the MIME content boundary the mixed and alternative boundaries derive from
	boundary string

	// cc holds the carbon copy recipients
	cc addrList

	// encoding is the transfer encoding of the text bodies
	encoding Encoding

	// from is the sender address
	from *Address

	// header is the ordered, case-insensitive header store
	header *headerStore

	// html is the HTML body
	html *Part

	// inlines are the inline attachments, unique by content ID
	inlines []InlineAttachment

	// maxAttachmentSize is the maximum size of a single attachment file, 0 means unlimited
	maxAttachmentSize int64

	// plain is the plain text body
	plain *Part

	// priority is the X-Priority level of the Msg
	priority Priority

	// replyTo holds the Reply-To addresses
	replyTo addrList

	// subject is the Subject of the Msg, nil if not set
	subject *string

	// to holds the primary recipients
	to addrList

	// transport delivers the rendered Msg
	transport Transport
}

// MsgOption returns a function that can be used for grouping Msg options
type MsgOption func(*Msg)

// NewMsg returns a new Msg pointer bound to the given Transport.
//
// Unless a boundary is provided with WithBoundary, a random alphanumeric boundary of
// BoundaryLength characters is generated. The boundary stays fixed for the lifetime of the Msg.
//
// Parameters:
//   - transport: The Transport used by Msg.Send. May be nil if the Msg is only rendered.
//   - opts: Optional MsgOption functions to override the defaults.
//
// Returns:
//   - A pointer to the new Msg.
func NewMsg(transport Transport, opts ...MsgOption) *Msg {
	msg := &Msg{
		encoding:  EncodingQP,
		header:    newHeaderStore(),
		priority:  PriorityNormal,
		transport: transport,
	}

	// Override defaults with optionally provided MsgOption functions
	for _, option := range opts {
		if option == nil {
			continue
		}
		option(msg)
	}

	if msg.boundary == "" {
		msg.boundary = randomBoundary()
	}

	return msg
}

// WithBoundary overrides the generated MIME boundary
func WithBoundary(boundary string) MsgOption {
	return func(m *Msg) {
		m.boundary = boundary
	}
}

// WithEncoding overrides the default transfer encoding (quoted-printable) of the text bodies
func WithEncoding(encoding Encoding) MsgOption {
	return func(m *Msg) {
		m.encoding = encoding
	}
}

// WithMaxAttachmentSize limits the size of every attachment and inline attachment file. Rendering
// a Msg with a larger file fails with a FileError.
func WithMaxAttachmentSize(size int64) MsgOption {
	return func(m *Msg) {
		m.maxAttachmentSize = size
	}
}

// Boundary returns the MIME boundary of the Msg
func (m *Msg) Boundary() string {
	return m.boundary
}

// MixedBoundary returns the boundary of the outer multipart/mixed envelope
func (m *Msg) MixedBoundary() string {
	return "mixed-" + m.boundary
}

// AltBoundary returns the boundary of the multipart/alternative section
func (m *Msg) AltBoundary() string {
	return "alt-" + m.boundary
}

// Encoding returns the currently set transfer encoding of the text bodies
func (m *Msg) Encoding() string {
	return m.encoding.String()
}

// SetHeader sets a generic header field of the Msg.
//
// The name is matched case-insensitively against the existing header fields. A matching field is
// overwritten in place, otherwise a new field is appended under the canonical form of the name
// (see CanonicalHeaderName).
//
// Parameters:
//   - name: The header name.
//   - value: The header value.
func (m *Msg) SetHeader(name, value string) {
	m.header.set(name, value)
}

// GetHeader returns the value of the header field matching name case-insensitively. The boolean
// is false if no such header is set.
func (m *Msg) GetHeader(name string) (string, bool) {
	return m.header.get(name)
}

// GetHeaders returns a copy of all header fields in storage order
func (m *Msg) GetHeaders() []HeaderField {
	return m.header.clone().fields
}

// RenderHeaders returns all stored header fields as "<Name>: <Value>\r\n" lines
func (m *Msg) RenderHeaders() string {
	return m.header.render()
}

// SetFrom sets the sender address of the Msg without a display name
func (m *Msg) SetFrom(email string) {
	m.from = &Address{Email: email}
}

// SetFromFormat sets the sender address of the Msg with the given display name
func (m *Msg) SetFromFormat(name, email string) {
	m.from = &Address{Email: email, Name: name}
}

// GetFrom returns the sender Address. The boolean is false if no sender has been set.
func (m *Msg) GetFrom() (Address, bool) {
	if m.from == nil {
		return Address{}, false
	}
	return *m.from, true
}

// GetFromAddress returns the email of the sender or an empty string if no sender is set
func (m *Msg) GetFromAddress() string {
	if m.from == nil {
		return ""
	}
	return m.from.Email
}

// GetFromName returns the display name of the sender or an empty string
func (m *Msg) GetFromName() string {
	if m.from == nil {
		return ""
	}
	return m.from.Name
}

// AddTo adds a recipient to the To addresses. Adding an already present email updates its
// display name and keeps its position.
func (m *Msg) AddTo(email string) {
	m.to.upsert(email, "")
}

// AddToFormat adds a recipient with display name to the To addresses
func (m *Msg) AddToFormat(name, email string) {
	m.to.upsert(email, name)
}

// GetTo returns the To addresses in order
func (m *Msg) GetTo() []Address {
	return m.to.list()
}

// AddCc adds a recipient to the Cc addresses
func (m *Msg) AddCc(email string) {
	m.cc.upsert(email, "")
}

// AddCcFormat adds a recipient with display name to the Cc addresses
func (m *Msg) AddCcFormat(name, email string) {
	m.cc.upsert(email, name)
}

// GetCc returns the Cc addresses in order
func (m *Msg) GetCc() []Address {
	return m.cc.list()
}

// AddBcc adds a recipient to the Bcc addresses. Bcc addresses are handed to the Transport for
// delivery but never show up in the rendered message.
func (m *Msg) AddBcc(email string) {
	m.bcc.upsert(email, "")
}

// AddBccFormat adds a recipient with display name to the Bcc addresses
func (m *Msg) AddBccFormat(name, email string) {
	m.bcc.upsert(email, name)
}

// GetBcc returns the Bcc addresses in order
func (m *Msg) GetBcc() []Address {
	return m.bcc.list()
}

// AddReplyTo adds an address to the Reply-To addresses
func (m *Msg) AddReplyTo(email string) {
	m.replyTo.upsert(email, "")
}

// AddReplyToFormat adds an address with display name to the Reply-To addresses
func (m *Msg) AddReplyToFormat(name, email string) {
	m.replyTo.upsert(email, name)
}

// GetReplyTo returns the Reply-To addresses in order
func (m *Msg) GetReplyTo() []Address {
	return m.replyTo.list()
}

// GetRecipients returns the emails of the To and Cc addresses, in order and without duplicates.
//
// Bcc addresses are not part of this list. Use GetEnvelopeRecipients for the complete list of
// addresses a Transport has to deliver to.
func (m *Msg) GetRecipients() []string {
	return uniqueEmails(&m.to, &m.cc)
}

// GetEnvelopeRecipients returns the emails of the To, Cc and Bcc addresses, in order and without
// duplicates.
func (m *Msg) GetEnvelopeRecipients() []string {
	return uniqueEmails(&m.to, &m.cc, &m.bcc)
}

// SetSubject sets the subject of the Msg
func (m *Msg) SetSubject(subject string) {
	m.subject = &subject
}

// GetSubject returns the subject of the Msg. The boolean is false if no subject has been set.
func (m *Msg) GetSubject() (string, bool) {
	if m.subject == nil {
		return "", false
	}
	return *m.subject, true
}

// SetPriority sets the priority of the Msg and the X-Priority header field
func (m *Msg) SetPriority(priority Priority) {
	m.priority = priority
	m.SetHeader(HeaderXPriority.String(), priority.XPrioString())
}

// GetPriority returns the priority of the Msg, PriorityNormal unless set otherwise
func (m *Msg) GetPriority() Priority {
	return m.priority
}

// SetDate sets the Date header field to the current time in RFC 1123Z format
func (m *Msg) SetDate() {
	m.SetDateWithValue(time.Now())
}

// SetDateWithValue sets the Date header field to the provided time in RFC 1123Z format
func (m *Msg) SetDateWithValue(t time.Time) {
	m.SetHeader(HeaderDate.String(), t.Format(time.RFC1123Z))
}

// GetDate returns the value of the Date header field. The boolean is false if no date is set.
func (m *Msg) GetDate() (string, bool) {
	return m.GetHeader(HeaderDate.String())
}

// SetMessageID generates a random message id for the mail
func (m *Msg) SetMessageID() {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost.localdomain"
	}
	m.SetMessageIDWithValue(fmt.Sprintf("%s@%s", uuid.NewString(), hostname))
}

// SetMessageIDWithValue sets the message id for the mail
func (m *Msg) SetMessageIDWithValue(messageID string) {
	m.SetHeader(HeaderMessageID.String(), fmt.Sprintf("<%s>", messageID))
}

// GetMessageID returns the message ID of the Msg, if set. Otherwise it will return an empty string.
func (m *Msg) GetMessageID() string {
	messageID, _ := m.GetHeader(HeaderMessageID.String())
	return messageID
}

// SetUserAgent sets the User-Agent/X-Mailer header for the Msg
func (m *Msg) SetUserAgent(userAgent string) {
	m.SetHeader(HeaderUserAgent.String(), userAgent)
	m.SetHeader(HeaderXMailer.String(), userAgent)
}

// SetPlainMessage sets the plain text body of the Msg
func (m *Msg) SetPlainMessage(body string) {
	m.plain = m.newPart(TypeTextPlain, body)
}

// GetPlainMessage returns the plain text body. The boolean is false if no plain body is set.
func (m *Msg) GetPlainMessage() (string, bool) {
	if m.plain == nil {
		return "", false
	}
	return m.plain.content, true
}

// SetHTMLMessage sets the HTML body of the Msg
func (m *Msg) SetHTMLMessage(body string) {
	m.html = m.newPart(TypeTextHTML, body)
}

// GetHTMLMessage returns the HTML body. The boolean is false if no HTML body is set.
func (m *Msg) GetHTMLMessage() (string, bool) {
	if m.html == nil {
		return "", false
	}
	return m.html.content, true
}

// GetParts returns the text body parts of the Msg, the plain body first
func (m *Msg) GetParts() []*Part {
	parts := make([]*Part, 0, 2)
	if m.plain != nil {
		parts = append(parts, m.plain)
	}
	if m.html != nil {
		parts = append(parts, m.html)
	}
	return parts
}

// SetPlainFromHTML derives the plain text body from the currently set HTML body.
//
// Returns:
//   - ErrNoHTMLBody if no HTML body is set, or an error if the HTML could not be converted.
func (m *Msg) SetPlainFromHTML() error {
	if m.html == nil {
		return ErrNoHTMLBody
	}
	text, err := html2text.FromString(m.html.content, html2text.Options{PrettyTables: false})
	if err != nil {
		return fmt.Errorf("failed to convert HTML body to plain text: %w", err)
	}
	m.SetPlainMessage(text)
	return nil
}

// AddAttachment adds the file at path as attachment. The file is not accessed until the Msg is
// rendered. Adding the same path twice attaches the file twice.
func (m *Msg) AddAttachment(path string) {
	m.attachments = append(m.attachments, path)
}

// GetAttachments returns the paths of the attachments in order
func (m *Msg) GetAttachments() []string {
	attachments := make([]string, len(m.attachments))
	copy(attachments, m.attachments)
	return attachments
}

// SetInlineAttachment embeds the file at path under the given content ID. Setting an already
// used content ID replaces its path. The file is not accessed until the Msg is rendered.
func (m *Msg) SetInlineAttachment(path, contentID string) {
	for i := range m.inlines {
		if m.inlines[i].ContentID == contentID {
			m.inlines[i].Path = path
			return
		}
	}
	m.inlines = append(m.inlines, InlineAttachment{ContentID: contentID, Path: path})
}

// GetInlineAttachments returns the inline attachments in order
func (m *Msg) GetInlineAttachments() []InlineAttachment {
	inlines := make([]InlineAttachment, len(m.inlines))
	copy(inlines, m.inlines)
	return inlines
}

// Reset resets all headers, addresses, bodies and attachments of the Msg.
// It leaves the boundary, the encoding and the Transport as is.
func (m *Msg) Reset() {
	m.attachments = nil
	m.bcc = addrList{}
	m.cc = addrList{}
	m.from = nil
	m.header = newHeaderStore()
	m.html = nil
	m.inlines = nil
	m.plain = nil
	m.priority = PriorityNormal
	m.replyTo = addrList{}
	m.subject = nil
	m.to = addrList{}
}

// RenderPlainMessage returns the multipart/alternative section of the plain text body or an
// empty string if no plain body is set
func (m *Msg) RenderPlainMessage() string {
	if m.plain == nil {
		return ""
	}
	buf := bytes.Buffer{}
	mw := &msgWriter{w: &buf}
	mw.writePart(m.plain, m.AltBoundary())
	return buf.String()
}

// RenderHTMLMessage returns the multipart/alternative section of the HTML body or an empty string
// if no HTML body is set
func (m *Msg) RenderHTMLMessage() string {
	if m.html == nil {
		return ""
	}
	buf := bytes.Buffer{}
	mw := &msgWriter{w: &buf}
	mw.writePart(m.html, m.AltBoundary())
	return buf.String()
}

// RenderInlineAttachments returns the multipart/mixed parts of all inline attachments.
//
// Returns:
//   - The rendered parts.
//   - A FileError if an inline attachment file does not exist, in which case no output is returned.
func (m *Msg) RenderInlineAttachments() (string, error) {
	buf := bytes.Buffer{}
	mw := &msgWriter{w: &buf, maxSize: m.maxAttachmentSize}
	mw.writeInlineFiles(m.inlines, m.MixedBoundary())
	if mw.err != nil {
		return "", mw.err
	}
	return buf.String(), nil
}

// RenderAttachments returns the multipart/mixed parts of all regular attachments.
//
// Returns:
//   - The rendered parts.
//   - A FileError if an attachment file does not exist, in which case no output is returned.
func (m *Msg) RenderAttachments() (string, error) {
	buf := bytes.Buffer{}
	mw := &msgWriter{w: &buf, maxSize: m.maxAttachmentSize}
	mw.writeAttachments(m.attachments, m.MixedBoundary())
	if mw.err != nil {
		return "", mw.err
	}
	return buf.String(), nil
}

// RenderData renders the complete Msg as the payload of an SMTP DATA command.
//
// Returns:
//   - The rendered message.
//   - An error if the Msg could not be rendered, e.g. a FileError for a missing attachment. No
//     partial output is returned in that case.
func (m *Msg) RenderData() (string, error) {
	buf := bytes.Buffer{}
	if _, err := m.writeTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// String satisfies the fmt.Stringer interface and returns the same payload as RenderData. If the
// Msg cannot be rendered, an empty string is returned.
func (m *Msg) String() string {
	data, err := m.RenderData()
	if err != nil {
		return ""
	}
	return data
}

// WriteTo renders the Msg and writes it into the given io.Writer and satisfies the io.WriterTo
// interface. The Msg is rendered completely before anything is written to w.
func (m *Msg) WriteTo(w io.Writer) (int64, error) {
	buf := bytes.Buffer{}
	if _, err := m.writeTo(&buf); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// WriteToFile stores the rendered Msg as file on the local filesystem
func (m *Msg) WriteToFile(name string) error {
	data, err := m.RenderData()
	if err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}
	if err = os.WriteFile(name, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write to output file: %w", err)
	}
	return nil
}

// Send renders the Msg and hands it to its Transport for delivery to all envelope recipients,
// including the Bcc addresses.
//
// Parameters:
//   - ctx: The context.Context that is passed on to the Transport.
//
// Returns:
//   - ErrNoTransport, ErrNoFromAddress or ErrNoRcptAddresses if the Msg cannot be sent, a render
//     error, or the error returned by the Transport.
func (m *Msg) Send(ctx context.Context) error {
	if m.transport == nil {
		return ErrNoTransport
	}
	if m.from == nil {
		return ErrNoFromAddress
	}
	rcpts := m.GetEnvelopeRecipients()
	if len(rcpts) == 0 {
		return ErrNoRcptAddresses
	}
	buf := bytes.Buffer{}
	if _, err := m.writeTo(&buf); err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}
	return m.transport.Send(ctx, m.from.Email, rcpts, &buf)
}

// writeTo renders the Msg into w using a msgWriter
func (m *Msg) writeTo(w io.Writer) (int64, error) {
	mw := &msgWriter{w: w, maxSize: m.maxAttachmentSize}
	mw.writeMsg(m)
	return mw.n, mw.err
}

// composeHeaders returns a copy of the header store with the address, subject and content type
// header fields added. Bcc is never added.
func (m *Msg) composeHeaders() *headerStore {
	header := m.header.clone()
	if m.from != nil {
		header.set(HeaderFrom.String(), m.from.String())
	}
	header.set(HeaderTo.String(), FormatAddressList(m.to.addrs))
	if !m.cc.empty() {
		header.set(HeaderCc.String(), FormatAddressList(m.cc.addrs))
	}
	if !m.replyTo.empty() {
		header.set(HeaderReplyTo.String(), FormatAddressList(m.replyTo.addrs))
	}
	if m.subject != nil {
		header.set(HeaderSubject.String(), mime.QEncoding.Encode(CharsetUTF8.String(), *m.subject))
	}
	header.set(HeaderContentType.String(), multipartType(MIMEMixed, m.MixedBoundary()))
	return header
}

// validateFiles checks all inline attachments and attachments before anything is rendered
func (m *Msg) validateFiles() error {
	for _, inline := range m.inlines {
		if err := checkFile(inline.Path, true, m.maxAttachmentSize); err != nil {
			return err
		}
	}
	for _, path := range m.attachments {
		if err := checkFile(path, false, m.maxAttachmentSize); err != nil {
			return err
		}
	}
	return nil
}

// newPart returns a new text body Part with the encoding of the Msg
func (m *Msg) newPart(ct ContentType, content string) *Part {
	return &Part{
		ctype:   ct,
		enc:     m.encoding,
		content: content,
	}
}
