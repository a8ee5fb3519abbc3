// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

// Part is a text body of the Msg, rendered as one section of the multipart/alternative
// container.
type Part struct {
	ctype   ContentType
	enc     Encoding
	content string
}

// GetContent returns the unencoded content of the Part
func (p *Part) GetContent() string {
	return p.content
}

// GetContentType returns the currently set ContentType of the Part
func (p *Part) GetContentType() ContentType {
	return p.ctype
}

// GetEncoding returns the currently set Encoding of the Part
func (p *Part) GetEncoding() Encoding {
	return p.enc
}

// SetContent overrides the content of the Part with the given string
func (p *Part) SetContent(c string) {
	p.content = c
}

// SetEncoding overrides the transfer encoding of the Part
func (p *Part) SetEncoding(e Encoding) {
	p.enc = e
}
