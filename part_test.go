// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"strings"
	"testing"
)

func TestPart(t *testing.T) {
	m := newTestMsg(t)
	if len(m.GetParts()) != 0 {
		t.Fatalf("new Msg is not expected to have parts, got: %d", len(m.GetParts()))
	}
	m.SetHTMLMessage("<b>Hi</b>")
	m.SetPlainMessage("Hi")
	parts := m.GetParts()
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got: %d", len(parts))
	}
	tests := []struct {
		name    string
		part    *Part
		ctype   ContentType
		content string
	}{
		{"plain", parts[0], TypeTextPlain, "Hi"},
		{"html", parts[1], TypeTextHTML, "<b>Hi</b>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.part.GetContentType() != tt.ctype {
				t.Errorf("GetContentType() failed. Want: %s, got: %s", tt.ctype, tt.part.GetContentType())
			}
			if tt.part.GetContent() != tt.content {
				t.Errorf("GetContent() failed. Want: %s, got: %s", tt.content, tt.part.GetContent())
			}
			if tt.part.GetEncoding() != EncodingQP {
				t.Errorf("GetEncoding() failed. Want: %s, got: %s", EncodingQP, tt.part.GetEncoding())
			}
		})
	}
}

func TestPart_SetContentAndEncoding(t *testing.T) {
	m := newTestMsg(t)
	m.SetPlainMessage("Hi")
	part := m.GetParts()[0]
	part.SetContent("Hello")
	part.SetEncoding(EncodingB64)
	if body, _ := m.GetPlainMessage(); body != "Hello" {
		t.Errorf("SetContent() failed. Want: Hello, got: %s", body)
	}
	rendered := m.RenderPlainMessage()
	if !strings.Contains(rendered, "Content-Transfer-Encoding: base64\r\n\r\nSGVsbG8=\r\n") {
		t.Errorf("SetEncoding() failed, got: %q", rendered)
	}
}
