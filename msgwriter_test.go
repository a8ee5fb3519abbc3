// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

// failWriter fails every write that would exceed failOn bytes
type failWriter struct {
	failOn int
	n      int
}

var errFailWriter = errors.New("intentional write failure")

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.failOn {
		return 0, errFailWriter
	}
	w.n += len(p)
	return len(p), nil
}

func TestMsgWriter_ParsesAsMIME(t *testing.T) {
	inlinePath := writeTestFile(t, "logo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"))
	attachPath := writeTestFile(t, "data.mctest", testBinaryContent)

	m := NewMsg(nil)
	m.SetFromFormat("Toni Tester", "toni@example.com")
	m.AddTo("tina@example.com")
	m.SetSubject("Grüße aus Berlin")
	m.SetPlainMessage("Hello wörld, this is a plain text body that is long enough to require " +
		"a soft line break in quoted-printable encoding.")
	m.SetHTMLMessage(`<p>Hello <img src="cid:logo"></p>`)
	m.SetInlineAttachment(inlinePath, "logo")
	m.AddAttachment(attachPath)

	data, err := m.RenderData()
	if err != nil {
		t.Fatalf("RenderData() failed: %s", err)
	}
	entity, err := message.Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("failed to parse rendered message: %s", err)
	}
	if entity.Header.Get("MIME-Version") != "1.0" {
		t.Errorf("unexpected MIME-Version: %s", entity.Header.Get("MIME-Version"))
	}
	mediaType, params, err := entity.Header.ContentType()
	if err != nil {
		t.Fatalf("failed to parse content type: %s", err)
	}
	if mediaType != "multipart/mixed" || params["boundary"] != m.MixedBoundary() {
		t.Errorf("unexpected outer content type: %s %v", mediaType, params)
	}
	subject, err := entity.Header.Text("Subject")
	if err != nil {
		t.Fatalf("failed to decode subject: %s", err)
	}
	if subject != "Grüße aus Berlin" {
		t.Errorf("subject did not survive encoding, got: %s", subject)
	}

	mixed := entity.MultipartReader()
	if mixed == nil {
		t.Fatal("rendered message is not a multipart message")
	}
	var parts []*message.Entity
	for {
		part, err := mixed.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("failed to read part: %s", err)
		}
		parts = append(parts, part)
		if part.MultipartReader() == nil {
			if _, err = io.ReadAll(part.Body); err != nil {
				t.Fatalf("failed to read part body: %s", err)
			}
		}
		if len(parts) == 1 {
			checkAlternativePart(t, part, m)
		}
		if len(parts) == 3 {
			checkAttachmentPart(t, part)
		}
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 mixed parts, got: %d", len(parts))
	}
	if parts[1].Header.Get("Content-ID") != "logo" {
		t.Errorf("inline part has unexpected Content-ID: %s", parts[1].Header.Get("Content-ID"))
	}
	disposition, dparams, err := parts[1].Header.ContentDisposition()
	if err != nil || disposition != "inline" || dparams["filename"] != "logo.png" {
		t.Errorf("inline part has unexpected disposition: %s %v %v", disposition, dparams, err)
	}
}

func checkAlternativePart(t *testing.T, part *message.Entity, m *Msg) {
	t.Helper()
	mediaType, params, err := part.Header.ContentType()
	if err != nil || mediaType != "multipart/alternative" || params["boundary"] != m.AltBoundary() {
		t.Fatalf("unexpected alternative content type: %s %v %v", mediaType, params, err)
	}
	alt := part.MultipartReader()
	want := []struct {
		mediaType string
		body      string
	}{
		{"text/plain", "Hello wörld, this is a plain text body that is long enough to require " +
			"a soft line break in quoted-printable encoding."},
		{"text/html", `<p>Hello <img src="cid:logo"></p>`},
	}
	for i, expected := range want {
		body, err := alt.NextPart()
		if err != nil {
			t.Fatalf("failed to read alternative part %d: %s", i, err)
		}
		bodyType, _, _ := body.Header.ContentType()
		if bodyType != expected.mediaType {
			t.Errorf("alternative part %d has unexpected type. Want: %s, got: %s", i, expected.mediaType,
				bodyType)
		}
		content, err := io.ReadAll(body.Body)
		if err != nil {
			t.Fatalf("failed to read alternative part %d: %s", i, err)
		}
		if strings.TrimRight(string(content), "\r\n") != expected.body {
			t.Errorf("alternative part %d has unexpected body. Want: %q, got: %q", i, expected.body, content)
		}
	}
	if _, err = alt.NextPart(); !errors.Is(err, io.EOF) {
		t.Errorf("expected exactly two alternative parts, got: %v", err)
	}
}

func checkAttachmentPart(t *testing.T, part *message.Entity) {
	t.Helper()
	disposition, params, err := part.Header.ContentDisposition()
	if err != nil || disposition != "attachment" || params["filename"] != "data.mctest" {
		t.Errorf("attachment part has unexpected disposition: %s %v %v", disposition, params, err)
	}
	mediaType, _, _ := part.Header.ContentType()
	if mediaType != TypeAppOctetStream.String() {
		t.Errorf("attachment part has unexpected type: %s", mediaType)
	}
}

func TestMsgWriter_AttachmentContentRoundTrip(t *testing.T) {
	content := bytes.Repeat(testBinaryContent, 50)
	path := writeTestFile(t, "roundtrip.mctest", content)
	m := newTestMsg(t)
	m.AddAttachment(path)
	data, err := m.RenderData()
	if err != nil {
		t.Fatalf("RenderData() failed: %s", err)
	}
	entity, err := message.Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("failed to parse rendered message: %s", err)
	}
	mixed := entity.MultipartReader()
	if _, err = mixed.NextPart(); err != nil {
		t.Fatalf("failed to read alternative part: %s", err)
	}
	attachment, err := mixed.NextPart()
	if err != nil {
		t.Fatalf("failed to read attachment part: %s", err)
	}
	decoded, err := io.ReadAll(attachment.Body)
	if err != nil {
		t.Fatalf("failed to decode attachment: %s", err)
	}
	if !bytes.Equal(decoded, content) {
		t.Error("decoded attachment differs from the original file content")
	}
}

func TestMsgWriter_LatchesFirstError(t *testing.T) {
	m := newTestMsg(t)
	m.SetFrom("foo@bar")
	m.SetPlainMessage("Hi")
	w := &failWriter{failOn: 10}
	mw := &msgWriter{w: w}
	mw.writeMsg(m)
	if !errors.Is(mw.err, errFailWriter) {
		t.Errorf("writeMsg() is expected to latch the writer error, got: %v", mw.err)
	}
	if mw.n != int64(w.n) {
		t.Errorf("msgWriter counted %d bytes, but %d were written", mw.n, w.n)
	}
	if _, err := mw.Write([]byte("more")); err == nil {
		t.Error("Write() after a failure is expected to return an error")
	}
	if _, err := m.writeTo(&failWriter{failOn: 0}); !errors.Is(err, errFailWriter) {
		t.Errorf("writeTo() is expected to return the writer error, got: %v", err)
	}
}

func TestMultipartType(t *testing.T) {
	if got := multipartType(MIMEMixed, "mixed-abc"); got != `multipart/mixed; boundary="mixed-abc"` {
		t.Errorf("multipartType() failed, got: %s", got)
	}
}
