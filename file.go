// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// InlineAttachment is a file that is embedded into the Msg and referenced by its content ID,
// typically from the HTML body.
type InlineAttachment struct {
	ContentID string
	Path      string
}

// extensionTypes maps lower case file extensions to their content type. The table is fixed, so
// that the resolved type does not depend on the mime.types database of the host.
var extensionTypes = map[string]ContentType{
	".avif": "image/avif",
	".bmp":  "image/bmp",
	".css":  "text/css; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".eml":  "message/rfc822",
	".gif":  "image/gif",
	".gz":   "application/gzip",
	".htm":  "text/html; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".ics":  "text/calendar; charset=utf-8",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".odt":  "application/vnd.oasis.opendocument.text",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".txt":  "text/plain; charset=utf-8",
	".webp": "image/webp",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xml":  "text/xml; charset=utf-8",
	".zip":  "application/zip",
}

// ResolveContentType returns the best guess content type for the file at path.
//
// The type is looked up by file extension in a fixed table first. If the extension is unknown,
// the file content is sniffed. If neither yields a result, TypeAppOctetStream is returned. The
// result is the same on every host.
//
// Parameters:
//   - path: The filesystem path of the file.
//
// Returns:
//   - The resolved ContentType.
func ResolveContentType(path string) ContentType {
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil || mt == nil {
		return TypeAppOctetStream
	}
	return ContentType(mt.String())
}

// checkFile makes sure the file at path exists as regular file and, if maxSize is greater than 0,
// does not exceed maxSize bytes.
func checkFile(path string, inline bool, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return &FileError{Path: path, Inline: inline}
	}
	if maxSize > 0 && info.Size() > maxSize {
		return &FileError{Path: path, Inline: inline, Size: info.Size(), MaxSize: maxSize}
	}
	return nil
}

// writeFileBase64 copies the file at path base64-encoded into w, broken into lines of
// MaxBodyLength characters.
func writeFileBase64(w io.Writer, path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	lineBreaker := &Base64LineBreaker{out: w}
	encoder := base64.NewEncoder(base64.StdEncoding, lineBreaker)
	n, err := io.Copy(encoder, file)
	if err != nil {
		return n, fmt.Errorf("failed to copy file to io.Writer: %w", err)
	}
	if err = encoder.Close(); err != nil {
		return n, fmt.Errorf("failed to close base64 encoder: %w", err)
	}
	if err = lineBreaker.Close(); err != nil {
		return n, fmt.Errorf("failed to close line breaker: %w", err)
	}
	return n, nil
}
