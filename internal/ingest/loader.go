// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// MaxFileSize bounds uploads. Larger files are rejected before parsing.
const MaxFileSize = 20 << 20

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file is too large")
	ErrEmptyFile       = errors.New("file is empty")
)

// plainExtensions name files that are read as plain text whenever their
// content is textual.
var plainExtensions = map[string]bool{"": true, ".txt": true, ".text": true, ".md": true}

// DetectType returns the media type of data without parameters. Textual
// content (anything mimetype derives from text/plain, such as CSV, HTML or
// JSON) in a plain-text file is reported as text/plain. When content
// sniffing is inconclusive the file extension of name decides.
func DetectType(name string, data []byte) string {
	detected := mimetype.Detect(data)
	ext := strings.ToLower(filepath.Ext(name))
	byExt := baseType(mime.TypeByExtension(ext))

	if isTextual(detected) && (plainExtensions[ext] || byExt == "text/plain") {
		return "text/plain"
	}
	mediaType := baseType(detected.String())
	if mediaType != "application/octet-stream" && mediaType != "" {
		return mediaType
	}
	if byExt != "" {
		return byExt
	}
	return mediaType
}

func isTextual(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func baseType(s string) string {
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	return strings.TrimSpace(strings.SplitN(s, ";", 2)[0])
}

// Load converts a file's contents to an Input.
func Load(name string, data []byte) (Input, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, name, len(data), MaxFileSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}

	label := filepath.Base(name)
	mediaType := DetectType(name, data)
	switch {
	case mediaType == "text/plain":
		text, err := decodeText(data)
		if err != nil {
			return nil, err
		}
		return &TextInput{Text: text, Label: label}, nil

	case mediaType == "application/pdf":
		text, err := ExtractPDF(data)
		if err != nil {
			return nil, err
		}
		return &TextInput{Text: normalizeText(text), Label: label}, nil

	case strings.HasPrefix(mediaType, "image/"):
		return &ImageInput{Data: data, MediaType: mediaType, Label: label}, nil
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, label, mediaType)
}

// LoadFile reads path and converts it with Load.
func LoadFile(path string) (Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(path, data)
}

// LoadReader reads at most MaxFileSize+1 bytes from r and converts them.
// name is used for the label and extension fallback.
func LoadReader(name string, r io.Reader) (Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	return Load(name, data)
}

// decodeText handles UTF-8 and BOM-marked UTF-16 text.
func decodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16 text: %w", err)
		}
		data = out
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	return normalizeText(string(data)), nil
}

// normalizeText converts to NFC and unifies line endings.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFC.String(s)
}
