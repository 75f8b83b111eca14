// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

// buildPDF writes a minimal PDF with one text line per page.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	fontID := 3 + 2*len(pages)
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontID, 4+2*i))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestLoadText(t *testing.T) {
	in, err := Load("lease.txt", []byte("This agreement auto-renews\r\nunless cancelled."))
	require.NoError(t, err)

	text, ok := in.(*TextInput)
	require.True(t, ok)
	assert.Equal(t, KindText, in.Kind())
	assert.Equal(t, "lease.txt", in.Source())
	assert.Equal(t, "This agreement auto-renews\nunless cancelled.", text.Text)
}

func TestLoadTextNormalizesToNFC(t *testing.T) {
	// "é" as e + combining acute.
	in, err := Load("note.txt", []byte("Cafe\u0301 lease"))
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9 lease", in.(*TextInput).Text)
}

func TestLoadUTF16Text(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("किराया समझौता"))
	require.NoError(t, err)

	in, err := Load("hindi.txt", data)
	require.NoError(t, err)
	assert.Equal(t, "किराया समझौता", in.(*TextInput).Text)
}

func TestLoadTextualContentInTxtFile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"csv-shaped", "The tenant, hereafter Tenant, agrees to pay.\nThe landlord, hereafter Landlord, agrees to repair.\nThe agent, hereafter Agent, agrees to mediate.\n"},
		{"html-shaped", "<b>Notice</b> The deposit is not refundable.\n"},
		{"json-shaped", `{"note": "The lease ends on 1 May."}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "text/plain", DetectType("lease.txt", []byte(tt.body)))

			in, err := Load("lease.txt", []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.body), strings.TrimSpace(in.(*TextInput).Text))
		})
	}
}

func TestLoadTextFromStdinName(t *testing.T) {
	in, err := Load("stdin", []byte("a, b, c\nd, e, f\ng, h, i\n"))
	require.NoError(t, err)
	assert.Equal(t, KindText, in.Kind())
}

func TestLoadHTMLFileIsUnsupported(t *testing.T) {
	_, err := Load("page.html", []byte("<html><body><p>Terms</p></body></html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLoadImage(t *testing.T) {
	data := pngBytes(t)
	in, err := Load("photo.png", data)
	require.NoError(t, err)

	img, ok := in.(*ImageInput)
	require.True(t, ok)
	assert.Equal(t, KindImage, in.Kind())
	assert.Equal(t, "image/png", img.MediaType)
	assert.Equal(t, data, img.Data)
	assert.True(t, strings.HasPrefix(img.PreviewDataURL(), "data:image/png;base64,"))
}

func TestLoadPDF(t *testing.T) {
	in, err := Load("contract.pdf", buildPDF("First page", "Second page"))
	require.NoError(t, err)

	text := in.(*TextInput).Text
	first := strings.Index(text, "First page")
	second := strings.Index(text, "Second page")
	require.GreaterOrEqual(t, first, 0, text)
	require.Greater(t, second, first, text)
	assert.Contains(t, text[first:second], PageSeparator)
}

func TestLoadCorruptPDF(t *testing.T) {
	_, err := Load("broken.pdf", []byte("%PDF-1.4\nthis is not really a pdf"))
	assert.ErrorIs(t, err, ErrParsePDF)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"archive.zip", []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00rest-of-zip"), ErrUnsupportedType},
		{"empty.txt", nil, ErrEmptyFile},
		{"huge.txt", bytes.Repeat([]byte("a"), MaxFileSize+1), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Load(tt.name, tt.data)
			assert.Nil(t, in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.txt")
	require.NoError(t, os.WriteFile(path, []byte("Terms apply."), 0644))

	in, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "terms.txt", in.Source())

	_, err = LoadFile(filepath.Dir(path))
	assert.Error(t, err)
}

func TestVisitIsExhaustive(t *testing.T) {
	var seen []string
	onText := func(t *TextInput) error { seen = append(seen, "text:"+t.Text); return nil }
	onImage := func(i *ImageInput) error { seen = append(seen, "image:"+i.Label); return nil }

	require.NoError(t, Visit(FromText("hello"), onText, onImage))
	require.NoError(t, Visit(&ImageInput{Data: []byte{1}, Label: "a.jpg"}, onText, onImage))
	assert.ErrorIs(t, Visit(nil, onText, onImage), ErrUnknownInput)
	assert.Equal(t, []string{"text:hello", "image:a.jpg"}, seen)
}

func TestEmpty(t *testing.T) {
	assert.True(t, FromText("  \n").Empty())
	assert.False(t, FromText("x").Empty())
	assert.True(t, (&ImageInput{}).Empty())
	assert.Equal(t, PastedLabel, FromText("x").Source())
}
