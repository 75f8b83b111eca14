// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrParsePDF is returned when a PDF cannot be read.
var ErrParsePDF = errors.New("could not read PDF")

// PageSeparator joins the text of consecutive pages.
const PageSeparator = "\n\n"

// ExtractPDF returns the text of every page in order, joined by
// PageSeparator. Pages without text contribute an empty string.
func ExtractPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrParsePDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParsePDF, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrParsePDF, i, err)
		}
		pages = append(pages, strings.TrimSpace(content))
	}
	return strings.Join(pages, PageSeparator), nil
}
