// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/ui/styles"
	"github.com/jeranaias/legalease-tui/internal/util"
)

// Footer renders key hints on the left and status on the right, cutting
// hints that do not fit.
func Footer(theme *styles.Theme, width int, bindings []key.Binding, status string) string {
	right := theme.FooterDesc.Render(status)
	budget := width - lipgloss.Width(right) - 4

	var parts []string
	used := 0
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hint := theme.FooterKey.Render(h.Key) + " " + theme.FooterDesc.Render(h.Desc)
		w := lipgloss.Width(hint) + 2
		if budget > 0 && used+w > budget {
			break
		}
		parts = append(parts, hint)
		used += w
	}
	left := strings.Join(parts, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = theme.FooterDesc.Render(util.TruncateWidth(status, max(width-lipgloss.Width(left)-4, 0)))
		gap = 1
	}
	return theme.Footer.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
