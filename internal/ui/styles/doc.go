// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the legalease TUI.

All colors use Lip Gloss AdaptiveColor. The theme toggle does not rebuild
the palette; it tells Lip Gloss which background to resolve against, so
every adaptive color flips at the next render.

# Colors

  - Indigo - brand, headers, active tab
  - Cyan - key hints, user chat turns
  - Emerald / Amber - audio playing / generating
  - Rose - errors

Severity dots use the fixed red, yellow and green of the risk indicators
regardless of background.

# Usage

	theme := styles.NewTheme(styles.DetectDark(cfg.UI.Theme))
	title := theme.SectionTitle.Render("Summary")
	theme.Toggle()
*/
package styles
