// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the shared chrome of the legalease TUI.

# Components

Header (header.go) - Brand line with language and theme status, then the
view tabs.

Footer (footer.go) - Key hints for the active view and the service URL.

Toast (toast.go) - Transient error and info notices, e.g. "Audio failed:
quota exceeded". A toast expires through ToastExpiredMsg; a newer toast
replaces an older one.

# Theme Integration

All components take a *styles.Theme and re-render from it after a theme
toggle:

	theme := styles.NewTheme(true)
	header := components.NewHeader(theme)
	header.SetWidth(80)
	view := header.View()
*/
package components
