// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTE
// =============================================================================

// Each Color member maps to one adaptive color so the output reads well on
// both light and dark terminals.

// Purple - assistant label, banners
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - prompt, user input, commands
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - replies, success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Blue - informational notes
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// TextPrimary - main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextMuted - hints, separators, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - black on light terminals, near-black on dark ones
var TextInverse = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#1E1E2E"}

// palette is indexed by Color. ColorDefault has no entry and renders
// without a foreground.
var palette = map[Color]lipgloss.TerminalColor{
	ColorBlack:  TextInverse,
	ColorRed:    Rose,
	ColorGreen:  Emerald,
	ColorYellow: Amber,
	ColorBlue:   Blue,
	ColorPurple: Purple,
	ColorCyan:   Cyan,
	ColorWhite:  TextPrimary,
	ColorMuted:  TextMuted,
}
