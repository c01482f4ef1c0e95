// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

// Theme groups the formats the chat session renders with.
type Theme struct {
	Banner         Format
	Prompt         Format
	UserLabel      Format
	AssistantLabel Format
	Reply          Format
	Option         Format
	Warning        Format
	Error          Format
	Info           Format
	Success        Format
	Muted          Format
}

// NewTheme builds the session theme on r.
func NewTheme(r *Renderer) *Theme {
	return &Theme{
		Banner:         r.Must(ColorPurple, EmphasisBold),
		Prompt:         r.Must(ColorCyan, EmphasisBold),
		UserLabel:      r.Must(ColorCyan, EmphasisBold),
		AssistantLabel: r.Must(ColorPurple, EmphasisBold),
		Reply:          r.Must(ColorGreen, EmphasisNone),
		Option:         r.Must(ColorCyan, EmphasisNone),
		Warning:        r.Must(ColorYellow, EmphasisNone),
		Error:          r.Must(ColorRed, EmphasisBold),
		Info:           r.Must(ColorBlue, EmphasisNone),
		Success:        r.Must(ColorGreen, EmphasisBold),
		Muted:          r.Must(ColorMuted, EmphasisFaint),
	}
}
