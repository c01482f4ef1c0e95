// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color is the closed set of foreground colors the client renders with.
type Color int

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorPurple
	ColorCyan
	ColorWhite
	ColorMuted

	colorCount
)

var colorNames = [...]string{
	ColorDefault: "default",
	ColorBlack:   "black",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorPurple:  "purple",
	ColorCyan:    "cyan",
	ColorWhite:   "white",
	ColorMuted:   "muted",
}

// String returns the color name.
func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// Valid reports whether c is a member of the enumeration.
func (c Color) Valid() bool {
	return c >= ColorDefault && c < colorCount
}

// ParseColor resolves a color by name (case-insensitive).
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range colorNames {
		if n == name {
			return Color(c), nil
		}
	}
	return ColorDefault, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// Emphasis is the closed set of text styles.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisBold
	EmphasisItalic
	EmphasisUnderline
	EmphasisFaint

	emphasisCount
)

var emphasisNames = [...]string{
	EmphasisNone:      "none",
	EmphasisBold:      "bold",
	EmphasisItalic:    "italic",
	EmphasisUnderline: "underline",
	EmphasisFaint:     "faint",
}

// String returns the emphasis name.
func (e Emphasis) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Emphasis(%d)", int(e))
	}
	return emphasisNames[e]
}

// Valid reports whether e is a member of the enumeration.
func (e Emphasis) Valid() bool {
	return e >= EmphasisNone && e < emphasisCount
}

var (
	// ErrUnknownColor is returned when a Format is built from a value
	// outside the Color enumeration.
	ErrUnknownColor = errors.New("unknown color")

	// ErrUnknownEmphasis is returned for values outside the Emphasis enumeration.
	ErrUnknownEmphasis = errors.New("unknown emphasis")
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer binds formats to one output and its color profile.
// A Renderer with colors disabled produces plain text.
type Renderer struct {
	r *lipgloss.Renderer
}

// NewRenderer creates a renderer for w. When colors is false every Format
// built from it renders text unchanged.
func NewRenderer(w io.Writer, colors bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if colors {
		r.SetColorProfile(termenv.ColorProfile())
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{r: r}
}

// Format is a validated {color, emphasis} pair.
type Format struct {
	Color    Color
	Emphasis Emphasis
	style    lipgloss.Style
}

// New validates the pair and returns a Format ready to render.
func (r *Renderer) New(c Color, e Emphasis) (Format, error) {
	if !c.Valid() {
		return Format{}, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	if !e.Valid() {
		return Format{}, fmt.Errorf("%w: %d", ErrUnknownEmphasis, int(e))
	}

	style := r.r.NewStyle()
	if fg, ok := palette[c]; ok {
		style = style.Foreground(fg)
	}
	switch e {
	case EmphasisBold:
		style = style.Bold(true)
	case EmphasisItalic:
		style = style.Italic(true)
	case EmphasisUnderline:
		style = style.Underline(true)
	case EmphasisFaint:
		style = style.Faint(true)
	}

	return Format{Color: c, Emphasis: e, style: style}, nil
}

// Must is like New but panics on an invalid pair. Use it only with
// constant members.
func (r *Renderer) Must(c Color, e Emphasis) Format {
	f, err := r.New(c, e)
	if err != nil {
		panic(err)
	}
	return f
}

// Render returns text wrapped in the format's escape sequences. Lines are
// styled one at a time so multi-line text is never padded to a block.
func (f Format) Render(text string) string {
	if !strings.Contains(text, "\n") {
		return f.style.Render(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = f.style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
