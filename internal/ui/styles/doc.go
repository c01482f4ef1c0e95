// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the text formatting used by the terminal-gpt chat
client.

# Formats

A Format is a validated pair from two closed enumerations, Color and
Emphasis. Formats are built through a Renderer so that the color profile
is decided once per output:

	r := styles.NewRenderer(os.Stdout, styles.ColorsEnabled(os.Stdout, styles.ColorAuto))
	warn, err := r.New(styles.ColorYellow, styles.EmphasisBold)
	if err != nil {
		return err
	}
	fmt.Println(warn.Render("Please enter a prompt."))

Rendering is pure: the same Format and text always give the same string.
When colors are disabled (no TTY, NO_COLOR set) Render returns the text
unchanged.

# Colors (colors.go)

All colors are Lip Gloss AdaptiveColor values for automatic light/dark
terminal detection.

	Purple  - assistant label, banner
	Cyan    - prompt, user label, menu options
	Emerald - replies, success
	Amber   - warnings
	Rose    - errors

# Theme (theme.go)

Theme names the formats used by the session loop so callers never build
ad hoc styles.
*/
package styles
