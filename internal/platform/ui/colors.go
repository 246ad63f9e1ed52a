package ui

import "github.com/pterm/pterm"

// Palette
var (
	EmberOrange = pterm.NewRGB(255, 107, 53)
	InfernoRed  = pterm.NewRGB(215, 38, 56)
	MoltenGold  = pterm.NewRGB(255, 182, 39)
	AshGray     = pterm.NewRGB(120, 120, 120)
	GhostCyan   = pterm.NewRGB(0, 206, 209)
)

var (
	StylePrimary   = EmberOrange.ToRGBStyle()
	StyleSuccess   = GhostCyan.ToRGBStyle()
	StyleWarning   = MoltenGold.ToRGBStyle()
	StyleError     = InfernoRed.ToRGBStyle()
	StyleSecondary = AshGray.ToRGBStyle()
)
