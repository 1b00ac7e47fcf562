// Package lineutil provides LINE message building utilities.
package lineutil

// Spacing values on a 4-point grid.
const (
	SpacingNone = "none"
	SpacingXS   = "4px"
	SpacingS    = "8px"
	SpacingM    = "12px"
	SpacingL    = "16px"
	SpacingXL   = "20px"
)

// Titans palette.
const (
	ColorWhite = "#FFFFFF"
	ColorBlack = "#000000"
	ColorText  = "#111111"

	// ColorGold is the save button color.
	ColorGold = "#FFC107"
	// ColorBrewery is used for brewery names under a beer title.
	ColorBrewery = "#8c8c8c"
	// ColorTimestamp is used for "Saved:" dates.
	ColorTimestamp = "#aaaaaa"
	// ColorSubtext is used for secondary lines such as style and ABV.
	ColorSubtext = "#666666"
	// ColorLink is used for link-styled buttons on light cards.
	ColorLink = "#1DB446"
	// ColorAlert is the red used on the Hage & Hige cards.
	ColorAlert = "#FF0000"
	// ColorSeparator is the divider color.
	ColorSeparator = "#DFDFDF"
)
