package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	FolderFg    tcell.Color
	FileFg      tcell.Color
	MutedFg     tcell.Color
	ErrorFg     tcell.Color
	SearchFg    tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	OverlayBg   tcell.Color
	OverlayFg   tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		FolderFg:    tcell.Color33,
		FileFg:      tcell.ColorDefault,
		MutedFg:     tcell.ColorLightSlateGray,
		ErrorFg:     tcell.Color196,
		SearchFg:    tcell.Color51,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		OverlayBg:   tcell.Color234,
		OverlayFg:   tcell.Color252,
	}
}
