package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ── Colour palette ───────────────────────────────────────────────────────────

var (
	colBackground = color.NRGBA{R: 15, G: 15, B: 20, A: 255}
	colSurface    = color.NRGBA{R: 26, G: 26, B: 36, A: 255}
	colDoneRow    = color.NRGBA{R: 20, G: 30, B: 25, A: 255}
	colAccent     = color.NRGBA{R: 99, G: 102, B: 241, A: 255}
	colMuted      = color.NRGBA{R: 100, G: 116, B: 139, A: 255}
)

// DarkTheme is the application theme.
type DarkTheme struct{}

var _ fyne.Theme = DarkTheme{}

// themeColors overrides the default dark palette. Placeholder and disabled
// text share the muted colour.
var themeColors = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:      colBackground,
	theme.ColorNameButton:          colSurface,
	theme.ColorNamePrimary:         colAccent,
	theme.ColorNameForeground:      color.White,
	theme.ColorNamePlaceHolder:     colMuted,
	theme.ColorNameDisabled:        colMuted,
	theme.ColorNameInputBackground: color.NRGBA{R: 35, G: 35, B: 50, A: 255},
	theme.ColorNameSeparator:       color.NRGBA{R: 50, G: 50, B: 65, A: 255},
}

func (DarkTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if c, ok := themeColors[n]; ok {
		return c
	}
	return theme.DefaultTheme().Color(n, v)
}

func (DarkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (DarkTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (DarkTheme) Size(n fyne.ThemeSizeName) float32 {
	switch n {
	case theme.SizeNamePadding:
		return 10
	case theme.SizeNameText:
		return 14
	case theme.SizeNameInlineIcon:
		return 20
	}
	return theme.DefaultTheme().Size(n)
}
