package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"pose-editor/internal/pose"
	"pose-editor/pkg/colorutil"
)

// PoseEditorTheme is a compact dark theme. It renders the dark variant
// regardless of the system setting.
type PoseEditorTheme struct{}

var _ fyne.Theme = (*PoseEditorTheme)(nil)

var (
	workspaceGray = colorutil.MustParseHex("#1E1F22")
	panelGray     = colorutil.MustParseHex("#2B2D31")
)

func (t *PoseEditorTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return workspaceGray
	case theme.ColorNameInputBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		return panelGray
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		// Accent matches the nose keypoint.
		return pose.ColorFor("nose")
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(pose.ColorFor("nose"), 0.35)
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (t *PoseEditorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *PoseEditorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *PoseEditorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameText:
		return 13
	}
	return theme.DefaultTheme().Size(name)
}
