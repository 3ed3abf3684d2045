// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	// ColorPrimary is purple, used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorVerbose   = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for section titles (target names, "Current Configuration").
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PluginStyle is for plugin names.
	PluginStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for hook events and other supplementary detail.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// relationStyles colors a dependency relation by how strongly it constrains order.
	relationStyles = map[string]lipgloss.Style{
		"before":   lipgloss.NewStyle().Foreground(ColorSuccess),
		"after":    lipgloss.NewStyle().Foreground(ColorWarning),
		"optional": lipgloss.NewStyle().Foreground(ColorMuted),
		"excluded": lipgloss.NewStyle().Foreground(ColorError).Strikethrough(true),
	}
)
