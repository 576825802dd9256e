package tui

import "github.com/charmbracelet/lipgloss"

const (
	DefaultWidth   = 80
	HeaderHeight   = 3
	InputHeight    = 3
	InputBorder    = 2
	FooterHeight   = 2
	MinViewportRow = 3
)

var (
	PrimaryColor = lipgloss.Color("#4FC3F7")
	MineColor    = lipgloss.Color("#0288D1")
	OtherColor   = lipgloss.Color("#E0E0E0")
	MutedColor   = lipgloss.Color("#9E9E9E")
	ErrorColor   = lipgloss.Color("#EF4444")
	SuccessColor = lipgloss.Color("#10B981")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SenderStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	MineBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(MineColor).
			Padding(0, 1)

	OtherBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#212121")).
				Background(OtherColor).
				Padding(0, 1)

	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SuccessColor).
			Padding(0, 1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor)

	AttachmentStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	FocusedStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)
)
