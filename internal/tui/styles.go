package tui

import "github.com/charmbracelet/lipgloss"

var (
	heroAccentColor        = lipgloss.Color("#ff9e3d")
	heroSecondaryTextColor = lipgloss.Color("#f4d6b1")

	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	successStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))

	heroTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle     = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroAccentColor).Padding(0, 1)
	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	overlayBoxStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	currentLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	userLabelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	aiLabelStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	slideStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(0, 2)
	disabledStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var statusStyles = map[string]lipgloss.Style{
	"draft":     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	"in-review": lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	"sent":      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	"won":       lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	"lost":      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
}

var coverageStyles = map[string]lipgloss.Style{
	"Addressed":           successStyle,
	"Partially Addressed": lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	"Not Addressed":       errorStyle,
}
