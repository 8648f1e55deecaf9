package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/proppilot/internal/catalog"
	"github.com/csheth/proppilot/internal/deck"
	"github.com/csheth/proppilot/internal/proposal"
	"github.com/csheth/proppilot/internal/settings"
	"github.com/csheth/proppilot/internal/workspace"
)

func (m *model) View() string {
	switch m.stage {
	case stageLogin:
		return m.viewLogin()
	case stageWorkspace:
		return m.viewWorkspace()
	default:
		return ""
	}
}

func (m *model) viewLogin() string {
	parts := []string{
		heroTitleStyle.Render("PropPilot"),
		taglineStyle.Render(heroTagline),
		sectionHeaderStyle.Render("Sign in"),
		m.login.View(),
		helperStyle.Render("Enter: continue • Ctrl+C: quit"),
	}
	if m.err != "" {
		parts = append(parts, errorStyle.Render(m.err))
	}
	if m.info != "" {
		parts = append(parts, helperStyle.Render(m.info))
	}
	return joinNonEmpty(parts)
}

func (m *model) viewWorkspace() string {
	var body string
	switch m.overlay {
	case overlayHelp:
		body = m.helpView()
	case overlayValidation:
		body = m.validationView()
	case overlaySettings:
		body = m.settingsView()
	default:
		switch m.nav.View() {
		case workspace.Dashboard:
			body = m.dashboardView()
		case workspace.Chat:
			body = m.chatView()
		case workspace.Editor:
			body = m.editorView()
		}
	}
	return joinNonEmpty([]string{m.headerView(), body, m.messagesView(), m.statusBarView()})
}

func (m *model) headerView() string {
	tabs := make([]string, 0, 3)
	for i, v := range workspace.Views() {
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(v.String()[:1])+v.String()[1:])
		if v == m.nav.View() {
			tabs = append(tabs, activeTabStyle.Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}
	user := helperStyle.Render("Signed in as " + m.session.State().UserName)
	return lipgloss.JoinHorizontal(lipgloss.Top, heroTitleStyle.Render("PropPilot  "), strings.Join(tabs, " "), "  ", user)
}

func (m *model) dashboardView() string {
	counts := []string{fmt.Sprintf("Total %d", m.catalog.Len())}
	for _, status := range catalog.Statuses() {
		counts = append(counts, statusStyles[string(status)].Render(fmt.Sprintf("%s %d", status, m.catalog.Count(status))))
	}
	filters := helperStyle.Render(fmt.Sprintf("Status: %s • Sort: %s • %d shown",
		statusFilterLabel(m.query.Status), sortLabel(m.query.Sort), len(m.rows)))
	parts := []string{
		strings.Join(counts, "  "),
		lipgloss.JoinHorizontal(lipgloss.Top, m.search.View(), "  ", filters),
	}
	if len(m.rows) == 0 {
		parts = append(parts, helperStyle.Render("No proposals match your filters."))
	} else {
		parts = append(parts, m.table.View())
	}
	if m.upload.Focused() {
		parts = append(parts, joinNonEmpty([]string{sectionHeaderStyle.Render("Upload RFP"), m.upload.View()}))
	}
	if rfp := m.requirementsView(); rfp != "" {
		parts = append(parts, rfp)
	}
	return joinNonEmpty(parts)
}

func (m *model) requirementsView() string {
	if m.uploaded == nil {
		return ""
	}
	lines := []string{sectionHeaderStyle.Render(fmt.Sprintf("RFP %s • %s • %.1f MB", m.uploaded.Name, strings.ToUpper(string(m.uploaded.Kind)), m.uploaded.SizeMB()))}
	if _, busy := m.running[jobKindAnalyze]; busy {
		lines = append(lines, helperStyle.Render(m.spinner.View()+" Extracting requirements…"))
	}
	for _, req := range m.requirements {
		lines = append(lines, fmt.Sprintf(" • %s %s", wordwrap.String(req.Text, m.wrapWidth(20)), helperStyle.Render("("+req.Status+")")))
	}
	return strings.Join(lines, "\n")
}

func (m *model) chatView() string {
	parts := []string{m.transcript.View()}
	if m.generation != nil {
		parts = append(parts, helperStyle.Render(fmt.Sprintf("%s Building proposal… %d%%", m.spinner.View(), m.generationProgress())))
	}
	parts = append(parts, m.composer.View())
	if h := m.active(); h != nil && len(h.engine.History()) <= 1 {
		templates := make([]string, 0, 4)
		for _, t := range deck.Templates() {
			templates = append(templates, keyDescStyle.Render(t))
		}
		parts = append(parts, helperStyle.Render("Quick start (ctrl+t): ")+strings.Join(templates, helperStyle.Render(" · ")))
	}
	return joinNonEmpty(parts)
}

func (m *model) editorView() string {
	h := m.active()
	if h == nil {
		return helperStyle.Render("Select a proposal on the dashboard or start a new one with n.")
	}
	state := m.nav.Snapshot()
	title := sectionHeaderStyle.Render(h.engine.Document().Title)
	if state.SlideCount > 0 {
		title += helperStyle.Render(fmt.Sprintf("  slide %d/%d", state.Slide+1, state.SlideCount))
	}
	exportLine := helperStyle.Render(fmt.Sprintf("Export as %s (x to change, e to run)", m.exportFormat().Label()))
	if _, busy := m.running[jobKindExport]; busy {
		exportLine = helperStyle.Render(fmt.Sprintf("%s Exporting %s…", m.spinner.View(), m.exportFormat().Label()))
	}
	return joinNonEmpty([]string{
		title,
		m.buildSlideStrip(h.slides, state.Slide),
		m.document.View(),
		exportLine,
	})
}

func (m *model) validationView() string {
	h := m.active()
	if h == nil {
		return ""
	}
	report := proposal.Validate(h.engine.Document())
	lines := []string{sectionHeaderStyle.Render("Validation Report")}
	for _, f := range report.Findings {
		status := coverageStyles[string(f.Status)].Render(string(f.Status))
		lines = append(lines, fmt.Sprintf("%s  %s", status, f.Requirement.Text))
	}
	lines = append(lines, "", helperStyle.Render(fmt.Sprintf("%d of %d requirements addressed • esc to close",
		report.Count(proposal.Addressed), len(report.Findings))))
	return overlayBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) settingsView() string {
	current := m.prefs.Current()
	values := map[string]bool{
		"autoSave":           current.AutoSave,
		"emailNotifications": current.EmailNotifications,
		"pushNotifications":  current.PushNotifications,
		"twoFactorAuth":      current.TwoFactorAuth,
		"dataExport":         current.DataExport,
		"analytics":          current.Analytics,
	}
	lines := []string{sectionHeaderStyle.Render("Settings")}
	for idx, flag := range settings.Flags() {
		mark := "[ ]"
		if values[flag] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, flag)
		if idx == m.settingsCursor {
			line = currentLineStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Theme %s • Language %s • Timezone %s", current.Theme, current.Language, current.Timezone),
	)
	hint := "space: toggle • t/g/z: theme/language/timezone • s: save • esc: close"
	if m.prefs.HasChanges() {
		hint = "unsaved changes • " + hint
	}
	lines = append(lines, helperStyle.Render(hint))
	return overlayBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) messagesView() string {
	parts := []string{}
	if m.err != "" {
		parts = append(parts, errorStyle.Render(wordwrap.String(m.err, m.wrapWidth(0))))
	}
	if m.info != "" {
		parts = append(parts, successStyle.Render(m.info))
	}
	return strings.Join(parts, "\n")
}

func (m *model) statusBarView() string {
	state := m.nav.Snapshot()
	stats := []string{fmt.Sprintf("View %s", state.View)}
	if state.ProposalID != "" {
		if summary, err := m.catalog.Get(state.ProposalID); err == nil {
			stats = append(stats, previewText(summary.Title, 32))
		}
	}
	if h := m.active(); h != nil {
		stats = append(stats, fmt.Sprintf("Messages %d", len(h.engine.History())))
		if pending := h.engine.Pending(); pending > 0 {
			stats = append(stats, fmt.Sprintf("%s %d pending", m.spinner.View(), pending))
		}
	}
	stats = append(stats, m.jobStatusBadges()...)
	stats = append(stats, "? help")
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	kinds := make([]string, 0, len(m.running))
	for kind := range m.running {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	badges := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		badges = append(badges, fmt.Sprintf("%s running", kind))
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"1/2/3", "Dashboard, chat, editor"},
		{"tab", "Next view"},
		{"n", "New proposal"},
		{"/", "Search"},
		{"f", "Status filter"},
		{"o", "Sort order"},
		{"enter", "Open proposal"},
		{"d", "Duplicate"},
		{"w", "Mark won"},
		{"u", "Upload RFP"},
		{"s", "Settings"},
		{"L", "Log out"},
		{"ctrl+g", "Generate"},
		{"ctrl+t", "Quick start"},
		{"←/→", "Slides"},
		{"x", "Export format"},
		{"e", "Export"},
		{"v", "Validation"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := min(i+columns, len(hints))
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{sectionHeaderStyle.Render("Chat commands")}
	for _, trigger := range m.mutator.Triggers() {
		lines = append(lines, helperStyle.Render("• "+trigger))
	}
	lines = append(lines,
		helperStyle.Render("• press esc in the chat to leave the composer, then i to type again."),
		helperStyle.Render("• esc or ? closes this panel; ctrl+c or q quits."),
	)
	return joinNonEmpty([]string{m.keyLegendView(), strings.Join(lines, "\n")})
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
