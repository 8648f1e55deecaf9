package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/proppilot/internal/catalog"
	"github.com/csheth/proppilot/internal/deck"
	"github.com/csheth/proppilot/internal/workspace"
)

func (m *model) updateDashboard(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "/":
		m.focus = focusSearch
		m.search.Focus()
		return textinput.Blink
	case "f":
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		m.query.Status = statusCycle[m.statusIdx]
		m.refreshTable()
		return nil
	case "o":
		keys := catalog.SortKeys()
		m.sortIdx = (m.sortIdx + 1) % len(keys)
		m.query.Sort = keys[m.sortIdx]
		m.refreshTable()
		return nil
	case "enter":
		return m.openSelected()
	case "d":
		return m.duplicateSelected()
	case "w":
		return m.markSelected(catalog.StatusWon)
	case "u":
		m.focus = focusUpload
		m.upload.Focus()
		return textinput.Blink
	case "s":
		m.overlay = overlaySettings
		m.settingsCursor = 0
		return nil
	case "L":
		return m.logout()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.focus = focusTable
		return nil
	case "esc":
		m.search.Reset()
		m.search.Blur()
		m.focus = focusTable
		m.query.Text = ""
		m.refreshTable()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query.Text = m.search.Value()
	m.refreshTable()
	return cmd
}

func (m *model) updateUpload(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.upload.Value())
		m.upload.Reset()
		m.upload.Blur()
		m.focus = focusTable
		if path == "" {
			return nil
		}
		return m.acceptUpload(path)
	case "esc":
		m.upload.Reset()
		m.upload.Blur()
		m.focus = focusTable
		return nil
	}
	var cmd tea.Cmd
	m.upload, cmd = m.upload.Update(msg)
	return cmd
}

func (m *model) acceptUpload(path string) tea.Cmd {
	upload, err := m.acceptor.AcceptFile(path)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	if _, busy := m.running[jobKindAnalyze]; busy {
		m.err = "Still analyzing the previous upload."
		return nil
	}
	m.uploaded = &upload
	m.requirements = nil
	m.err = ""
	m.info = fmt.Sprintf("Analyzing %s (%.1f MB)…", upload.Name, upload.SizeMB())
	return m.jobs.Start(jobKindAnalyze, analyzeJob(m.analyzer, upload))
}

func (m *model) selected() (catalog.Summary, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return catalog.Summary{}, false
	}
	return m.rows[idx], true
}

func (m *model) openSelected() tea.Cmd {
	summary, ok := m.selected()
	if !ok {
		return nil
	}
	key, ok := m.proposalKeys[summary.ID]
	if !ok {
		key = summary.ID
		m.proposalKeys[summary.ID] = key
	}
	cmd := m.openConversation(key, summary.Title)
	if h := m.active(); h != nil && h.slides == nil {
		h.slides = deck.Default()
		m.nav.SetSlideCount(len(h.slides))
	}
	m.nav.SelectProposal(summary.ID)
	return tea.Batch(cmd, m.navigate(workspace.Editor))
}

func (m *model) duplicateSelected() tea.Cmd {
	summary, ok := m.selected()
	if !ok {
		return nil
	}
	copied, err := m.catalog.Duplicate(summary.ID)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	m.info = fmt.Sprintf("Duplicated as %q.", copied.Title)
	m.refreshTable()
	return nil
}

func (m *model) markSelected(status catalog.Status) tea.Cmd {
	summary, ok := m.selected()
	if !ok {
		return nil
	}
	if _, err := m.catalog.ChangeStatus(summary.ID, status); err != nil {
		m.err = err.Error()
		return nil
	}
	m.info = fmt.Sprintf("Marked %q as %s.", summary.Title, status)
	m.refreshTable()
	return nil
}

func (m *model) refreshTable() {
	m.rows = m.catalog.List(m.query)
	rows := make([]table.Row, 0, len(m.rows))
	for _, s := range m.rows {
		rows = append(rows, table.Row{
			s.Title,
			s.Client,
			string(s.Status),
			fmt.Sprintf("%d%%", s.Progress),
			orDash(s.DueDate),
			orDash(s.Value),
			s.LastModified,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	m.logger.Debug("catalog filtered",
		zap.String("text", m.query.Text),
		zap.String("status", string(m.query.Status)),
		zap.String("sort", string(m.query.Sort)),
		zap.Int("rows", len(rows)))
}

func orDash(value string) string {
	if value == "" {
		return "—"
	}
	return value
}

func statusFilterLabel(status catalog.Status) string {
	if status == "" {
		return "all"
	}
	return string(status)
}

func sortLabel(key catalog.SortKey) string {
	if key == "" {
		return string(catalog.SortRecent)
	}
	return string(key)
}
