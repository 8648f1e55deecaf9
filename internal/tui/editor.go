package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/proppilot/internal/export"
	"github.com/csheth/proppilot/internal/settings"
)

func (m *model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		m.nav.PrevSlide()
		return nil
	case "right", "l":
		m.nav.NextSlide()
		return nil
	case "x":
		m.formatIdx = (m.formatIdx + 1) % len(export.Formats())
		m.info = fmt.Sprintf("Export format: %s", m.exportFormat().Label())
		return nil
	case "e":
		return m.startExport()
	case "v":
		if m.active() != nil {
			m.overlay = overlayValidation
		}
		return nil
	}
	var cmd tea.Cmd
	m.document, cmd = m.document.Update(msg)
	return cmd
}

func (m *model) exportFormat() export.Format {
	return export.Formats()[m.formatIdx]
}

func (m *model) startExport() tea.Cmd {
	if _, busy := m.running[jobKindExport]; busy {
		return nil
	}
	format := m.exportFormat()
	m.err = ""
	m.info = fmt.Sprintf("Exporting %s…", format.Label())
	return m.jobs.Start(jobKindExport, exportJob(m.exporter, format))
}

func (m *model) updateOverlay(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch m.overlay {
	case overlayHelp:
		if key == "esc" || key == "?" || key == "q" {
			m.overlay = overlayNone
		}
	case overlayValidation:
		if key == "esc" || key == "v" || key == "q" {
			m.overlay = overlayNone
		}
	case overlaySettings:
		return m.updateSettings(key)
	}
	return nil
}

func (m *model) updateSettings(key string) tea.Cmd {
	flags := settings.Flags()
	switch key {
	case "esc", "q":
		m.overlay = overlayNone
	case "up", "k":
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case "down", "j":
		if m.settingsCursor < len(flags)-1 {
			m.settingsCursor++
		}
	case " ", "enter":
		if err := m.prefs.Toggle(flags[m.settingsCursor]); err != nil {
			m.err = err.Error()
		}
	case "t":
		m.prefs.Update(func(s *settings.Settings) { s.Theme = nextOf(settings.Themes, s.Theme) })
	case "g":
		m.prefs.Update(func(s *settings.Settings) { s.Language = nextOf(settings.Languages, s.Language) })
	case "z":
		m.prefs.Update(func(s *settings.Settings) { s.Timezone = nextOf(settings.Timezones, s.Timezone) })
	case "s":
		if err := m.prefs.Save(); err != nil {
			m.err = fmt.Sprintf("Settings not saved: %v", err)
			return nil
		}
		m.err = ""
		m.info = "Settings saved."
		m.renderer = m.newRenderer()
		m.refreshEditor()
	}
	return nil
}

func nextOf(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
