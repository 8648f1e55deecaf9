package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/proppilot/internal/conversation"
	"github.com/csheth/proppilot/internal/deck"
	"github.com/csheth/proppilot/internal/workspace"
)

func (m *model) updateChat(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "i", "enter":
		m.composer.Focus()
		return textinput.Blink
	case "ctrl+g":
		return m.startGeneration()
	case "ctrl+t":
		m.composer.Focus()
		m.insertTemplate()
		return textinput.Blink
	}
	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return cmd
}

func (m *model) updateComposer(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.submit()
		return nil
	case "esc":
		m.composer.Blur()
		return nil
	case "ctrl+g":
		return m.startGeneration()
	case "ctrl+t":
		m.insertTemplate()
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return cmd
}

// submit hands the composer text to the active engine. Blank input leaves
// both the composer and the history untouched.
func (m *model) submit() {
	h := m.active()
	if h == nil {
		return
	}
	_, err := h.engine.Submit(m.ctx, m.composer.Value())
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		return
	case err != nil:
		m.err = err.Error()
		m.logger.Warn("submit failed", zap.String("conversation", h.key), zap.Error(err))
		return
	}
	m.composer.Reset()
	m.err = ""
	m.refreshTranscript()
}

func (m *model) insertTemplate() {
	templates := deck.Templates()
	m.composer.SetValue(deck.QuickStart(templates[m.templateIdx%len(templates)]))
	m.composer.CursorEnd()
	m.templateIdx++
}

func (m *model) startGeneration() tea.Cmd {
	h := m.active()
	if h == nil {
		return nil
	}
	if m.generation != nil && !m.generation.Done() {
		return nil
	}
	m.generation = &deck.Generation{}
	m.generationKey = h.key
	m.err = ""
	m.info = "Generating proposal…"
	return m.jobs.Start(jobKindGenerate, generationTickJob(m.tick))
}

// advanceGeneration steps the build once per tick. On completion the deck is
// attached to the conversation that started it and the editor opens.
func (m *model) advanceGeneration() tea.Cmd {
	if m.generation == nil {
		return nil
	}
	if !m.generation.Step() {
		return m.jobs.Start(jobKindGenerate, generationTickJob(m.tick))
	}
	h, ok := m.conversations[m.generationKey]
	m.generation = nil
	m.generationKey = ""
	if !ok {
		return nil
	}
	h.slides = deck.Default()
	if m.nav.ProposalID() == "" {
		created := m.catalog.Create(h.project, "Unassigned")
		m.proposalKeys[created.ID] = h.key
		m.nav.SelectProposal(created.ID)
		m.refreshTable()
	}
	m.info = "Proposal generated."
	if m.activeKey != h.key {
		m.releaseDraft()
	}
	m.activate(h)
	_ = m.nav.SelectSlide(0)
	return m.navigate(workspace.Editor)
}

func (m *model) generationProgress() int {
	if m.generation == nil {
		return 0
	}
	return m.generation.Progress
}
