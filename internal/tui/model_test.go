package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/proppilot/internal/catalog"
	"github.com/csheth/proppilot/internal/conversation"
	"github.com/csheth/proppilot/internal/export"
	"github.com/csheth/proppilot/internal/proposal"
	"github.com/csheth/proppilot/internal/workspace"
)

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestNewWithoutSessionStartsAtLogin(t *testing.T) {
	m := newTestModel(t)
	if m.stage != stageLogin {
		t.Fatalf("expected login stage, got %v", m.stage)
	}
	if !m.login.Focused() {
		t.Fatal("login input should be focused")
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Fatal("login view should ask the user to sign in")
	}
}

func TestLoginRejectsBlankName(t *testing.T) {
	m := newTestModel(t)
	m.login.SetValue("   ")

	press(m, "enter")

	if m.stage != stageLogin {
		t.Fatalf("blank name should keep the login stage, got %v", m.stage)
	}
	if m.err == "" {
		t.Fatal("expected an error message for a blank name")
	}
	if m.session.Authenticated() {
		t.Fatal("session should stay signed out")
	}
}

func TestLoginEntersWorkspaceWithGreeting(t *testing.T) {
	m := newTestModel(t)
	m.login.SetValue("  Ada  ")

	press(m, "enter")

	require.Equal(t, stageWorkspace, m.stage)
	require.Equal(t, "Ada", m.session.State().UserName)
	h := m.active()
	require.NotNil(t, h)
	history := h.engine.History()
	require.Len(t, history, 1)
	assert.Equal(t, conversation.Greeting("New Proposal"), history[0].Text)
	assert.Equal(t, workspace.Dashboard, m.nav.View())
}

func TestChatSubmitAppendsUserMessageThenReply(t *testing.T) {
	m := newWorkspaceModel(t)
	press(m, "2")
	require.Equal(t, workspace.Chat, m.nav.View())
	require.True(t, m.composer.Focused())

	m.composer.SetValue("make executive summary shorter")
	press(m, "enter")

	h := m.active()
	history := h.engine.History()
	require.GreaterOrEqual(t, len(history), 2)
	assert.Equal(t, conversation.SenderUser, history[1].Sender)
	assert.Empty(t, m.composer.Value())

	require.Eventually(t, func() bool { return len(h.engine.History()) == 3 }, time.Second, 5*time.Millisecond)
	section, ok := h.engine.Document().Section(proposal.SectionExecutiveSummary)
	require.True(t, ok)
	assert.Len(t, section.Paragraphs, 1)
}

func TestChatIgnoresBlankSubmit(t *testing.T) {
	m := newWorkspaceModel(t)
	press(m, "2")
	m.composer.SetValue("   ")

	press(m, "enter")

	assert.Len(t, m.active().engine.History(), 1)
	assert.Equal(t, "   ", m.composer.Value())
	assert.Empty(t, m.err)
}

func TestReplyMessageRefreshesAndRearms(t *testing.T) {
	m := newWorkspaceModel(t)
	h := m.active()

	cmd := m.handleReply(replyMsg{key: h.key, ok: true})
	require.NotNil(t, cmd, "a live conversation keeps waiting for replies")

	assert.Nil(t, m.handleReply(replyMsg{key: h.key, ok: false}))
	assert.Nil(t, m.handleReply(replyMsg{key: "unknown", ok: true}))
}

func TestQuickStartTemplateFillsComposer(t *testing.T) {
	m := newWorkspaceModel(t)
	press(m, "2")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	assert.Equal(t, "I'd like to create a Software Development proposal.", m.composer.Value())
}

func TestDashboardStatusFilterCycles(t *testing.T) {
	m := newWorkspaceModel(t)

	press(m, "f", "f", "f", "f")

	require.Equal(t, catalog.StatusWon, m.query.Status)
	require.Len(t, m.rows, m.catalog.Count(catalog.StatusWon))
	for _, row := range m.rows {
		assert.Equal(t, catalog.StatusWon, row.Status)
	}

	press(m, "f", "f")
	assert.Equal(t, catalog.Status(""), m.query.Status, "the cycle wraps back to all")
	assert.Len(t, m.rows, m.catalog.Len())
}

func TestDashboardSortCyclesToClient(t *testing.T) {
	m := newWorkspaceModel(t)

	press(m, "o", "o")

	require.Equal(t, catalog.SortClient, m.query.Sort)
	clients := make([]string, 0, len(m.rows))
	for _, row := range m.rows {
		clients = append(clients, row.Client)
	}
	assert.Equal(t, []string{"Enterprise Solutions", "FinTech Startup", "Local Business", "StartupXYZ", "TechCorp Inc."}, clients)
}

func TestSearchFiltersAsYouType(t *testing.T) {
	m := newWorkspaceModel(t)

	press(m, "/", "cloud")

	require.True(t, m.search.Focused())
	require.Len(t, m.rows, 1)
	assert.Equal(t, "Cloud Migration Services", m.rows[0].Title)

	press(m, "esc")
	assert.False(t, m.search.Focused())
	assert.Len(t, m.rows, m.catalog.Len())
}

func TestOpenSelectedShowsEditorWithSlides(t *testing.T) {
	m := newWorkspaceModel(t)
	first := m.rows[0]

	press(m, "enter")

	require.Equal(t, workspace.Editor, m.nav.View())
	require.Equal(t, first.ID, m.nav.ProposalID())
	h := m.active()
	require.Equal(t, first.ID, h.key)
	require.Len(t, h.slides, 8)
	assert.Equal(t, conversation.Greeting(first.Title), h.engine.History()[0].Text)

	press(m, "left")
	assert.Equal(t, 0, m.nav.Slide())
	for i := 0; i < 12; i++ {
		press(m, "right")
	}
	assert.Equal(t, 7, m.nav.Slide(), "slide index clamps at the last slide")
	assert.Contains(t, m.View(), "slide 8/8")
}

func TestDuplicateAndMarkWon(t *testing.T) {
	m := newWorkspaceModel(t)
	first := m.rows[0]

	press(m, "d")
	require.Equal(t, 6, m.catalog.Len())
	assert.Equal(t, first.Title+" (Copy)", m.rows[0].Title)

	press(m, "w")
	copied, err := m.catalog.Get(m.rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusWon, copied.Status)
}

func TestGenerationCompletesIntoEditor(t *testing.T) {
	m := newWorkspaceModel(t)
	press(m, "n")
	require.Equal(t, workspace.Chat, m.nav.View())
	require.NotNil(t, m.startGeneration())
	require.Nil(t, m.startGeneration(), "a running generation is not restarted")

	for i := 0; i < 9; i++ {
		_, cmd := m.Update(jobResultEnvelope{Payload: generationTickMsg{}})
		require.NotNil(t, cmd, "tick %d should schedule another", i)
	}
	require.Equal(t, 90, m.generationProgress())
	_, _ = m.Update(jobResultEnvelope{Payload: generationTickMsg{}})

	assert.Nil(t, m.generation)
	assert.Equal(t, workspace.Editor, m.nav.View())
	assert.Len(t, m.active().slides, 8)
	assert.Equal(t, 6, m.catalog.Len(), "a generated draft joins the catalog")
	assert.NotEmpty(t, m.nav.ProposalID())
	assert.Equal(t, "Proposal generated.", m.info)
}

func TestNewProposalReleasesAbandonedDraft(t *testing.T) {
	m := newWorkspaceModel(t)
	first := m.active()

	for i := 0; i < 5; i++ {
		press(m, "n", "esc")
	}

	assert.Len(t, m.conversations, 1)
	assert.Equal(t, "draft-6", m.activeKey)
	_, err := first.engine.Submit(m.ctx, "hello")
	assert.ErrorIs(t, err, conversation.ErrClosed)
	_, open := <-first.events
	assert.False(t, open, "released draft subscription is closed")
}

func TestOpeningProposalReleasesDraft(t *testing.T) {
	m := newWorkspaceModel(t)
	draft := m.activeKey

	press(m, "enter")

	assert.Len(t, m.conversations, 1)
	assert.NotContains(t, m.conversations, draft)
}

func TestGeneratedDraftSurvivesNewProposal(t *testing.T) {
	m := newWorkspaceModel(t)
	generated := m.activeKey
	require.NotNil(t, m.startGeneration())
	for i := 0; i < 10; i++ {
		_, _ = m.Update(jobResultEnvelope{Payload: generationTickMsg{}})
	}
	require.Equal(t, workspace.Editor, m.nav.View())

	press(m, "n")

	assert.Len(t, m.conversations, 2)
	assert.Contains(t, m.conversations, generated)
}

func TestGenerationFinishingElsewhereReleasesNewerDraft(t *testing.T) {
	m := newWorkspaceModel(t)
	generating := m.activeKey
	require.NotNil(t, m.startGeneration())
	press(m, "n", "esc")
	newer := m.activeKey
	require.NotEqual(t, generating, newer)

	for i := 0; i < 10; i++ {
		_, _ = m.Update(jobResultEnvelope{Payload: generationTickMsg{}})
	}

	assert.Equal(t, generating, m.activeKey)
	assert.NotContains(t, m.conversations, newer)
	assert.Len(t, m.conversations, 1)
}

func TestExportResultIsReported(t *testing.T) {
	m := newWorkspaceModel(t)
	press(m, "3", "x")
	require.Equal(t, export.FormatPPTX, m.exportFormat())

	msgs := drain(t, m.startExport())
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		_, _ = m.Update(msg)
	}

	assert.Equal(t, "PPTX export completed! (This is a demo - no actual file was generated)", m.info)
	assert.Empty(t, m.running)
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	m := newWorkspaceModel(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	press(m, "u", path)
	cmd := press(m, "enter")

	assert.Nil(t, cmd)
	assert.Equal(t, "File upload error. Reasons: Invalid file type (only PDF, DOCX).", m.err)
	assert.Nil(t, m.uploaded)
}

func TestSettingsToggleAndSave(t *testing.T) {
	m := newWorkspaceModel(t)
	before := m.prefs.Current().Analytics

	press(m, "s")
	require.Equal(t, overlaySettings, m.overlay)
	press(m, "space")
	require.True(t, m.prefs.HasChanges())
	assert.Equal(t, !before, m.prefs.Current().Analytics)

	press(m, "t", "s")
	assert.False(t, m.prefs.HasChanges())
	assert.Equal(t, "Settings saved.", m.info)
	assert.Equal(t, "light", m.prefs.Current().Theme)

	press(m, "esc")
	assert.Equal(t, overlayNone, m.overlay)
}

func TestValidationOverlayInEditor(t *testing.T) {
	m := newWorkspaceModel(t)
	press(m, "3", "v")

	require.Equal(t, overlayValidation, m.overlay)
	view := m.View()
	assert.Contains(t, view, "Validation Report")
	assert.Contains(t, view, "Budget breakdown required")

	press(m, "esc")
	assert.Equal(t, overlayNone, m.overlay)
}

func TestHelpToggleAndTabCycling(t *testing.T) {
	m := newWorkspaceModel(t)

	press(m, "?")
	require.Equal(t, overlayHelp, m.overlay)
	assert.Contains(t, m.View(), "make executive summary shorter")
	press(m, "esc")
	require.Equal(t, overlayNone, m.overlay)

	press(m, "tab")
	assert.Equal(t, workspace.Chat, m.nav.View())
	press(m, "tab")
	assert.Equal(t, workspace.Editor, m.nav.View())
	press(m, "tab")
	assert.Equal(t, workspace.Dashboard, m.nav.View())
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m := newWorkspaceModel(t)
	h := m.active()

	press(m, "L")

	assert.Equal(t, stageLogin, m.stage)
	assert.False(t, m.session.Authenticated())
	assert.Empty(t, m.conversations)
	_, err := h.engine.Submit(m.ctx, "hello")
	assert.ErrorIs(t, err, conversation.ErrClosed)
}

func TestCtrlCQuits(t *testing.T) {
	m := newWorkspaceModel(t)

	cmd := press(m, "ctrl+c")

	require.NotNil(t, cmd)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	assert.Error(t, m.jobs.ctx.Err())
	assert.Error(t, m.ctx.Err())
}

func TestStoppedJobsLeaveChatReplying(t *testing.T) {
	m := newWorkspaceModel(t)
	m.jobs.Stop()
	press(m, "2")

	m.composer.SetValue("hello")
	press(m, "enter")

	h := m.active()
	require.Eventually(t, func() bool { return len(h.engine.History()) == 3 }, time.Second, 5*time.Millisecond)
}
