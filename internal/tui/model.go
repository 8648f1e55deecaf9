package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/csheth/proppilot/internal/auth"
	"github.com/csheth/proppilot/internal/catalog"
	"github.com/csheth/proppilot/internal/conversation"
	"github.com/csheth/proppilot/internal/deck"
	"github.com/csheth/proppilot/internal/export"
	"github.com/csheth/proppilot/internal/intake"
	"github.com/csheth/proppilot/internal/proposal"
	"github.com/csheth/proppilot/internal/settings"
	"github.com/csheth/proppilot/internal/storage"
	"github.com/csheth/proppilot/internal/workspace"
)

// Config wires the TUI to its state holders. Nil holders are replaced with
// in-memory ones. Zero delays use each package's default; negative delays
// make the simulated work immediate.
type Config struct {
	Session  *auth.Session
	Settings *settings.Store
	Catalog  *catalog.Catalog
	Logger   *zap.Logger

	ResponseDelay  time.Duration
	ExportDelay    time.Duration
	AnalyzeDelay   time.Duration
	GenerationTick time.Duration
	MaxUploadBytes int64
}

// conversationHandle is one proposal's chat engine and its subscription.
type conversationHandle struct {
	key     string
	project string
	engine  *conversation.Engine
	events  <-chan conversation.Event
	cancel  func()
	slides  []deck.Slide
}

type model struct {
	config  Config
	logger  *zap.Logger
	session *auth.Session
	prefs   *settings.Store
	catalog *catalog.Catalog

	stage   stage
	overlay overlay
	focus   dashboardFocus

	nav      *workspace.Controller
	mutator  *proposal.Mutator
	acceptor *intake.Acceptor
	analyzer *intake.Analyzer
	exporter *export.Exporter
	jobs     *jobBus
	running  map[jobKind]jobSnapshot
	tick     time.Duration

	// ctx scopes chat submissions to the lifetime of the program.
	ctx  context.Context
	stop context.CancelFunc

	login    textinput.Model
	search   textinput.Model
	upload   textinput.Model
	composer textinput.Model

	table      table.Model
	transcript viewport.Model
	document   viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer
	layout     pageLayout

	query     catalog.Query
	rows      []catalog.Summary
	statusIdx int
	sortIdx   int

	conversations map[string]*conversationHandle
	proposalKeys  map[string]string
	activeKey     string
	draftSeq      int

	generation    *deck.Generation
	generationKey string
	templateIdx   int

	formatIdx      int
	uploaded       *intake.Upload
	requirements   []intake.Requirement
	settingsCursor int

	info string
	err  string
}

// New builds the root bubbletea model.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("tui")

	session := config.Session
	if session == nil {
		var err error
		session, err = auth.NewSession(storage.NewMemoryStore(), logger)
		if err != nil {
			logger.Error("in-memory session", zap.Error(err))
		}
	}
	prefs := config.Settings
	if prefs == nil {
		var err error
		prefs, err = settings.Load(storage.NewMemoryStore(), logger)
		if err != nil {
			logger.Error("in-memory settings", zap.Error(err))
		}
	}
	cat := config.Catalog
	if cat == nil {
		cat = catalog.New(catalog.Seed(), logger)
	}

	login := textinput.New()
	login.Placeholder = loginPlaceholder
	login.Prompt = "› "
	login.CharLimit = 80
	login.Width = 40

	search := textinput.New()
	search.Placeholder = searchPlaceholder
	search.Prompt = "/ "
	search.CharLimit = 120
	search.Width = 40

	upload := textinput.New()
	upload.Placeholder = uploadPlaceholder
	upload.Prompt = "↑ "
	upload.CharLimit = 1024
	upload.Width = 60

	composer := textinput.New()
	composer.Placeholder = composerPlaceholder
	composer.Prompt = "│ "
	composer.CharLimit = 4096
	composer.Width = 76

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(heroAccentColor)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 34},
			{Title: "Client", Width: 18},
			{Title: "Status", Width: 10},
			{Title: "Progress", Width: 8},
			{Title: "Due", Width: 10},
			{Title: "Value", Width: 10},
			{Title: "Modified", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	layout := newPageLayout()
	ctx, stop := context.WithCancel(context.Background())
	m := &model{
		config:        config,
		logger:        logger,
		session:       session,
		prefs:         prefs,
		catalog:       cat,
		nav:           workspace.NewController(logger),
		mutator:       proposal.NewMutator(),
		acceptor:      intake.NewAcceptor(config.MaxUploadBytes, logger),
		analyzer:      &intake.Analyzer{Delay: delayOr(config.AnalyzeDelay, intake.DefaultAnalyzeDelay), Logger: logger},
		exporter:      &export.Exporter{Delay: delayOr(config.ExportDelay, export.DefaultDelay), Logger: logger},
		jobs:          newJobBus(logger),
		running:       map[jobKind]jobSnapshot{},
		tick:          delayOr(config.GenerationTick, deck.DefaultTick),
		ctx:           ctx,
		stop:          stop,
		login:         login,
		search:        search,
		upload:        upload,
		composer:      composer,
		table:         t,
		transcript:    viewport.New(layout.viewportWidth, layout.transcriptHeight),
		document:      viewport.New(layout.viewportWidth, layout.viewportHeight),
		spinner:       sp,
		layout:        layout,
		conversations: map[string]*conversationHandle{},
		proposalKeys:  map[string]string{},
	}
	m.renderer = m.newRenderer()
	m.refreshTable()

	if session != nil && session.Authenticated() {
		m.stage = stageWorkspace
	} else {
		m.stage = stageLogin
		m.login.Focus()
	}
	return m
}

func delayOr(d, fallback time.Duration) time.Duration {
	switch {
	case d == 0:
		return fallback
	case d < 0:
		return 0
	default:
		return d
	}
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.stage == stageWorkspace {
		cmds = append(cmds, m.enterWorkspace())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if h := m.active(); h != nil && h.engine.Busy() {
			m.refreshTranscript()
		}
		return m, cmd
	case replyMsg:
		return m, m.handleReply(msg)
	case jobSignalMsg:
		m.running[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.running, msg.Snapshot.Kind)
		return m, m.handleJobResult(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}
	if m.stage == stageLogin {
		return m.updateLogin(msg)
	}
	if m.overlay != overlayNone {
		return m.updateOverlay(msg)
	}

	switch key {
	case "tab":
		return m.cycleView(1)
	case "shift+tab":
		return m.cycleView(-1)
	}

	switch {
	case m.search.Focused():
		return m.updateSearch(msg)
	case m.upload.Focused():
		return m.updateUpload(msg)
	case m.composer.Focused():
		return m.updateComposer(msg)
	}

	switch key {
	case "q":
		return m.quit()
	case "?":
		m.overlay = overlayHelp
		return nil
	case "1":
		return m.navigate(workspace.Dashboard)
	case "2":
		return m.navigate(workspace.Chat)
	case "3":
		return m.navigate(workspace.Editor)
	case "n":
		return m.startNewProposal()
	}

	switch m.nav.View() {
	case workspace.Dashboard:
		return m.updateDashboard(msg)
	case workspace.Chat:
		return m.updateChat(msg)
	case workspace.Editor:
		return m.updateEditor(msg)
	}
	return nil
}

func (m *model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "enter" {
		if err := m.session.Login(m.login.Value()); err != nil {
			m.err = "Please enter your name to continue."
			m.logger.Debug("login rejected", zap.Error(err))
			return nil
		}
		m.err = ""
		m.login.Reset()
		m.login.Blur()
		m.stage = stageWorkspace
		m.info = fmt.Sprintf("Welcome, %s.", m.session.State().UserName)
		return m.enterWorkspace()
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return cmd
}

func (m *model) enterWorkspace() tea.Cmd {
	if m.activeKey != "" {
		return nil
	}
	m.draftSeq++
	return m.openConversation(fmt.Sprintf("draft-%d", m.draftSeq), "New Proposal")
}

func (m *model) logout() tea.Cmd {
	if err := m.session.Logout(); err != nil {
		m.err = fmt.Sprintf("Logout failed: %v", err)
		return nil
	}
	m.closeConversations()
	m.nav.ClearProposal()
	_ = m.nav.Navigate(workspace.Dashboard)
	m.overlay = overlayNone
	m.search.Blur()
	m.upload.Blur()
	m.composer.Blur()
	m.stage = stageLogin
	m.info = "Signed out."
	m.err = ""
	m.login.Focus()
	return textinput.Blink
}

func (m *model) quit() tea.Cmd {
	m.shutdown()
	return tea.Quit
}

// shutdown stops background jobs and closes every conversation engine.
func (m *model) shutdown() {
	m.jobs.Stop()
	m.closeConversations()
	m.stop()
}

func (m *model) closeConversations() {
	for key, h := range m.conversations {
		h.cancel()
		h.engine.Close()
		delete(m.conversations, key)
	}
	m.proposalKeys = map[string]string{}
	m.activeKey = ""
	m.generation = nil
	m.generationKey = ""
}

func (m *model) navigate(view workspace.View) tea.Cmd {
	if err := m.nav.Navigate(view); err != nil {
		m.err = err.Error()
		return nil
	}
	m.search.Blur()
	m.upload.Blur()
	m.focus = focusTable
	if view == workspace.Chat {
		m.composer.Focus()
		return textinput.Blink
	}
	m.composer.Blur()
	if view == workspace.Editor {
		m.refreshEditor()
	}
	return nil
}

func (m *model) cycleView(delta int) tea.Cmd {
	views := workspace.Views()
	idx := 0
	for i, v := range views {
		if v == m.nav.View() {
			idx = i
		}
	}
	idx = (idx + delta + len(views)) % len(views)
	return m.navigate(views[idx])
}

func (m *model) startNewProposal() tea.Cmd {
	m.nav.StartNewProposal()
	m.draftSeq++
	cmd := m.openConversation(fmt.Sprintf("draft-%d", m.draftSeq), "New Proposal")
	m.composer.Focus()
	m.info = "Started a new proposal."
	return tea.Batch(cmd, textinput.Blink)
}

func (m *model) active() *conversationHandle {
	return m.conversations[m.activeKey]
}

// openConversation activates the conversation stored under key, creating its
// engine on first use. The returned command waits for the engine's next reply.
func (m *model) openConversation(key, project string) tea.Cmd {
	if key != m.activeKey {
		m.releaseDraft()
	}
	if h, ok := m.conversations[key]; ok {
		m.activate(h)
		return nil
	}
	engine := conversation.New(conversation.Config{
		Delay:    m.config.ResponseDelay,
		Greeting: conversation.Greeting(project),
		Logger:   m.logger,
	}, proposal.Seed(), m.mutator)
	events, cancel := engine.Subscribe()
	h := &conversationHandle{key: key, project: project, engine: engine, events: events, cancel: cancel}
	m.conversations[key] = h
	m.activate(h)
	return waitForReply(key, events)
}

// releaseDraft closes the active conversation when it belongs to a draft
// that was never generated into a catalog entry. Nothing can reach such a
// draft once another conversation becomes active.
func (m *model) releaseDraft() {
	h := m.active()
	if h == nil || h.key == m.generationKey {
		return
	}
	for _, key := range m.proposalKeys {
		if key == h.key {
			return
		}
	}
	h.cancel()
	h.engine.Close()
	delete(m.conversations, h.key)
	m.activeKey = ""
	m.logger.Debug("draft released", zap.String("conversation", h.key))
}

func (m *model) activate(h *conversationHandle) {
	m.activeKey = h.key
	m.nav.SetSlideCount(len(h.slides))
	m.refreshTranscript()
	m.refreshEditor()
}

func (m *model) handleReply(msg replyMsg) tea.Cmd {
	if !msg.ok {
		return nil
	}
	h, ok := m.conversations[msg.key]
	if !ok {
		return nil
	}
	if msg.key == m.activeKey {
		m.refreshTranscript()
		m.refreshEditor()
	}
	return waitForReply(msg.key, h.events)
}

func (m *model) handleJobResult(msg jobResultEnvelope) tea.Cmd {
	switch payload := msg.Payload.(type) {
	case exportResultMsg:
		if payload.err != nil {
			if msg.Snapshot.Status != jobStatusCancelled {
				m.err = fmt.Sprintf("%s export failed: %v", payload.format.Label(), payload.err)
			}
			return nil
		}
		m.err = ""
		m.info = payload.result.Message
	case analyzeResultMsg:
		if payload.err != nil {
			if msg.Snapshot.Status != jobStatusCancelled {
				m.err = fmt.Sprintf("Could not analyze %s: %v", payload.upload.Name, payload.err)
			}
			return nil
		}
		m.requirements = payload.requirements
		m.err = ""
		m.info = fmt.Sprintf("Extracted %d requirements from %s.", len(payload.requirements), payload.upload.Name)
	case generationTickMsg:
		return m.advanceGeneration()
	}
	return nil
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.table.SetHeight(m.layout.tableHeight)
	m.transcript.Width = m.layout.viewportWidth
	m.transcript.Height = m.layout.transcriptHeight
	m.document.Width = m.layout.viewportWidth
	m.document.Height = m.layout.viewportHeight
	m.composer.Width = m.layout.viewportWidth - 4
	m.search.Width = m.layout.viewportWidth / 2
	m.upload.Width = m.layout.viewportWidth - 4
	m.renderer = m.newRenderer()
	m.refreshTranscript()
	m.refreshEditor()
}

// newRenderer follows the theme setting: light and dark pick a fixed glamour
// style, system asks the terminal.
func (m *model) newRenderer() *glamour.TermRenderer {
	theme := settings.Defaults().Theme
	if m.prefs != nil {
		theme = m.prefs.Current().Theme
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(m.wrapWidth(4))}
	switch theme {
	case "light", "dark":
		opts = append(opts, glamour.WithStylePath(theme))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
		return nil
	}
	return renderer
}

func (m *model) refreshTranscript() {
	h := m.active()
	if h == nil {
		m.transcript.SetContent(m.buildTranscript(nil, false))
		return
	}
	m.transcript.SetContent(m.buildTranscript(h.engine.History(), h.engine.Busy()))
	m.transcript.GotoBottom()
}

func (m *model) refreshEditor() {
	h := m.active()
	if h == nil {
		m.document.SetContent("")
		return
	}
	m.document.SetContent(m.buildDocument(h.engine.Document()))
}
