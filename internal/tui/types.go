package tui

import (
	"github.com/csheth/proppilot/internal/catalog"
	"github.com/csheth/proppilot/internal/conversation"
	"github.com/csheth/proppilot/internal/export"
	"github.com/csheth/proppilot/internal/intake"
)

type stage int

const (
	stageLogin stage = iota
	stageWorkspace
)

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayValidation
	overlaySettings
)

type dashboardFocus int

const (
	focusTable dashboardFocus = iota
	focusSearch
	focusUpload
)

const heroTagline = "Draft winning proposals with PropPilot."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

const (
	composerPlaceholder = "Ask PropPilot to edit the draft…"
	searchPlaceholder   = "Search by title or client…"
	uploadPlaceholder   = "Path to an RFP (.pdf or .docx)…"
	loginPlaceholder    = "Your name"
)

var statusCycle = append([]catalog.Status{""}, catalog.Statuses()...)

type replyMsg struct {
	key   string
	event conversation.Event
	ok    bool
}

type generationTickMsg struct{}

type exportResultMsg struct {
	format export.Format
	result export.Result
	err    error
}

type analyzeResultMsg struct {
	upload       intake.Upload
	requirements []intake.Requirement
	err          error
}
