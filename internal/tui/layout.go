package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/csheth/proppilot/internal/conversation"
	"github.com/csheth/proppilot/internal/deck"
	"github.com/csheth/proppilot/internal/proposal"
)

type pageLayout struct {
	windowWidth      int
	windowHeight     int
	viewportWidth    int
	viewportHeight   int
	transcriptHeight int
	composerHeight   int
	tableHeight      int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:    80,
		viewportHeight:   20,
		transcriptHeight: 10,
		composerHeight:   1,
		tableHeight:      10,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.composerHeight = 1
	const chrome = 8
	usable := height - chrome
	if usable < 12 {
		usable = 12
	}
	// search bar and counters
	l.tableHeight = usable - 4
	// composer plus its label
	l.transcriptHeight = usable - l.composerHeight - 1
	// slide strip
	l.viewportHeight = usable - 3
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func (m *model) buildTranscript(history []conversation.Message, busy bool) string {
	cb := &contentBuilder{}
	cb.WriteString(sectionHeaderStyle.Render("Conversation"))
	cb.WriteRune('\n')
	if len(history) == 0 {
		cb.WriteString(helperStyle.Render("Messages will appear here once you start typing."))
		cb.WriteRune('\n')
		return cb.String()
	}
	wrap := m.wrapWidth(4)
	for idx, msg := range history {
		cb.WriteString(senderLabel(msg.Sender))
		cb.WriteString(helperStyle.Render(" · " + msg.CreatedAt.Format("15:04")))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(msg.Text, wrap), "  "))
		cb.WriteRune('\n')
		if idx < len(history)-1 {
			cb.WriteRune('\n')
		}
	}
	if busy {
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s PropPilot is typing…", m.spinner.View())))
		cb.WriteRune('\n')
	}
	return cb.String()
}

func (m *model) buildDocument(doc proposal.Document) string {
	source := proposal.Markdown(doc)
	if m.renderer != nil {
		rendered, err := m.renderer.Render(source)
		if err == nil {
			return rendered
		}
		m.logger.Debug("markdown render failed", zap.Error(err))
	}
	return wordwrap.String(source, m.wrapWidth(2))
}

func (m *model) buildSlideStrip(slides []deck.Slide, current int) string {
	if len(slides) == 0 {
		return helperStyle.Render("No slides yet. Press ctrl+g in the chat to generate a proposal.")
	}
	labels := make([]string, 0, len(slides))
	for idx, slide := range slides {
		label := fmt.Sprintf("%d %s", slide.Order, previewText(slide.Title, 18))
		if idx == current {
			labels = append(labels, currentLineStyle.Render(label))
			continue
		}
		labels = append(labels, helperStyle.Render(label))
	}
	slide := slides[current]
	body := slideStyle.Width(m.wrapWidth(6)).Render(sectionHeaderStyle.Render(slide.Title) + "\n" + wordwrap.String(slide.Content, m.wrapWidth(10)))
	return strings.Join(labels, "  ") + "\n" + body
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.layout.viewportWidth
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func senderLabel(sender conversation.Sender) string {
	switch sender {
	case conversation.SenderUser:
		return userLabelStyle.Render("You")
	case conversation.SenderAI:
		return aiLabelStyle.Render("PropPilot")
	default:
		return helperStyle.Render(string(sender))
	}
}
