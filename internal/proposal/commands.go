package proposal

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Command is one entry of the fixed edit grammar. Apply must not modify its input.
type Command interface {
	Trigger() string
	Apply(doc Document) Document
	Narration() string
}

const (
	condensedSummary = "This is a much shorter executive summary focusing only on the key deliverables for Project Phoenix, ensuring clarity and conciseness."
	securityPoint    = "Security is paramount. We will implement end-to-end encryption using industry-standard protocols, conduct regular vulnerability assessments, adhere to OWASP Top 10 guidelines, and ensure proactive threat monitoring to safeguard all sensitive data and maintain platform integrity."
	phaseOneRevised  = "Phase 1 (Discovery & Design - 6 Weeks): Detailed requirements gathering, UX/UI design, technical architecture finalization, and initial prototyping."
)

type sectionCommand struct {
	trigger   string
	narration string
	section   string
	rewrite   func([]string) []string
}

func (c sectionCommand) Trigger() string   { return c.trigger }
func (c sectionCommand) Narration() string { return c.narration }

func (c sectionCommand) Apply(doc Document) Document {
	return doc.withParagraphs(c.section, c.rewrite)
}

// ShortenSummary collapses the executive summary into one condensed paragraph.
func ShortenSummary() Command {
	return sectionCommand{
		trigger:   "make executive summary shorter",
		narration: "Okay, I've shortened the Executive Summary. Take a look.",
		section:   SectionExecutiveSummary,
		rewrite: func([]string) []string {
			return []string{condensedSummary}
		},
	}
}

// AddSecurityPoint appends a security paragraph to the proposed solution.
func AddSecurityPoint() Command {
	return sectionCommand{
		trigger:   "add a point about security to proposed solution",
		narration: "I've added a point about security to the Proposed Solution section.",
		section:   SectionProposedSolution,
		rewrite: func(paragraphs []string) []string {
			return append(paragraphs, securityPoint)
		},
	}
}

// ExtendPhaseOne rewrites the Phase 1 timeline entry to six weeks.
func ExtendPhaseOne() Command {
	return sectionCommand{
		trigger:   "change timeline to 6 weeks for phase 1",
		narration: "Alright, I've updated the timeline for Phase 1 to 6 weeks.",
		section:   SectionTimeline,
		rewrite: func(paragraphs []string) []string {
			for i, paragraph := range paragraphs {
				if strings.HasPrefix(paragraph, "Phase 1") {
					paragraphs[i] = phaseOneRevised
				}
			}
			return paragraphs
		},
	}
}

// Builtins returns the default command set in display order.
func Builtins() []Command {
	return []Command{ShortenSummary(), AddSecurityPoint(), ExtendPhaseOne()}
}

// Mutator dispatches free text to the first command whose trigger matches.
type Mutator struct {
	commands []Command
	keys     []string
}

// NewMutator builds a mutator over commands, or over Builtins when none are given.
func NewMutator(commands ...Command) *Mutator {
	if len(commands) == 0 {
		commands = Builtins()
	}
	keys := make([]string, len(commands))
	for i, cmd := range commands {
		keys[i] = normalize(cmd.Trigger())
	}
	return &Mutator{commands: commands, keys: keys}
}

// Apply returns the next snapshot and the narration describing it. Unrecognized
// text yields doc itself and a fallback narration quoting the text.
func (m *Mutator) Apply(doc Document, text string) (Document, string) {
	key := normalize(text)
	for i, cmd := range m.commands {
		if m.keys[i] == key {
			return cmd.Apply(doc), cmd.Narration()
		}
	}
	return doc, Fallback(text)
}

// Triggers lists the example phrases the mutator understands.
func (m *Mutator) Triggers() []string {
	out := make([]string, len(m.commands))
	for i, cmd := range m.commands {
		out[i] = cmd.Trigger()
	}
	return out
}

// Fallback is the narration for input that matches no command.
func Fallback(text string) string {
	return fmt.Sprintf("I've received your message: \"%s\". I'm not sure how to handle that yet. Try one of the example commands.", text)
}

func normalize(text string) string {
	return cases.Fold().String(strings.TrimSpace(text))
}
