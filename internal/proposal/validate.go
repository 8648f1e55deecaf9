package proposal

import (
	"strings"

	"golang.org/x/text/cases"
)

// Coverage grades how well a requirement is addressed by the draft.
type Coverage string

const (
	Addressed          Coverage = "Addressed"
	PartiallyAddressed Coverage = "Partially Addressed"
	NotAddressed       Coverage = "Not Addressed"
)

// Requirement is one line of the validation checklist. SectionLink may be empty
// when no section is expected to cover it.
type Requirement struct {
	ID          string
	Text        string
	SectionLink string
	Keywords    []string
}

// Finding is the graded outcome for a single requirement.
type Finding struct {
	Requirement Requirement
	Status      Coverage
}

// Report is the ordered list of findings for one document snapshot.
type Report struct {
	Findings []Finding
}

// Count returns how many findings carry the given status.
func (r Report) Count(status Coverage) int {
	n := 0
	for _, f := range r.Findings {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Checklist returns the requirement list the validation report grades against.
func Checklist() []Requirement {
	return []Requirement{
		{ID: "req1", Text: "Must include Executive Summary", SectionLink: SectionExecutiveSummary},
		{ID: "req2", Text: "Solution must address scalability", SectionLink: SectionProposedSolution, Keywords: []string{"scalab"}},
		{ID: "req3", Text: "Timeline must be clearly defined", SectionLink: SectionTimeline, Keywords: []string{"weeks", "milestone"}},
		{ID: "req4", Text: "Budget breakdown required"},
		{ID: "req5", Text: "Compliance with GDPR mentioned", SectionLink: SectionUnderstanding, Keywords: []string{"gdpr"}},
		{ID: "req6", Text: "Security approach described", SectionLink: SectionProposedSolution, Keywords: []string{"security", "encryption"}},
	}
}

// Validate grades doc against Checklist.
func Validate(doc Document) Report {
	requirements := Checklist()
	report := Report{Findings: make([]Finding, 0, len(requirements))}
	for _, req := range requirements {
		report.Findings = append(report.Findings, Finding{Requirement: req, Status: grade(doc, req)})
	}
	return report
}

func grade(doc Document, req Requirement) Coverage {
	if req.SectionLink == "" {
		return NotAddressed
	}
	section, ok := doc.Section(req.SectionLink)
	if !ok || len(section.Paragraphs) == 0 {
		return NotAddressed
	}
	body := cases.Fold().String(strings.Join(section.Paragraphs, " "))
	for _, keyword := range req.Keywords {
		if !strings.Contains(body, keyword) {
			return PartiallyAddressed
		}
	}
	return Addressed
}
