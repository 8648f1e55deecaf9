package proposal

import (
	"fmt"
	"strings"
)

// Section is a titled, ordered block of paragraphs. The ID is stable across mutations.
type Section struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// Document is a proposal draft: a title plus ordered sections.
type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Clone returns a deep copy that shares no slices with d.
func (d Document) Clone() Document {
	out := Document{Title: d.Title}
	if d.Sections == nil {
		return out
	}
	out.Sections = make([]Section, len(d.Sections))
	for i, section := range d.Sections {
		out.Sections[i] = Section{
			ID:         section.ID,
			Title:      section.Title,
			Paragraphs: append([]string(nil), section.Paragraphs...),
		}
	}
	return out
}

// Section returns the section with the given id.
func (d Document) Section(id string) (Section, bool) {
	if idx := d.indexOf(id); idx >= 0 {
		return d.Sections[idx], true
	}
	return Section{}, false
}

func (d Document) indexOf(id string) int {
	for i, section := range d.Sections {
		if section.ID == id {
			return i
		}
	}
	return -1
}

// withParagraphs returns a copy of d where only the paragraphs of section id are
// replaced by fn's result. A missing section leaves the copy untouched.
func (d Document) withParagraphs(id string, fn func([]string) []string) Document {
	out := d.Clone()
	idx := out.indexOf(id)
	if idx < 0 {
		return out
	}
	out.Sections[idx].Paragraphs = fn(out.Sections[idx].Paragraphs)
	return out
}

// Equal reports whether both documents carry the same title, section order and text.
func (d Document) Equal(other Document) bool {
	if d.Title != other.Title || len(d.Sections) != len(other.Sections) {
		return false
	}
	for i := range d.Sections {
		a, b := d.Sections[i], other.Sections[i]
		if a.ID != b.ID || a.Title != b.Title || len(a.Paragraphs) != len(b.Paragraphs) {
			return false
		}
		for j := range a.Paragraphs {
			if a.Paragraphs[j] != b.Paragraphs[j] {
				return false
			}
		}
	}
	return true
}

// Markdown renders the document for the editor pane.
func Markdown(d Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	for _, section := range d.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Title)
		for _, paragraph := range section.Paragraphs {
			b.WriteString(paragraph)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Section ids the built-in commands and the validation report rely on.
const (
	SectionExecutiveSummary = "exec-summary"
	SectionUnderstanding    = "understanding-reqs"
	SectionProposedSolution = "proposed-solution"
	SectionTimeline         = "timeline"
)

// Seed returns the starter draft every new workspace opens with.
func Seed() Document {
	return Document{
		Title: "Project Phoenix: Next-Generation Web Platform",
		Sections: []Section{
			{
				ID:    SectionExecutiveSummary,
				Title: "Executive Summary",
				Paragraphs: []string{
					"Project Phoenix aims to develop a state-of-the-art web platform designed to enhance user engagement and streamline content delivery for XYZ Corp. This proposal outlines our approach to delivering a scalable, secure, and intuitive solution that addresses key business objectives and provides a significant return on investment.",
					"Our team of experienced developers and designers will leverage modern technologies and agile methodologies to ensure timely and high-quality project completion.",
				},
			},
			{
				ID:    SectionUnderstanding,
				Title: "Understanding of Requirements",
				Paragraphs: []string{
					"We understand XYZ Corp requires a platform that can handle high traffic volumes, integrate seamlessly with existing CRMs, and provide a personalized user experience. Key compliance requirements include GDPR and CCPA adherence, which will be integral to our design and development process.",
					"The platform must also feature a robust content management system (CMS) allowing for easy updates and content scheduling by non-technical staff.",
				},
			},
			{
				ID:    SectionProposedSolution,
				Title: "Proposed Solution",
				Paragraphs: []string{
					"Our proposed solution involves a three-tiered architecture: a React-based frontend for dynamic user interfaces, a Node.js/Express backend for API services, and a PostgreSQL database for data persistence. We will utilize a microservices approach for key functionalities to ensure scalability and maintainability.",
					"Key features will include: User Authentication & Authorization, Personalized Content Feeds, Integrated Analytics Dashboard, and a WYSIWYG CMS Interface. We will also incorporate [Compliance Keyword Placeholder: e.g., 'ISO 27001 best practices'] throughout the development lifecycle.",
				},
			},
			{
				ID:    SectionTimeline,
				Title: "Project Timeline",
				Paragraphs: []string{
					"Phase 1 (Discovery & Design - 4 Weeks): Detailed requirements gathering, UX/UI design, and technical architecture finalization.",
					"Phase 2 (Development - 10 Weeks): Agile sprints covering frontend and backend development, CMS integration.",
					"Phase 3 (Testing & Deployment - 4 Weeks): Comprehensive QA, UAT, security audits, and production deployment.",
				},
			},
		},
	}
}
