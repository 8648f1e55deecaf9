// Package deck holds the slide outline shown by the editor and the simulated
// generation progress that produces it.
package deck

import (
	"fmt"
	"time"
)

// Slide is one page of the generated deck.
type Slide struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// Default returns the outline every generated proposal starts from.
func Default() []Slide {
	return []Slide{
		{ID: "1", Title: "Title Slide", Content: "Project Proposal for Client", Order: 1},
		{ID: "2", Title: "Executive Summary", Content: "Brief overview of the proposed solution...", Order: 2},
		{ID: "3", Title: "Understanding Your Needs", Content: "We understand your requirements...", Order: 3},
		{ID: "4", Title: "Proposed Solution", Content: "Our comprehensive approach...", Order: 4},
		{ID: "5", Title: "Timeline & Milestones", Content: "Project timeline and key deliverables...", Order: 5},
		{ID: "6", Title: "Team & Expertise", Content: "Meet our experienced team...", Order: 6},
		{ID: "7", Title: "Pricing", Content: "Investment and payment terms...", Order: 7},
		{ID: "8", Title: "Next Steps", Content: "How to move forward...", Order: 8},
	}
}

// DefaultTick is the interval between generation steps.
const DefaultTick = 300 * time.Millisecond

const (
	stepSize = 10
	complete = 100
)

// Generation tracks a simulated proposal build from 0 to 100 percent.
type Generation struct {
	Progress int
}

// Step advances progress by one increment and reports whether the build is complete.
func (g *Generation) Step() bool {
	if g.Progress < complete {
		g.Progress += stepSize
	}
	if g.Progress > complete {
		g.Progress = complete
	}
	return g.Done()
}

// Done reports whether the build has finished.
func (g Generation) Done() bool { return g.Progress >= complete }

// Templates are the quick-start proposal types offered in the chat.
func Templates() []string {
	return []string{"Software Development", "Consulting Services", "Marketing Campaign", "Custom Project"}
}

// QuickStart is the chat line sent for a quick-start template.
func QuickStart(template string) string {
	return fmt.Sprintf("I'd like to create a %s proposal.", template)
}
