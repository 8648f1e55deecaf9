// Package workspace tracks which top-level view is active and the selection
// state each view needs.
package workspace

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// View is one of the three workspace panels.
type View int

const (
	Dashboard View = iota
	Chat
	Editor
)

var viewNames = [...]string{
	Dashboard: "dashboard",
	Chat:      "chat",
	Editor:    "editor",
}

func (v View) String() string {
	if !v.valid() {
		return fmt.Sprintf("view(%d)", int(v))
	}
	return viewNames[v]
}

func (v View) valid() bool {
	return v >= Dashboard && v <= Editor
}

// Views lists every navigable view in tab order.
func Views() []View {
	return []View{Dashboard, Chat, Editor}
}

// ErrInvalidView is matched by every *InvalidViewError.
var ErrInvalidView = errors.New("invalid view")

// InvalidViewError reports a navigation request outside the known views.
type InvalidViewError struct {
	View string
}

func (e *InvalidViewError) Error() string {
	return fmt.Sprintf("invalid view %q", e.View)
}

func (e *InvalidViewError) Is(target error) bool {
	return target == ErrInvalidView
}

// ParseView maps a view name to its View.
func ParseView(name string) (View, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range viewNames {
		if candidate == key {
			return View(i), nil
		}
	}
	return Dashboard, &InvalidViewError{View: name}
}

// State is a value copy of the controller.
type State struct {
	View       View
	ProposalID string
	Slide      int
	SlideCount int
}

// Controller owns the view state machine. It is single-owner and not safe
// for concurrent use; the terminal UI drives it from its update loop.
type Controller struct {
	view       View
	proposalID string
	slide      int
	slideCount int
	logger     *zap.Logger
}

// NewController starts on the dashboard with nothing selected.
func NewController(logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{view: Dashboard, logger: logger}
}

// View returns the active view.
func (c *Controller) View() View { return c.view }

// ProposalID returns the selected proposal, empty when none is selected.
func (c *Controller) ProposalID() string { return c.proposalID }

// Slide returns the active slide index.
func (c *Controller) Slide() int { return c.slide }

// Navigate switches to view. Unknown views leave the state untouched.
func (c *Controller) Navigate(view View) error {
	if !view.valid() {
		return &InvalidViewError{View: view.String()}
	}
	if c.view != view {
		c.logger.Debug("navigate", zap.Stringer("from", c.view), zap.Stringer("to", view))
	}
	c.view = view
	if view == Editor {
		c.slide = c.clamp(c.slide)
	}
	return nil
}

// SelectProposal marks id as the active proposal.
func (c *Controller) SelectProposal(id string) {
	c.proposalID = id
	c.logger.Debug("select proposal", zap.String("id", id))
}

// ClearProposal drops the active proposal selection.
func (c *Controller) ClearProposal() {
	c.proposalID = ""
}

// SetSlideCount records how many slides the editor shows.
func (c *Controller) SetSlideCount(n int) {
	if n < 0 {
		n = 0
	}
	c.slideCount = n
	c.slide = c.clamp(c.slide)
}

// SelectSlide moves to index, clamped to the available slides while the
// editor is showing. It returns the resulting index.
func (c *Controller) SelectSlide(index int) int {
	c.slide = c.clamp(index)
	return c.slide
}

func (c *Controller) clamp(index int) int {
	if index < 0 {
		index = 0
	}
	if c.view == Editor && c.slideCount > 0 && index > c.slideCount-1 {
		index = c.slideCount - 1
	}
	return index
}

// NextSlide advances one slide.
func (c *Controller) NextSlide() int { return c.SelectSlide(c.slide + 1) }

// PrevSlide goes back one slide.
func (c *Controller) PrevSlide() int { return c.SelectSlide(c.slide - 1) }

// AtFirstSlide reports whether backwards navigation is disabled.
func (c *Controller) AtFirstSlide() bool { return c.slide == 0 }

// AtLastSlide reports whether forward navigation is disabled.
func (c *Controller) AtLastSlide() bool {
	return c.slideCount == 0 || c.slide >= c.slideCount-1
}

// StartNewProposal resets the selection and opens the chat.
func (c *Controller) StartNewProposal() {
	c.ClearProposal()
	c.slide = 0
	c.view = Chat
	c.logger.Debug("new proposal")
}

// Snapshot returns the current state by value.
func (c *Controller) Snapshot() State {
	return State{View: c.view, ProposalID: c.proposalID, Slide: c.slide, SlideCount: c.slideCount}
}
