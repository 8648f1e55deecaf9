// Package catalog holds the proposal list shown on the dashboard and the
// query used to filter and order it.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no proposal carries the requested id.
var ErrNotFound = errors.New("proposal not found")

// Status is the lifecycle stage of a proposal.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusInReview Status = "in-review"
	StatusSent     Status = "sent"
	StatusWon      Status = "won"
	StatusLost     Status = "lost"
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusInReview, StatusSent, StatusWon, StatusLost}
}

// ParseStatus maps a status name to its Status. "all" and "" yield the empty
// Status, which matches everything in a Query.
func ParseStatus(name string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "all" {
		return "", nil
	}
	for _, status := range Statuses() {
		if string(status) == key {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", name)
}

// Summary is one row of the proposal list.
type Summary struct {
	ID           string `json:"id"`
	Seq          int    `json:"seq"`
	Title        string `json:"title"`
	Client       string `json:"client"`
	Status       Status `json:"status"`
	LastModified string `json:"lastModified"`
	Progress     int    `json:"progress"`
	DueDate      string `json:"dueDate,omitempty"`
	Value        string `json:"value,omitempty"`
}

// ParseValue turns a display amount like "$125,000" into 125000. Missing or
// digitless values are 0.
func ParseValue(value string) int64 {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Seed returns the starter proposal list.
func Seed() []Summary {
	return []Summary{
		{ID: "1", Seq: 1, Title: "E-commerce Platform Development", Client: "TechCorp Inc.", Status: StatusInReview, LastModified: "2 hours ago", Progress: 85, DueDate: "2024-01-15", Value: "$125,000"},
		{ID: "2", Seq: 2, Title: "Marketing Campaign Strategy", Client: "StartupXYZ", Status: StatusDraft, LastModified: "1 day ago", Progress: 45, Value: "$35,000"},
		{ID: "3", Seq: 3, Title: "Cloud Migration Services", Client: "Enterprise Solutions", Status: StatusSent, LastModified: "3 days ago", Progress: 100, DueDate: "2024-01-20", Value: "$85,000"},
		{ID: "4", Seq: 4, Title: "Mobile App Development", Client: "FinTech Startup", Status: StatusWon, LastModified: "1 week ago", Progress: 100, Value: "$95,000"},
		{ID: "5", Seq: 5, Title: "Website Redesign", Client: "Local Business", Status: StatusLost, LastModified: "2 weeks ago", Progress: 100, Value: "$15,000"},
	}
}

// Catalog owns the proposal list for one session.
type Catalog struct {
	mu      sync.Mutex
	items   []Summary
	nextSeq int
	logger  *zap.Logger
}

// New returns a catalog over a copy of items.
func New(items []Summary, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{items: append([]Summary(nil), items...), logger: logger.Named("catalog")}
	for _, item := range c.items {
		if item.Seq >= c.nextSeq {
			c.nextSeq = item.Seq + 1
		}
	}
	return c
}

// List returns the filtered, ordered rows for q.
func (c *Catalog) List(q Query) []Summary {
	c.mu.Lock()
	items := append([]Summary(nil), c.items...)
	c.mu.Unlock()
	return Filter(items, q)
}

// Len returns how many proposals exist.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Count returns how many proposals are in status.
func (c *Catalog) Count(status Status) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.items {
		if item.Status == status {
			n++
		}
	}
	return n
}

// Get returns the proposal with id.
func (c *Catalog) Get(id string) (Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.items[idx], nil
}

// ChangeStatus moves a proposal to status and stamps it as just modified.
func (c *Catalog) ChangeStatus(id string, status Status) (Summary, error) {
	if _, err := ParseStatus(string(status)); err != nil || status == "" {
		return Summary{}, fmt.Errorf("change status: unknown status %q", status)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.items[idx].Status = status
	c.items[idx].LastModified = "just now"
	c.logger.Debug("status changed", zap.String("id", id), zap.String("status", string(status)))
	return c.items[idx], nil
}

// Duplicate copies a proposal as a fresh draft at the top of the list.
func (c *Catalog) Duplicate(id string) (Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	copied := c.items[idx]
	copied.ID = uuid.NewString()
	copied.Seq = c.nextSeq
	copied.Title += " (Copy)"
	copied.Status = StatusDraft
	copied.Progress = 0
	copied.LastModified = "just now"
	c.nextSeq++
	c.items = append([]Summary{copied}, c.items...)
	c.logger.Debug("duplicated", zap.String("source", id), zap.String("id", copied.ID))
	return copied, nil
}

// Create adds a new draft at the top of the list.
func (c *Catalog) Create(title, client string) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	created := Summary{
		ID:           uuid.NewString(),
		Seq:          c.nextSeq,
		Title:        title,
		Client:       client,
		Status:       StatusDraft,
		LastModified: "just now",
	}
	c.nextSeq++
	c.items = append([]Summary{created}, c.items...)
	return created
}

func (c *Catalog) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
