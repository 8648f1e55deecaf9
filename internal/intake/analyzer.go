package intake

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultAnalyzeDelay is the simulated processing time.
const DefaultAnalyzeDelay = 2 * time.Second

// Requirement is one extracted RFP line.
type Requirement struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Status string `json:"status"`
}

// Analyzer pretends to read an upload and returns canned requirements.
type Analyzer struct {
	Delay  time.Duration
	Logger *zap.Logger
}

// Extract waits the configured delay and returns the requirement list.
func (a *Analyzer) Extract(ctx context.Context, upload Upload) ([]Requirement, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			logger.Warn("extraction cancelled", zap.String("name", upload.Name), zap.Error(ctx.Err()))
			return nil, ctx.Err()
		}
	}
	reqs := []Requirement{
		{ID: "req1", Text: "The system must support single sign-on (SSO).", Status: "extracted"},
		{ID: "req2", Text: "User data must be encrypted at rest and in transit.", Status: "extracted"},
		{ID: "req3", Text: "The solution should provide role-based access control.", Status: "extracted"},
		{ID: "req4", Text: "A detailed audit trail of all user actions is required.", Status: "extracted"},
	}
	logger.Debug("requirements extracted", zap.String("name", upload.Name), zap.Int("count", len(reqs)))
	return reqs, nil
}
