package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/proppilot/internal/conversation"
	"github.com/csheth/proppilot/internal/export"
	"github.com/csheth/proppilot/internal/intake"
)

func exportJob(exporter *export.Exporter, format export.Format) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		result, err := exporter.Export(ctx, format)
		return exportResultMsg{format: format, result: result, err: err}, err
	}
}

func analyzeJob(analyzer *intake.Analyzer, upload intake.Upload) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		reqs, err := analyzer.Extract(ctx, upload)
		return analyzeResultMsg{upload: upload, requirements: reqs, err: err}, err
	}
}

func generationTickJob(tick time.Duration) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		select {
		case <-time.After(tick):
			return generationTickMsg{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// waitForReply blocks on the next committed reply of one conversation.
func waitForReply(key string, events <-chan conversation.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return replyMsg{key: key, event: event, ok: ok}
	}
}
