// Package export simulates exporting the proposal deck. No file is written.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay is the simulated export time.
const DefaultDelay = 2 * time.Second

// Format is an export target.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPPTX Format = "pptx"
	FormatDOCX Format = "docx"
)

// ErrUnsupportedFormat is returned for targets outside Formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the export targets in menu order.
func Formats() []Format {
	return []Format{FormatPDF, FormatPPTX, FormatDOCX}
}

// ParseFormat maps a name such as "PDF" to its Format.
func ParseFormat(name string) (Format, error) {
	key := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range Formats() {
		if f == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Label is the upper-case display name.
func (f Format) Label() string { return strings.ToUpper(string(f)) }

// Result reports a finished export.
type Result struct {
	Format  Format
	Message string
}

// Exporter runs simulated exports.
type Exporter struct {
	Delay  time.Duration
	Logger *zap.Logger
}

// Export waits the configured delay and reports success.
func (e *Exporter) Export(ctx context.Context, format Format) (Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return Result{}, err
	}
	if e.Delay > 0 {
		select {
		case <-time.After(e.Delay):
		case <-ctx.Done():
			logger.Warn("export cancelled", zap.String("format", string(format)), zap.Error(ctx.Err()))
			return Result{}, ctx.Err()
		}
	}
	logger.Info("export completed", zap.String("format", string(format)))
	return Result{
		Format:  format,
		Message: fmt.Sprintf("%s export completed! (This is a demo - no actual file was generated)", format.Label()),
	}, nil
}
