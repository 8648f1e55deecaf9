// Package intake accepts dropped RFP documents and extracts their
// requirements.
package intake

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// DefaultMaxBytes caps accepted uploads at 10 MiB.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// Kind is the detected document type.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

// ErrFileRejected is matched by every *RejectionError.
var ErrFileRejected = errors.New("file rejected")

// RejectionError lists every rule an upload violated.
type RejectionError struct {
	Name    string
	Reasons []string
}

func (e *RejectionError) Error() string {
	return "File upload error. Reasons: " + strings.Join(e.Reasons, " ")
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrFileRejected
}

// Upload is an accepted document.
type Upload struct {
	Name  string
	Size  int64
	Kind  Kind
	Pages int
}

// SizeMB is the size in mebibytes, for display.
func (u Upload) SizeMB() float64 {
	return float64(u.Size) / (1024 * 1024)
}

// Acceptor applies the drop-zone rules.
type Acceptor struct {
	MaxBytes int64
	Logger   *zap.Logger
}

// NewAcceptor returns an acceptor with the given size cap; 0 means DefaultMaxBytes.
func NewAcceptor(maxBytes int64, logger *zap.Logger) *Acceptor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acceptor{MaxBytes: maxBytes, Logger: logger.Named("intake")}
}

// sizeLimit renders a byte cap in the largest unit that keeps it readable.
func sizeLimit(n int64) string {
	const kib, mib = 1024, 1024 * 1024
	switch {
	case n >= mib && n%mib == 0:
		return fmt.Sprintf("%dMB", n/mib)
	case n >= mib:
		return fmt.Sprintf("%.1fMB", float64(n)/mib)
	case n >= kib && n%kib == 0:
		return fmt.Sprintf("%dKB", n/kib)
	case n >= kib:
		return fmt.Sprintf("%.1fKB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

func (a *Acceptor) maxBytes() int64 {
	if a.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return a.MaxBytes
}

func (a *Acceptor) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Accept checks name, size and content. The content sniff only runs when the
// name and size already pass.
func (a *Acceptor) Accept(name string, size int64, content io.ReaderAt) (Upload, error) {
	var reasons []string
	if size > a.maxBytes() {
		reasons = append(reasons, fmt.Sprintf("File is larger than %s.", sizeLimit(a.maxBytes())))
	}
	kind, ok := kindOf(name)
	if !ok {
		reasons = append(reasons, "Invalid file type (only PDF, DOCX).")
	}
	if len(reasons) > 0 {
		return a.reject(name, reasons)
	}

	upload := Upload{Name: filepath.Base(name), Size: size, Kind: kind}
	switch kind {
	case KindPDF:
		pages, err := countPages(content, size)
		if err != nil {
			a.logger().Debug("pdf sniff failed", zap.String("name", name), zap.Error(err))
			return a.reject(name, []string{"File is not a readable PDF."})
		}
		upload.Pages = pages
	case KindDOCX:
		if err := checkDOCX(content, size); err != nil {
			a.logger().Debug("docx sniff failed", zap.String("name", name), zap.Error(err))
			return a.reject(name, []string{"File is not a readable DOCX."})
		}
	}
	a.logger().Debug("accepted", zap.String("name", upload.Name), zap.Int64("size", size), zap.Int("pages", upload.Pages))
	return upload, nil
}

func (a *Acceptor) reject(name string, reasons []string) (Upload, error) {
	err := &RejectionError{Name: name, Reasons: reasons}
	a.logger().Info("rejected", zap.String("name", name), zap.Strings("reasons", reasons))
	return Upload{}, err
}

// AcceptFile opens path and runs Accept over it.
func (a *Acceptor) AcceptFile(path string) (Upload, error) {
	file, err := os.Open(path)
	if err != nil {
		return Upload{}, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return Upload{}, err
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("%s is a directory", path)
	}
	return a.Accept(path, info.Size(), file)
}

func kindOf(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDOCX, true
	}
	return "", false
}

func countPages(content io.ReaderAt, size int64) (pages int, err error) {
	// The pdf reader panics on some malformed trailers.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(content, size)
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

func checkDOCX(content io.ReaderAt, size int64) error {
	archive, err := zip.NewReader(content, size)
	if err != nil {
		return err
	}
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			return nil
		}
	}
	return errors.New("missing word/document.xml")
}
