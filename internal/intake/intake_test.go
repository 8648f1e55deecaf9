package intake

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a structurally valid PDF with the given number of blank pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	offsets := []int{}
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	object("<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		object("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func minimalDOCX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:document/>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestAcceptPDFCountsPages(t *testing.T) {
	data := minimalPDF(3)
	acceptor := NewAcceptor(0, nil)

	upload, err := acceptor.Accept("rfp.PDF", int64(len(data)), bytes.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, Upload{Name: "rfp.PDF", Size: int64(len(data)), Kind: KindPDF, Pages: 3}, upload)
}

func TestAcceptDOCX(t *testing.T) {
	data := minimalDOCX(t)

	upload, err := NewAcceptor(0, nil).Accept("brief.docx", int64(len(data)), bytes.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, KindDOCX, upload.Kind)
}

func TestRejectionListsEveryReason(t *testing.T) {
	acceptor := NewAcceptor(0, nil)

	_, err := acceptor.Accept("notes.txt", DefaultMaxBytes+1, bytes.NewReader(nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileRejected)
	assert.Equal(t, "File upload error. Reasons: File is larger than 10MB. Invalid file type (only PDF, DOCX).", err.Error())
}

func TestRejectsOversizeOnly(t *testing.T) {
	_, err := NewAcceptor(0, nil).Accept("big.pdf", DefaultMaxBytes+1, bytes.NewReader(nil))

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, []string{"File is larger than 10MB."}, rejection.Reasons)
}

func TestExactlyMaxBytesIsAccepted(t *testing.T) {
	data := minimalPDF(1)
	acceptor := NewAcceptor(int64(len(data)), nil)

	_, err := acceptor.Accept("edge.pdf", int64(len(data)), bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRejectsContentThatDoesNotMatchExtension(t *testing.T) {
	acceptor := NewAcceptor(0, nil)
	junk := []byte("plain text pretending to be a document")

	_, err := acceptor.Accept("fake.pdf", int64(len(junk)), bytes.NewReader(junk))
	assert.ErrorIs(t, err, ErrFileRejected)

	_, err = acceptor.Accept("fake.docx", int64(len(junk)), bytes.NewReader(junk))
	assert.ErrorIs(t, err, ErrFileRejected)
}

func TestAcceptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfp.pdf")
	require.NoError(t, os.WriteFile(path, minimalPDF(2), 0o644))

	upload, err := NewAcceptor(0, nil).AcceptFile(path)

	require.NoError(t, err)
	assert.Equal(t, "rfp.pdf", upload.Name)
	assert.Equal(t, 2, upload.Pages)

	_, err = NewAcceptor(0, nil).AcceptFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestExtractReturnsRequirements(t *testing.T) {
	analyzer := &Analyzer{Delay: time.Millisecond}

	reqs, err := analyzer.Extract(context.Background(), Upload{Name: "rfp.pdf"})

	require.NoError(t, err)
	require.Len(t, reqs, 4)
	assert.Equal(t, "The system must support single sign-on (SSO).", reqs[0].Text)
	assert.Equal(t, "A detailed audit trail of all user actions is required.", reqs[3].Text)
}

func TestExtractHonoursCancellation(t *testing.T) {
	analyzer := &Analyzer{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Extract(ctx, Upload{Name: "rfp.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSizeLimitBelowOneMegabyte(t *testing.T) {
	_, err := NewAcceptor(512*1024, nil).Accept("rfp.pdf", 600*1024, bytes.NewReader(nil))

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Contains(t, rejection.Reasons, "File is larger than 512KB.")
}

func TestSizeLimit(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{10 * 1024 * 1024, "10MB"},
		{1536 * 1024, "1.5MB"},
		{512 * 1024, "512KB"},
		{1536, "1.5KB"},
		{900, "900 bytes"},
	}
	for _, tc := range cases {
		if got := sizeLimit(tc.n); got != tc.want {
			t.Fatalf("sizeLimit(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
