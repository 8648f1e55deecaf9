package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/proppilot/internal/auth"
	"github.com/csheth/proppilot/internal/config"
	"github.com/csheth/proppilot/internal/storage"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func TestProposalsFiltersByStatus(t *testing.T) {
	out, err := execute(t, "proposals", "--status", "won", "--storage", statePath(t))

	require.NoError(t, err)
	assert.Contains(t, out, "Mobile App Development")
	assert.NotContains(t, out, "Website Redesign")
	assert.Contains(t, out, "TITLE")
}

func TestProposalsSortsByClient(t *testing.T) {
	out, err := execute(t, "proposals", "--sort", "client", "--storage", statePath(t))

	require.NoError(t, err)
	enterprise := strings.Index(out, "Enterprise Solutions")
	fintech := strings.Index(out, "FinTech Startup")
	techcorp := strings.Index(out, "TechCorp Inc.")
	require.True(t, enterprise >= 0 && fintech >= 0 && techcorp >= 0, out)
	assert.Less(t, enterprise, fintech)
	assert.Less(t, fintech, techcorp)
}

func TestProposalsQueryWithoutMatches(t *testing.T) {
	out, err := execute(t, "proposals", "-q", "zeppelin", "--storage", statePath(t))

	require.NoError(t, err)
	assert.Equal(t, "No proposals match your filters.\n", out)
}

func TestProposalsRejectsUnknownStatus(t *testing.T) {
	_, err := execute(t, "proposals", "--status", "archived", "--storage", statePath(t))
	assert.Error(t, err)
}

func TestLogoutRemovesStoredUser(t *testing.T) {
	path := statePath(t)
	store := storage.NewFileStore(path)
	session, err := auth.NewSession(store, nil)
	require.NoError(t, err)
	require.NoError(t, session.Login("Ada"))

	out, err := execute(t, "logout", "--storage", path)

	require.NoError(t, err)
	assert.Equal(t, "Signed out Ada.\n", out)
	_, ok, err := storage.NewFileStore(path).Get(auth.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	out, err = execute(t, "logout", "--storage", path)
	require.NoError(t, err)
	assert.Equal(t, "No user was signed in.\n", out)
}

func TestAnalyzeRejectsUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brief.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := execute(t, "analyze", path, "--storage", statePath(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file type (only PDF, DOCX).")
}

func TestAnalyzeListsRequirements(t *testing.T) {
	t.Setenv("PROPPILOT_ANALYZE_DELAY", "0s")
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:document/>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	path := filepath.Join(t.TempDir(), "rfp.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	out, err := execute(t, "analyze", path, "--storage", statePath(t))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "rfp.docx (DOCX, "), out)
	for _, id := range []string{"req1", "req2", "req3", "req4"} {
		assert.Contains(t, out, id)
	}
}

func TestSettingsPrintsDefaults(t *testing.T) {
	out, err := execute(t, "settings", "--storage", statePath(t))

	require.NoError(t, err)
	assert.Contains(t, out, "theme: system")
	assert.Contains(t, out, "autoSave: true")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proppilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: shouty\n"), 0o644))

	_, err := execute(t, "proposals", "--config", path)

	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestZeroDelayMeansImmediate(t *testing.T) {
	assert.Equal(t, time.Duration(-1), immediate(0))
	assert.Equal(t, 2*time.Second, immediate(2*time.Second))
}
