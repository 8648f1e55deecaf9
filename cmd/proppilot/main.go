package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/csheth/proppilot/internal/auth"
	"github.com/csheth/proppilot/internal/catalog"
	"github.com/csheth/proppilot/internal/config"
	"github.com/csheth/proppilot/internal/intake"
	"github.com/csheth/proppilot/internal/logging"
	"github.com/csheth/proppilot/internal/settings"
	"github.com/csheth/proppilot/internal/storage"
	"github.com/csheth/proppilot/internal/tui"
)

var (
	// Global flags
	configPath    string
	storagePath   string
	noAltScreen   bool
	verbose       bool
	responseDelay time.Duration

	// proposals flags
	listQuery  string
	listStatus string
	listSort   string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "proppilot",
	Short: "PropPilot - proposal workspace in the terminal",
	Long: `PropPilot keeps your proposal pipeline, an assistant chat that edits the
draft, and the slide editor in one terminal workspace.

Run without arguments to start the interactive workspace.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("storage") {
			loaded.StoragePath = storagePath
		}
		if cmd.Flags().Changed("response-delay") {
			loaded.ResponseDelay = responseDelay
		}
		if noAltScreen {
			loaded.AltScreen = false
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogPath, cfg.LogLevel, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWorkspace,
}

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "List proposals with optional search, status filter and sort",
	Args:  cobra.NoArgs,
	RunE:  runProposals,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Check an RFP upload and list the requirements extracted from it",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the saved workspace settings",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "local state file (default ./proppilot.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging (needs log_path)")
	rootCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	rootCmd.Flags().DurationVar(&responseDelay, "response-delay", 0, "assistant thinking time (0 replies at once)")

	proposalsCmd.Flags().StringVarP(&listQuery, "query", "q", "", "match title or client")
	proposalsCmd.Flags().StringVar(&listStatus, "status", "all", "draft, in-review, sent, won, lost or all")
	proposalsCmd.Flags().StringVar(&listSort, "sort", string(catalog.SortRecent), "recent, name, client, status, value, progress or due")

	rootCmd.AddCommand(proposalsCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// immediate maps a configured zero delay to the negative value the workspace
// treats as "no delay".
func immediate(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}

func runWorkspace(cmd *cobra.Command, args []string) error {
	store := storage.NewFileStore(cfg.StoragePath)
	session, err := auth.NewSession(store, logger)
	if err != nil {
		return err
	}
	prefs, err := settings.Load(store, logger)
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Session:        session,
		Settings:       prefs,
		Catalog:        catalog.New(catalog.Seed(), logger),
		Logger:         logger,
		ResponseDelay:  immediate(cfg.ResponseDelay),
		ExportDelay:    immediate(cfg.ExportDelay),
		AnalyzeDelay:   immediate(cfg.AnalyzeDelay),
		GenerationTick: cfg.GenerationTick,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}), opts...)

	logger.Info("workspace starting", zap.String("storage", cfg.StoragePath), zap.Bool("alt_screen", cfg.AltScreen))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runProposals(cmd *cobra.Command, args []string) error {
	status, err := catalog.ParseStatus(listStatus)
	if err != nil {
		return err
	}
	cat := catalog.New(catalog.Seed(), logger)
	rows := cat.List(catalog.Query{Text: listQuery, Status: status, Sort: catalog.ParseSortKey(listSort)})
	return writeProposals(cmd.OutOrStdout(), rows)
}

func writeProposals(w io.Writer, rows []catalog.Summary) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No proposals match your filters.")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TITLE", "CLIENT", "STATUS", "PROGRESS", "DUE", "VALUE", "MODIFIED")
	for _, s := range rows {
		t.Row(s.Title, s.Client, string(s.Status), fmt.Sprintf("%d%%", s.Progress), dash(s.DueDate), dash(s.Value), s.LastModified)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func runLogout(cmd *cobra.Command, args []string) error {
	session, err := auth.NewSession(storage.NewFileStore(cfg.StoragePath), logger)
	if err != nil {
		return err
	}
	name := session.State().UserName
	if err := session.Logout(); err != nil {
		return err
	}
	if name == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "No user was signed in.")
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s.\n", name)
	return err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	acceptor := intake.NewAcceptor(cfg.MaxUploadBytes, logger)
	upload, err := acceptor.AcceptFile(args[0])
	if err != nil {
		return err
	}
	analyzer := &intake.Analyzer{Delay: max(cfg.AnalyzeDelay, 0), Logger: logger}
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AnalyzeDelay+30*time.Second)
	defer cancel()
	reqs, err := analyzer.Extract(ctx, upload)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	detail := fmt.Sprintf("%.1f MB", upload.SizeMB())
	if upload.Pages > 0 {
		detail += fmt.Sprintf(", %d pages", upload.Pages)
	}
	fmt.Fprintf(out, "%s (%s, %s)\n", upload.Name, strings.ToUpper(string(upload.Kind)), detail)
	for _, req := range reqs {
		fmt.Fprintf(out, "  %s  %s\n", req.ID, req.Text)
	}
	return nil
}

func runSettings(cmd *cobra.Command, args []string) error {
	prefs, err := settings.Load(storage.NewFileStore(cfg.StoragePath), logger)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(prefs.Current())
}
