// Package main provides the CLI entrypoint for decalc.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mkruglikov/decalc/internal/calc"
	"github.com/mkruglikov/decalc/internal/config"
	"github.com/mkruglikov/decalc/internal/history"
	"github.com/mkruglikov/decalc/internal/logging"
	"github.com/mkruglikov/decalc/internal/stats"
	"github.com/mkruglikov/decalc/internal/store"
	"github.com/mkruglikov/decalc/internal/tui"
)

var (
	flagMaxHistory  int
	flagPrecision   int
	flagMaxInput    string
	flagAutoSave    bool
	flagHistoryFile string
	flagDBFile      string
	flagLogFile     string

	statsRecent int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "decalc",
		Short:         "Interactive decimal calculator with undoable, persistent history",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	defaults := config.Default()
	rootCmd.PersistentFlags().IntVar(&flagMaxHistory, "max-history", defaults.MaxHistorySize, "maximum number of retained history records")
	rootCmd.PersistentFlags().IntVar(&flagPrecision, "precision", defaults.Precision, "decimal places used for result consistency checks")
	rootCmd.PersistentFlags().StringVar(&flagMaxInput, "max-input", "", "maximum operand magnitude (default 1e999)")
	rootCmd.PersistentFlags().BoolVar(&flagAutoSave, "auto-save", defaults.AutoSave, "save history after every calculation")
	rootCmd.PersistentFlags().StringVar(&flagHistoryFile, "history-file", "", "history CSV path (default XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagDBFile, "stats-db", "", "usage statistics database path (default XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "session log path (default XDG data dir)")

	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	session, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer session.close()

	program := tea.NewProgram(tui.NewModel(session.calculator), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <operation> <x> <y>",
		Short: "Evaluate one operation and print the result",
		Args:  cobra.ExactArgs(3),
		RunE:  runEvalCmd,
	}
}

func runEvalCmd(cmd *cobra.Command, args []string) error {
	session, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer session.close()

	if err := session.calculator.SetOperationByName(args[0]); err != nil {
		return err
	}
	result, err := session.calculator.PerformOperation(args[1], args[2])
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), result.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the persisted calculation history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	settings, logger, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	records, err := history.NewFile(settings.HistoryFile, nil, logger).Load()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		return writeLines(cmd, []string{"No history to display"})
	}

	headers := []string{"#", "OPERATION", "OPERANDX", "OPERANDY", "RESULT", "TIMESTAMP"}
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rec.Operation,
			rec.OperandX.String(),
			rec.OperandY.String(),
			rec.Result.String(),
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
		})
	}
	lines := stats.FormatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true})
	return writeLines(cmd, clampToTerminal(lines))
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-operation usage statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsRecent, "recent", 0, "also list the N most recent calculations")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	settings, logger, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	st, err := store.Open(settings.DBFile)
	if err != nil {
		return fmt.Errorf("failed to open stats db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close stats db", zap.Error(cerr))
		}
	}()

	ctx := context.Background()
	report, err := stats.BuildReport(ctx, st)
	if err != nil {
		return fmt.Errorf("failed to build stats report: %w", err)
	}
	lines := stats.RenderTable(report, terminalWidth())

	if statsRecent > 0 {
		recent, err := st.ListRecent(ctx, statsRecent)
		if err != nil {
			return fmt.Errorf("failed to list recent calculations: %w", err)
		}
		lines = append(lines, "")
		for _, rec := range recent {
			lines = append(lines, rec.String())
		}
	}
	return writeLines(cmd, lines)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// session bundles a wired calculator with its resource closers.
type session struct {
	calculator *calc.Calculator
	logger     *zap.Logger
	statsStore *store.Store
}

func (s *session) close() {
	if s.statsStore != nil {
		if err := s.statsStore.Close(); err != nil {
			s.logger.Warn("failed to close stats db", zap.Error(err))
		}
	}
	syncLogger(s.logger)
}

// openSession resolves settings and wires the calculator with its history
// file store, statistics store and observers, then loads persisted history.
func openSession(cmd *cobra.Command) (*session, error) {
	settings, logger, err := resolveSettings(cmd)
	if err != nil {
		return nil, err
	}

	histFile := history.NewFile(settings.HistoryFile, nil, logger)
	statsStore, err := store.Open(settings.DBFile)
	if err != nil {
		syncLogger(logger)
		return nil, fmt.Errorf("failed to open stats db: %w", err)
	}

	calculator := calc.New(settings, nil, logger, histFile)
	calculator.AddObserver(calc.NewLoggingObserver(logger))
	autoSave, err := calc.NewAutoSaveObserver(calculator)
	if err != nil {
		syncLogger(logger)
		return nil, err
	}
	calculator.AddObserver(autoSave)
	calculator.AddObserver(store.NewRecorder(statsStore, logger))

	if err := calculator.LoadHistory(); err != nil {
		// A broken history file must not block a new session.
		logger.Warn("history load failed at startup", zap.Error(err))
	}

	return &session{calculator: calculator, logger: logger, statsStore: statsStore}, nil
}

func resolveSettings(cmd *cobra.Command) (config.Settings, *zap.Logger, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.Settings{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.ParseEnv()
	if err != nil {
		return config.Settings{}, nil, err
	}
	settings, err := config.Resolve(fileCfg, envCfg)
	if err != nil {
		return config.Settings{}, nil, err
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("max-history") {
		settings.MaxHistorySize = flagMaxHistory
	}
	if flags.Changed("precision") {
		settings.Precision = flagPrecision
	}
	if flags.Changed("max-input") {
		parsed, err := decimal.NewFromString(flagMaxInput)
		if err != nil {
			return config.Settings{}, nil, fmt.Errorf("invalid --max-input value: %q", flagMaxInput)
		}
		settings.MaxInputValue = parsed
	}
	if flags.Changed("auto-save") {
		settings.AutoSave = flagAutoSave
	}
	if flags.Changed("history-file") {
		settings.HistoryFile = flagHistoryFile
	}
	if flags.Changed("stats-db") {
		settings.DBFile = flagDBFile
	}
	if flags.Changed("log-file") {
		settings.LogFile = flagLogFile
	}
	if err := settings.Validate(); err != nil {
		return config.Settings{}, nil, err
	}

	logger, err := logging.NewLogger(settings.LogFile)
	if err != nil {
		return config.Settings{}, nil, err
	}
	return settings, logger, nil
}

func syncLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	// Sync on stderr-less sinks can fail harmlessly.
	_ = logger.Sync()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func clampToTerminal(lines []string) []string {
	return stats.ClampLines(lines, terminalWidth())
}

func writeLines(cmd *cobra.Command, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func defaultConfigTemplate() string {
	defaults := config.Default()
	return fmt.Sprintf(`# decalc configuration
# Uncomment a value to enable it. DECALC_* environment variables override
# config values, and CLI flags override both.

[calc]
# precision = %d          # Decimal places for result consistency checks
# max-input = "1e999"     # Maximum operand magnitude

[history]
# max-size = %d         # Maximum retained history records
# auto-save = %t        # Save history after every calculation
# file = ""               # History CSV path
# stats-db = ""           # Usage statistics database path

[log]
# file = ""               # Session log path
`,
		defaults.Precision,
		defaults.MaxHistorySize,
		defaults.AutoSave,
	)
}
