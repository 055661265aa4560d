// Package main provides the CLI entrypoint for grindstone.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"grindstone/internal/catalog"
	"grindstone/internal/config"
	"grindstone/internal/daykey"
	"grindstone/internal/engine"
	"grindstone/internal/mirror"
	"grindstone/internal/model"
	"grindstone/internal/report"
	"grindstone/internal/store"
	"grindstone/internal/tui"
)

const (
	defaultBossMinutes  = 25
	defaultArenaMinutes = 50
)

var (
	sessionBossMinutes  int
	sessionArenaMinutes int
	sessionMirrorURL    string
	sessionNoMirror     bool

	statsKind string
	statsLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "grindstone",
		Short:         "TUI self-discipline trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().IntVar(&sessionBossMinutes, "boss-minutes", defaultBossMinutes, "boss fight duration in minutes")
	rootCmd.Flags().IntVar(&sessionArenaMinutes, "arena-minutes", defaultArenaMinutes, "focus arena duration in minutes")
	rootCmd.Flags().StringVar(&sessionMirrorURL, "mirror-url", "", "remote mirror base URL (empty: disabled)")
	rootCmd.Flags().BoolVar(&sessionNoMirror, "no-mirror", false, "disable the remote mirror")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newTodayCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Persistence is best-effort: without the store the engine still runs
	// every session, it just cannot remember them across reloads.
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db, continuing without persistence: %v\n", err)
		st = nil
	}
	defer func() {
		if st == nil {
			return
		}
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var mc *mirror.Client
	if cfg.MirrorEnabled && cfg.MirrorURL != "" {
		mc = mirror.New(cfg.MirrorURL, engine.InstallID(st))
	}

	mgr := engine.NewManager(daykey.SystemClock{}, st, mc)
	program := tea.NewProgram(tui.NewModel(mgr, cfg), tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "boss-minutes", &sessionBossMinutes, fileCfg.Sessions.BossMinutes)
	applyIntConfig(cmd, "arena-minutes", &sessionArenaMinutes, fileCfg.Sessions.ArenaMinutes)
	applyStringConfig(cmd, "mirror-url", &sessionMirrorURL, fileCfg.Mirror.URL)

	mirrorEnabled := !sessionNoMirror
	if fileCfg.Mirror.Enabled != nil && !cmd.Flags().Changed("no-mirror") {
		mirrorEnabled = *fileCfg.Mirror.Enabled
	}

	cfg := model.Config{
		BossMinutes:   sessionBossMinutes,
		ArenaMinutes:  sessionArenaMinutes,
		MirrorURL:     sessionMirrorURL,
		MirrorEnabled: mirrorEnabled,
	}
	if cfg.BossMinutes <= 0 {
		return model.Config{}, fmt.Errorf("--boss-minutes must be > 0")
	}
	if cfg.ArenaMinutes <= 0 {
		return model.Config{}, fmt.Errorf("--arena-minutes must be > 0")
	}
	return cfg, nil
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streak and session history",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsKind, "kind", "", "filter by session kind (daily, boss, arena)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	mgr := engine.NewManager(daykey.SystemClock{}, st, nil)
	rep, err := report.Build(context.Background(), st, mgr.StreakRecord(), mgr.Today(), model.StatsConfig{
		Kind: statsKind,
		Last: statsLast,
	})
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), rep, report.TerminalWidth())
}

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's challenge and crowd size",
		Args:  cobra.NoArgs,
		RunE:  runTodayCmd,
	}
}

func runTodayCmd(cmd *cobra.Command, _ []string) error {
	today := daykey.Today(daykey.SystemClock{})
	ch := catalog.ChallengeFor(today)
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s · %s\n", today, ch.Title); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out, ch.Description); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Crowd: %d\n", catalog.CrowdSizeFor(today)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# grindstone configuration
# Uncomment a value to enable it. CLI flags override config values.

[sessions]
# boss-minutes = %d       # Boss fight duration
# arena-minutes = %d      # Focus arena duration

[mirror]
# url = ""                # Remote mirror base URL
# enabled = true          # Mirror session outcomes (best-effort)
`,
		defaultBossMinutes,
		defaultArenaMinutes,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
