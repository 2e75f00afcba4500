package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"canon-tui/internal/cache"
	"canon-tui/internal/provider"
	"canon-tui/internal/settings"
	"canon-tui/internal/ui"
)

var (
	flagModule     string
	flagSecondary  string
	flagCommentary string
	flagTimeout    time.Duration
	flagCacheSize  int
	flagDebug      bool
)

var rootCmd = &cobra.Command{
	Use:   "canon-tui",
	Short: "Terminal reader and study tool for SWORD-style text modules",
	Long: `canon-tui reads and cross-studies installed text modules through the
diatheke command line tool: single, parallel and study layouts with
cross-reference extraction and keyword-in-context search.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagModule, "module", "m", "", "bible module to open")
	rootCmd.Flags().StringVar(&flagSecondary, "secondary", "", "secondary bible module for parallel mode")
	rootCmd.Flags().StringVar(&flagCommentary, "commentary", "", "commentary module for study mode")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-lookup timeout (default 8s)")
	rootCmd.Flags().IntVar(&flagCacheSize, "cache-size", 0, "lookup cache capacity in entries")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "log to canon-tui.log")
}

func run(cmd *cobra.Command, args []string) error {
	if flagDebug {
		f, err := tea.LogToFile("canon-tui.log", "debug")
		if err != nil {
			return err
		}
		defer f.Close()
	}

	cfg, err := settings.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if flagModule != "" {
		cfg.DefaultModule = flagModule
	}
	if flagSecondary != "" {
		cfg.SecondaryModule = flagSecondary
	}
	if flagCommentary != "" {
		cfg.CommentaryModules = []string{flagCommentary}
	}
	if flagCacheSize > 0 {
		cfg.CacheCapacity = flagCacheSize
	}

	var opts []provider.DiathekeOption
	if flagTimeout > 0 {
		opts = append(opts, provider.WithTimeout(flagTimeout))
	}
	gateway := provider.NewDiatheke(opts...)
	if !gateway.Available() {
		return fmt.Errorf("diatheke not found in PATH; install the SWORD tools first")
	}

	store, err := cache.New(gateway, cfg.CacheCapacity)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		ui.NewModel(store, gateway, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
