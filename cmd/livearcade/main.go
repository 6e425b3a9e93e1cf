// livearcade turns a live stream's chat, likes, gifts and joins into a
// shared arcade game rendered in the terminal.
//
// Usage:
//
//	livearcade list               - List available modes
//	livearcade play [mode]        - Host a session in this terminal
//	livearcade menu               - Pick modes interactively
//	livearcade serve              - Serve sessions to SSH viewers
//	livearcade results [mode]     - Show stored session results
//
// Global flags:
//
//	--config <path> - Session config YAML (default search order applies)
//	--fps <rate>    - Repaint rate (default: from config)
//	--seed <value>  - RNG seed for reproducible sessions
//	--db <path>     - Results database (default: ~/.livearcade/results.db)
//	--log <path>    - Log file while the terminal UI runs
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import modes to register them
	_ "github.com/vovakirdan/live-arcade/internal/modes/arena"
	_ "github.com/vovakirdan/live-arcade/internal/modes/boss"
	_ "github.com/vovakirdan/live-arcade/internal/modes/field"
	_ "github.com/vovakirdan/live-arcade/internal/modes/quiz"
	_ "github.com/vovakirdan/live-arcade/internal/modes/racer"
	_ "github.com/vovakirdan/live-arcade/internal/modes/wheel"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogPath  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "livearcade",
	Short: "Live Arcade - stream-driven games in your terminal",
	Long: `Live Arcade renders a game your stream's audience plays together.
Chat commands, likes, gifts, shares and joins drive the active mode;
the host only picks, pauses and swaps modes.

Available commands:
  list     - Show all available modes
  play     - Host a session in this terminal
  menu     - Interactive mode picker
  serve    - Serve independent sessions to SSH viewers
  results  - View stored session results

Examples:
  livearcade list
  livearcade play boss --demo
  livearcade play quiz --feed wss://relay.example/stream
  livearcade play --listen :8089
  livearcade serve --ssh :2222 --demo
  livearcade results wheel`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to session config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Repaint rate (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (default ~/.livearcade/results.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Log file (default ~/.livearcade/livearcade.log)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resultsCmd)
}
