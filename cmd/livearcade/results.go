package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/platform/tui"
	"github.com/vovakirdan/live-arcade/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagBrowse bool
	flagID     string
	flagClear  bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [mode]",
	Short: "Show stored session results",
	Long: `Display stored session results, best score first.

Without a mode argument every mode is ranked together.

Examples:
  livearcade results
  livearcade results boss --limit 20
  livearcade results --recent
  livearcade results --id 01JAB3Q9Z4N6X2W8V0RS5T7KME
  livearcade results --browse
  livearcade results wheel --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to show")
	resultsCmd.Flags().BoolVar(&flagRecent, "recent", false, "Newest sessions first instead of best score")
	resultsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive results browser")
	resultsCmd.Flags().StringVar(&flagID, "id", "", "Show one session in detail")
	resultsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the stored sessions of the mode")
}

func runResults(_ *cobra.Command, args []string) error {
	modeID := ""
	if len(args) == 1 {
		modeID = args[0]
		if !mode.Exists(modeID) {
			return fmt.Errorf("unknown mode %q, run 'livearcade list' to see available modes", modeID)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(flagLogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg.Storage.Enabled = true
	store := openStore(cfg.Storage, logger)
	if store == nil {
		return fmt.Errorf("cannot open results database")
	}
	defer store.Close()

	switch {
	case flagBrowse:
		rc := runtimeConfig(cfg)
		_, err := tui.RunResults(store, rc.ScreenW, rc.ScreenH)
		return err
	case flagID != "":
		return showResult(store, flagID)
	case flagClear:
		if modeID == "" {
			return fmt.Errorf("--clear needs a mode argument")
		}
		if err := store.ClearResults(modeID); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s.\n", modeID)
		return nil
	}

	var results []storage.Result
	if flagRecent {
		results, err = recentResults(store, modeID, flagLimit)
	} else {
		results, err = store.TopResults(modeID, flagLimit)
	}
	if err != nil {
		return err
	}

	title := "All modes"
	for _, info := range mode.List() {
		if info.ID == modeID {
			title = info.Title
		}
	}
	order := "Top sessions"
	if flagRecent {
		order = "Recent sessions"
	}
	fmt.Printf("%s - %s\n", order, title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'livearcade play --demo' to record a first session!")
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-7s  %-16s  %-7s  %-6s  %-8s  %s\n",
		"Rank", "Mode", "Score", "Winner", "Viewers", "Likes", "Length", "Date")
	fmt.Printf("  %-4s  %-6s  %-7s  %-16s  %-7s  %-6s  %-8s  %s\n",
		"----", "----", "-----", "------", "-------", "-----", "------", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-6s  %-7d  %-16s  %-7d  %-6d  %-8s  %s\n",
			i+1, r.ModeID, r.Score, truncate(r.Winner, 16), r.Viewers, r.Counters.Likes,
			r.Duration.Round(time.Second), r.StartedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.ModeStats(modeID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Sessions: %d  Best: %d  Likes: %d  Gifts: %d  Coins: %d  Streamed: %s\n",
			stats.Sessions, stats.BestScore, stats.TotalLikes, stats.TotalGifts, stats.TotalCoins,
			stats.TotalTime.Round(time.Second))
	}
	return nil
}

func showResult(store *storage.Store, id string) error {
	r, err := store.ResultByID(id)
	if err != nil {
		return err
	}
	if r == nil {
		fmt.Fprintf(os.Stderr, "No session with id %s.\n", id)
		return nil
	}

	fmt.Printf("Session      %s\n", r.ID)
	fmt.Printf("Mode         %s\n", r.ModeID)
	fmt.Printf("Started      %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Length       %s\n", r.Duration.Round(time.Second))
	fmt.Printf("Score        %d\n", r.Score)
	fmt.Printf("Winner       %s (%d)\n", r.Winner, r.WinnerScore)
	fmt.Printf("Viewers      %d of %d participants\n", r.Viewers, r.Participants)
	fmt.Printf("Hype boosts  %d\n", r.Boosts)
	fmt.Printf("Chats %d  Likes %d  Gifts %d  Coins %d  Joins %d  Shares %d\n",
		r.Counters.Chats, r.Counters.Likes, r.Counters.Gifts, r.Counters.Coins, r.Counters.Joins, r.Counters.Shares)
	return nil
}

// recentResults returns the newest sessions, narrowed to one mode when set.
func recentResults(store *storage.Store, modeID string, limit int) ([]storage.Result, error) {
	fetch := limit
	if modeID != "" {
		fetch = limit * 10
	}
	all, err := store.RecentResults(fetch)
	if err != nil || modeID == "" {
		return all, err
	}
	out := make([]storage.Result, 0, limit)
	for _, r := range all {
		if r.ModeID == modeID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if s == "" {
		return "-"
	}
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "."
	}
	return s
}
