package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/live-arcade/internal/mode"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long: `Shows every registered mode with the keywords used to pick it from
the stream title and description when no mode is configured.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes := mode.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	idLen, titleLen := 2, 5 // "ID", "Title" headers
	for _, m := range modes {
		idLen = max(idLen, len(m.ID))
		titleLen = max(titleLen, len(m.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", idLen, "ID", titleLen, "Title", "Keywords")
	fmt.Printf("  %-*s  %-*s  %s\n", idLen, "--", titleLen, "-----", "--------")

	for _, m := range modes {
		fmt.Printf("  %-*s  %-*s  %s\n", idLen, m.ID, titleLen, m.Title, strings.Join(m.Keywords, ", "))
	}

	fmt.Println()
	fmt.Printf("Default when nothing matches: %s\n", mode.DefaultID)
	fmt.Println("Run 'livearcade play <id>' to host a session.")
}
