package cli

import (
	"fmt"
	"strings"

	"github.com/rapportlabs/rapport/internal/interests"
	"github.com/spf13/cobra"
)

var interestsFile string

// interestsCmd manages the interests file used for claim generation
var interestsCmd = &cobra.Command{
	Use:   "interests",
	Short: "Manage your interests file",
	Long: `Manage the interests file that personalizes outreach reports.

Interests only surface in a report when an accepted fact confirms the
other person shares them; they never introduce unverified claims.`,
}

var interestsAddCmd = &cobra.Command{
	Use:   "add <interest>",
	Short: "Add an interest",
	Long: `Append one interest to the "## Interests" section of the interests file,
creating the file or the section if needed.

Example:
  rapport interests add "Distributed systems"
  rapport interests add "Trail running" --file notes/me.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := strings.Join(args, " ")
		if err := interests.Append(interestsFile, entry); err != nil {
			return fmt.Errorf("add interest: %w", err)
		}
		fmt.Printf("✓ Added to %s: %s\n", interestsFile, entry)
		return nil
	},
}

var interestsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List configured interests",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := interests.Load(interestsFile)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No interests configured in %s\n", interestsFile)
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("- %s\n", entry)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interestsCmd)
	interestsCmd.PersistentFlags().StringVar(&interestsFile, "file", "my_interests.md", "path to the interests file")
	interestsCmd.AddCommand(interestsAddCmd)
	interestsCmd.AddCommand(interestsShowCmd)
}
