package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent transaction submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		limit, _ := cmd.Flags().GetInt("limit")

		history, err := appInstance.Storage.GetSubmissionHistory(ctx, limit)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Println("No submissions recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tREGION\tATTEMPTS\tSTATUS\tSIGNATURE")
		fmt.Fprintln(w, "----\t------\t--------\t------\t---------")

		for _, sub := range history {
			statusStr := unreachableStyle.Render("FAIL")
			detail := sub.Error
			if sub.Success {
				statusStr = fastestStyle.Render("OK")
				detail = sub.Signature
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				sub.SentAt.Format("2006-01-02 15:04:05"),
				sub.Region, sub.Attempts, statusStr, truncate(detail, 44))
		}
		w.Flush()

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of history entries")
	rootCmd.AddCommand(historyCmd)
}
