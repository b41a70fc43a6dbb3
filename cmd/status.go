package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/munistats/internal/runlog"
)

var statusOpts struct {
	limit int
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent dataset runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := runlog.Open(cfg.RunLogPath())
		if err != nil {
			return err
		}
		defer log.Close()

		entries, err := log.Recent(cmd.Context(), statusOpts.limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATASET\tSTATUS\tSTARTED\tROWS\tERROR")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				e.Dataset, e.Status, e.StartedAt.Format("2006-01-02 15:04:05"), e.Rows, truncate(e.Error, 60))
		}
		return w.Flush()
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func init() {
	statusCmd.Flags().IntVar(&statusOpts.limit, "limit", 20, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}
