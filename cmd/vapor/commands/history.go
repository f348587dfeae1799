package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaket/vapor/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history [stack-name]",
		Short: "Show the local deployment history",
		Long: `List recorded deploy and delete attempts from the local history
database, newest first. Records are written by engines configured
with a stores.SQLiteStore recorder.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stackName := ""
			if len(args) > 0 {
				stackName = args[0]
			}

			store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
			if err != nil {
				return err
			}
			if err := store.Init(cmd.Context()); err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListDeployments(cmd.Context(), stackName, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No deployment history found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tSTACK\tACTION\tMODE\tOUTCOME\tCHANGESET")
			for _, rec := range records {
				mode := "apply"
				if rec.DryRun {
					mode = "dryrun"
				}
				outcome := "ok"
				if !rec.Succeeded {
					outcome = "failed"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.StartedAt.Format(time.RFC3339),
					rec.StackName,
					rec.Action,
					mode,
					outcome,
					rec.Changeset,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "vapor-history.db", "history database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to show")

	return cmd
}
