package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordnet/internal/excel"
)

var forceFlag bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			stats, err := a.engine.Statistics(ctx)
			if err != nil {
				return err
			}
			if formatFlag == "json" {
				return printJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Words:    %d\nMastered: %d\nDue:      %d\n", stats.WordCount, stats.MasteredCount, stats.DueCount)
			if len(stats.Roots) > 0 {
				fmt.Fprintln(out, "\nRoots:")
				for _, r := range stats.Roots {
					fmt.Fprintf(out, "  %-12s %3d word(s)  avg %.2f\n", r.Morpheme, r.WordCount, r.AvgStrength)
				}
			}
			return nil
		})
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Print the number of words due now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			n, err := a.engine.DueCount(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Schedule every active word that has no review entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRawApp(cmd, func(ctx context.Context, a *app) error {
			n, err := a.engine.Reconcile(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d review entries\n", n)
			return nil
		})
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Discard all review progress and schedule every word for now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !forceFlag {
			return fmt.Errorf("rebuild discards all review progress, pass --force to confirm")
		}
		return withRawApp(cmd, func(ctx context.Context, a *app) error {
			n, err := a.engine.Rebuild(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %d review entries\n", n)
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Make every word due now, keeping its progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.engine.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All words are due")
			return nil
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every active word has a review entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Missing entries are reported here, not healed.
		return withRawApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.engine.CheckIntegrity(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx|file.csv>",
	Short: "Export review progress to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			progress, err := a.engine.Progress(ctx)
			if err != nil {
				return err
			}
			n, err := excel.ExportProgress(excel.ExportConfig{FilePath: args[0]}, progress)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words to %s\n", n, args[0])
			return nil
		})
	},
}

func init() {
	rebuildCmd.Flags().BoolVar(&forceFlag, "force", false, "Confirm discarding review progress")
	RootCmd.AddCommand(statsCmd, dueCmd, reconcileCmd, rebuildCmd, resetCmd, checkCmd, exportCmd)
}
