package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wordnet/internal/retention"
	"github.com/example/wordnet/pkg/models"
)

var (
	meaningFlag   string
	morphemesFlag []string
	limitFlag     int
)

var addCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add a word and schedule it for review now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			w := models.Word{
				ID:        strings.TrimSpace(args[0]),
				Meaning:   meaningFlag,
				Morphemes: morphemesFlag,
			}
			if w.ID == "" {
				return fmt.Errorf("word must not be empty")
			}
			if err := a.engine.AddWord(ctx, w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", w.ID)
			return nil
		})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <word>",
	Short: "Archive a word and remove it from the review queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.engine.ArchiveWord(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %q\n", args[0])
			return nil
		})
	},
}

var weakCmd = &cobra.Command{
	Use:   "weak",
	Short: "List the weakest active words",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			limit := limitFlag
			if limit <= 0 {
				limit = a.cfg.WeakWordLimit
			}
			words, err := a.engine.SelectWeakest(ctx, limit)
			if err != nil {
				return err
			}
			return printWords(cmd, words)
		})
	},
}

var rootsCmd = &cobra.Command{
	Use:   "roots <morpheme>",
	Short: "List active words built on a morpheme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			words, err := a.engine.WordsByRoot(ctx, args[0])
			if err != nil {
				return err
			}
			return printWords(cmd, words)
		})
	},
}

func printWords(cmd *cobra.Command, words []models.Word) error {
	if formatFlag == "json" {
		return printJSON(cmd, words)
	}
	out := cmd.OutOrStdout()
	if len(words) == 0 {
		fmt.Fprintln(out, "No words.")
		return nil
	}
	for _, w := range words {
		mark := " "
		if retention.IsMastered(w) {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-20s %.2f  %-24s %s\n", mark, w.ID, w.Strength, strings.Join(w.Morphemes, "+"), w.Meaning)
	}
	return nil
}

func init() {
	addCmd.Flags().StringVarP(&meaningFlag, "meaning", "m", "", "Meaning or translation")
	addCmd.Flags().StringSliceVar(&morphemesFlag, "morphemes", nil, "Roots and affixes, comma separated (e.g. re,struct,ure)")
	weakCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Number of words (default: $WEAK_WORD_LIMIT)")

	RootCmd.AddCommand(addCmd, archiveCmd, weakCmd, rootsCmd)
}
