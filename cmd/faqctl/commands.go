package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio-assistant/backend/internal/cache/redis"
	"github.com/portfolio-assistant/backend/internal/faq"
	"github.com/portfolio-assistant/backend/pkg/config"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the knowledge base and taxonomy files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.ui(cmd)

			kb, engine, err := opts.load()
			if err != nil {
				return err
			}

			var bare []string
			for _, r := range kb.FAQs {
				if !r.HasSuggestions() {
					bare = append(bare, r.ID)
				}
			}

			if ok, err := out.JSON(map[string]interface{}{
				"faqs":                engine.Records(),
				"without_suggestions": bare,
			}); ok {
				return err
			}

			out.Success("%d FAQs loaded from %s", engine.Records(), opts.faqPath)
			for _, id := range bare {
				out.Warning("%s has no suggestions and is never used for follow-ups", id)
			}
			return nil
		},
	}
}

func newAskCmd(opts *options) *cobra.Command {
	var answer string

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Show the reply the engine gives for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.ui(cmd)
			message := strings.Join(args, " ")

			_, engine, err := opts.load()
			if err != nil {
				return err
			}

			resp, res := engine.Explain(message)
			if answer != "" {
				resp = faq.Response{
					Response:    answer,
					Suggestions: engine.Suggest(message, answer),
				}
			}

			matched := ""
			if res.Match.Record != nil {
				matched = res.Match.Record.ID
			}

			if ok, err := out.JSON(map[string]interface{}{
				"response":    resp.Response,
				"suggestions": resp.Suggestions,
				"match":       matched,
				"score":       res.Match.Score,
				"intent":      res.Intent,
			}); ok {
				return err
			}

			switch {
			case answer != "":
				out.Info("suggestions ranked against the supplied answer")
			case res.Intent != "":
				out.Warning("no confident match (best score %d), intent %q", res.Match.Score, res.Intent)
			default:
				out.Success("matched %s with score %d", matched, res.Match.Score)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Response)
			for _, s := range resp.Suggestions {
				out.Item("%s", s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&answer, "answer", "", "rank suggestions against this generated answer instead")
	return cmd
}

type scoreRow struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

func newScoreCmd(opts *options) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "score <message>",
		Short: "List FAQ scores for a message, best first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.ui(cmd)
			message := strings.Join(args, " ")

			kb, engine, err := opts.load()
			if err != nil {
				return err
			}

			rows := make([]scoreRow, 0, len(kb.FAQs))
			for _, r := range kb.FAQs {
				rows = append(rows, scoreRow{ID: r.ID, Score: engine.Score(message, r)})
			}
			sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
			if top > 0 && top < len(rows) {
				rows = rows[:top]
			}

			if ok, err := out.JSON(rows); ok {
				return err
			}

			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", row.Score, row.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "number of rows to show (0 for all)")
	return cmd
}

func newCacheCmd(opts *options) *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Manage the generated answer cache",
	}

	cache.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Delete every cached generated answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.ui(cmd)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, err := redis.NewClient(ctx, cfg.Cache.Host, cfg.Cache.Port, cfg.Cache.Password, cfg.Cache.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			deleted, err := client.InvalidateAnswers(ctx)
			if err != nil {
				return err
			}

			if ok, err := out.JSON(map[string]int{"deleted": deleted}); ok {
				return err
			}
			out.Success("deleted %d cached answers", deleted)
			return nil
		},
	})

	return cache
}
