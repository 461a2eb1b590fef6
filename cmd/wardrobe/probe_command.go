package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/wardrobe/internal/probe"
)

var errProbeFailed = errors.New("probe found problems")

func newProbeCommand(opts *globalOptions) *cobra.Command {
	cfg := probe.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Exercise a running server and check its answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := probe.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if !wantTable(cmd, opts.jsonOutput) {
				if err := writeJSON(cmd, probeSummary(stats)); err != nil {
					return err
				}
			} else {
				rows := [][]string{
					{"queries sent", strconv.Itoa(stats.QueriesSent)},
					{"queries failed", strconv.Itoa(stats.QueriesFailed)},
					{"empty results", strconv.Itoa(stats.EmptyResults)},
					{"characters accepted", strconv.Itoa(stats.CharactersAccepted)},
					{"characters duplicate", strconv.Itoa(stats.CharactersDuplicate)},
					{"characters failed", strconv.Itoa(stats.CharactersFailed)},
					{"violations", strconv.Itoa(len(stats.Violations))},
					{"duration", stats.Duration.String()},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			}

			if !stats.OK() {
				return errProbeFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the server")
	cmd.Flags().IntVar(&cfg.Queries, "queries", cfg.Queries, "Number of descriptions to match")
	cmd.Flags().IntVar(&cfg.Characters, "characters", cfg.Characters, "Number of characters to submit")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent workers")
	cmd.Flags().IntVar(&cfg.MaxResults, "max-results", cfg.MaxResults, "Result cap the server is configured with")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for generated descriptions")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Log every violation")

	return cmd
}

func probeSummary(stats *probe.Stats) map[string]any {
	return map[string]any{
		"queries_sent":         stats.QueriesSent,
		"queries_failed":       stats.QueriesFailed,
		"empty_results":        stats.EmptyResults,
		"characters_submitted": stats.CharactersSubmitted,
		"characters_accepted":  stats.CharactersAccepted,
		"characters_duplicate": stats.CharactersDuplicate,
		"characters_failed":    stats.CharactersFailed,
		"violations":           stats.Violations,
		"duration":             stats.Duration.String(),
		"ok":                   stats.OK(),
	}
}
