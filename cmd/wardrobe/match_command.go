package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/wardrobe/internal/domain/matcher"
	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/internal/domain/scoring"
)

func newMatchCommand(opts *globalOptions) *cobra.Command {
	var maxResults int
	var ranked bool

	cmd := &cobra.Command{
		Use:   "match <description...>",
		Short: "Build an avatar configuration for a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if maxResults <= 0 {
				maxResults = cfg.MaxResults
			}
			m := matcher.New(c,
				matcher.WithMaxResults(maxResults),
				matcher.WithScorer(scoring.NewScorer(scoring.WithWeightsFromConfig(cfg.ScoreWeights))),
			)

			description := strings.Join(args, " ")
			if ranked {
				matches := m.FindAssets(description)
				if !wantTable(cmd, opts.jsonOutput) {
					return writeJSON(cmd, matches)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderMatches(matches, nil))
				return nil
			}

			avatar := m.BuildAvatarConfiguration(description)
			if !wantTable(cmd, opts.jsonOutput) {
				return writeJSON(cmd, avatar)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderConfiguration(&avatar))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Cap on ranked matches (defaults to max_results from configuration)")
	cmd.Flags().BoolVar(&ranked, "ranked", false, "Print every ranked match instead of the configuration")

	return cmd
}

// renderMatches lays matches out as a table; keys maps asset id to the
// configuration key it was chosen for.
func renderMatches(matches []model.AssetMatch, keys map[string]string) string {
	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.ID,
			m.Name,
			slotLabel(m.Slot),
			strconv.Itoa(m.Score),
			keys[m.ID],
		})
	}
	return renderTable(
		[]string{"#", "ID", "Name", "Slot", "Score", "Key"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func renderConfiguration(avatar *model.AvatarConfiguration) string {
	keys := make(map[string]string, len(avatar.SlotConfiguration))
	names := make([]string, 0, len(avatar.SlotConfiguration))
	for key, id := range avatar.SlotConfiguration {
		keys[id] = key
		names = append(names, key)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Gender: %s\n", avatar.InferredGender)
	if len(avatar.Matches) == 0 {
		b.WriteString("No matching assets.\n")
		return b.String()
	}
	b.WriteString(renderMatches(avatar.Matches, keys))
	b.WriteString("\n")
	for _, key := range names {
		fmt.Fprintf(&b, "%s = %s\n", key, avatar.SlotConfiguration[key])
	}
	return b.String()
}
