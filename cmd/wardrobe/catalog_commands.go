package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/okian/wardrobe/internal/adapters/catalogsource"
	"github.com/okian/wardrobe/internal/domain/model"
)

func newCatalogCommand(opts *globalOptions) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog utilities",
	}

	catalogCmd.AddCommand(newCatalogValidateCommand())
	catalogCmd.AddCommand(newCatalogListCommand(opts))

	return catalogCmd
}

func newCatalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Check that a catalog file loads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalogsource.FromFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries across %d slots (%s)\n",
				args[0], c.Len(), len(c.Slots()), strings.Join(c.Slots(), ", "))
			return nil
		},
	}
}

func newCatalogListCommand(opts *globalOptions) *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			entries := c.Entries()
			if slot = strings.TrimSpace(slot); slot != "" {
				entries = c.BySlot(slot)
			}
			if entries == nil {
				entries = []model.CatalogEntry{}
			}

			if !wantTable(cmd, opts.jsonOutput) {
				return writeJSON(cmd, entries)
			}
			rows := lo.Map(entries, func(e model.CatalogEntry, _ int) []string {
				return []string{e.ID, e.Name, slotLabel(e.Slot), strings.Join(e.ApplicableGenders, ", "), strings.Join(e.Tags, ", ")}
			})
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Slot", "Genders", "Tags"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "", "Only list entries in this slot")

	return cmd
}
