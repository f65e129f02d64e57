package commands

import (
	"smm-wrapper/lib/smm/api"
	"smm-wrapper/lib/smm/view"
	"smm-wrapper/lib/textutil"

	"github.com/spf13/cobra"
)

var (
	searchId   string
	searchRank bool
)

func init() {
	searchCmd.Flags().StringVar(&searchId, "id", "", "Look up a single entity by id instead of searching names.")
	searchCmd.Flags().BoolVar(&searchRank, "rank", false, "Order the results by how closely their names match.")
	rootCmd.AddCommand(entitiesCmd, entityCmd, searchCmd)
}

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Lists every entity of the unit.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if raw {
			entities, err := client.Api.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return writeRaw(cmd.OutOrStdout(), entities)
		}

		data, err := client.Dv.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), data, format)
		return nil
	},
}

var entityCmd = &cobra.Command{
	Use:   "entity <id>",
	Short: "Shows a single entity of the unit.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if raw {
			entity, err := client.Api.GetOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeRaw(cmd.OutOrStdout(), entity)
		}

		record, err := client.Dv.GetOne(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderRecord(cmd.OutOrStdout(), record, format)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [names] [--id <id>] [--rank]",
	Short: "Searches entities by name, first name, account handle or wikipedia title.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := api.SearchParams{Id: searchId}
		if len(args) > 0 {
			params.NamesContain = args[0]
		}

		if raw {
			entities, err := client.Api.Search(cmd.Context(), params)
			if err != nil {
				return err
			}
			return writeRaw(cmd.OutOrStdout(), entities)
		}

		data, err := client.Dv.Search(cmd.Context(), params)
		if err != nil {
			return err
		}
		if searchRank && params.NamesContain != "" {
			data = rankByName(data, params.NamesContain)
		}
		renderTable(cmd.OutOrStdout(), data, format)
		return nil
	},
}

// rankByName reorders the rows of an entity table by the similarity of their
// full name to query.
func rankByName(data view.Table, query string) view.Table {
	names := make([]string, data.Len())
	for i := range names {
		record := data.Row(i)
		name, _ := record.Get("name")
		full, _ := name.(string)
		if firstname, ok := record.Get("firstname"); ok {
			if s, _ := firstname.(string); s != "" {
				full = s + " " + full
			}
		}
		names[i] = full
	}

	order := textutil.RankBySimilarity(query, names)
	rows := make([][]any, len(order))
	for i, idx := range order {
		rows[i] = data.Rows[idx]
	}
	return view.Table{
		Columns: data.Columns,
		Rows:    rows,
		Index:   data.Index,
	}
}
