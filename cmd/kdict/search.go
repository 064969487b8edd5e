package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search artists by name",
	Long: `Print all artists whose name contains QUERY, ignoring case.

An empty QUERY matches every artist with a name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := load(cmd.Context())
		if err != nil {
			return err
		}
		defer dict.Close()

		var results []artist.Record
		_ = st.DoStage(stats.StageSearch, func() error {
			results = dict.Search(args[0])
			st.SetCT(len(results), dict.Len())
			return nil
		})

		if searchJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(results)
		}

		for _, record := range results {
			fmt.Printf("%s\t%s\t%s\n", record.Name, record.Company, record.DebutYear)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as json")
	rootCmd.AddCommand(searchCmd)
}
