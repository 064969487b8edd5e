package main

import (
	"fmt"

	"github.com/FAU-CDI/kdict/internal/rdfx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var triplesCmd = &cobra.Command{
	Use:   "triples NAME",
	Short: "Describe a single artist as rdf",
	Long: `Print the triples describing the single artist whose name contains NAME.

Fails when no artist, or more than one artist, matches NAME.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := rdfx.ParseFormat(viper.GetString(keyFormat))
		if err != nil {
			return err
		}

		dict, err := load(cmd.Context())
		if err != nil {
			return err
		}
		defer dict.Close()

		record, err := dict.Resolve(args[0])
		if err != nil {
			return err
		}

		result, err := dict.Describe(record, format)
		if err != nil {
			return fmt.Errorf("failed to describe %q: %w", record.Name, err)
		}
		fmt.Print(result)
		return nil
	},
}

func init() {
	flags := triplesCmd.Flags()
	flags.String(keyFormat, string(rdfx.DefaultFormat), fmt.Sprintf("output format, one of %v", rdfx.Names()))
	_ = viper.BindPFlag(keyFormat, flags.Lookup(keyFormat))

	rootCmd.AddCommand(triplesCmd)
}
