package main

import (
	"errors"

	"github.com/FAU-CDI/kdict/internal/exporter"
	"github.com/spf13/cobra"
)

var (
	exportSQLite string
	exportMySQL  string
)

var errExportTarget = errors.New("exactly one of --sqlite and --mysql must be given")

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dictionary into an sql database",
	Long: `Write all artists and their triples into the tables 'artists' and 'triples'
of an sqlite or mysql database. Existing tables are replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var driver, dsn string
		switch {
		case exportSQLite != "" && exportMySQL == "":
			driver, dsn = "sqlite", exportSQLite
		case exportMySQL != "" && exportSQLite == "":
			driver, dsn = "mysql", exportMySQL
		default:
			return errExportTarget
		}

		dict, err := load(cmd.Context())
		if err != nil {
			return err
		}
		defer dict.Close()

		db, err := exporter.Open(driver, dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		st.Log("exporting", "driver", driver)
		return db.Export(cmd.Context(), dict, st)
	},
}

func init() {
	flags := exportCmd.Flags()
	flags.StringVar(&exportSQLite, "sqlite", "", "path to an sqlite database to export into")
	flags.StringVar(&exportMySQL, "mysql", "", "dsn of a mysql database to export into")

	rootCmd.AddCommand(exportCmd)
}
