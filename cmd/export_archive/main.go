// Command export_archive snapshots the library data file into a
// SQLite database for ad-hoc reporting. The data file remains the
// system of record.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"library-system/library"
	"library-system/logger"
)

func main() {
	var (
		dataFile    string
		archiveFile string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:          "export_archive",
		Short:        "Snapshot the library data file into a SQLite archive",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logLevel)

			st, err := library.LoadState(dataFile, log)
			if err != nil {
				return fmt.Errorf("load %s: %w", dataFile, err)
			}

			arch, err := library.OpenArchive(archiveFile)
			if err != nil {
				return err
			}
			defer arch.Close()

			if err := arch.Snapshot(st); err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}

			books, patrons, loans, fines, err := arch.Counts()
			if err != nil {
				return err
			}
			fmt.Printf("Archived %d books, %d patrons, %d loans, %d fines to %s\n",
				books, patrons, loans, fines, archiveFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "library.dat", "path to the library data file")
	cmd.Flags().StringVar(&archiveFile, "out", "library_archive.db", "path to the SQLite archive")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
