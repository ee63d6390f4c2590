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
		dataFile string
		logLevel string
	)

	root := &cobra.Command{
		Use:          "library",
		Short:        "Console library management system",
		Long:         "Tracks a catalog of books, registers patrons, records loans and returns, and computes overdue fines.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := library.LoadConfig()
			if err != nil {
				return err
			}
			if dataFile != "" {
				cfg.DataFile = dataFile
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			log := logger.New(cfg.LogLevel)
			sys, err := library.NewLibrarySystem(cfg.DataFile, log)
			if err != nil {
				return err
			}

			runSession(sys)

			if err := sys.Save(); err != nil {
				log.WithError(err).Error("saving library state")
				return err
			}
			log.WithField("file", cfg.DataFile).Debug("library state saved")
			return nil
		},
	}

	root.Flags().StringVar(&dataFile, "data", "", "path to the data file (overrides LIBRARY_DATA_FILE)")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level (overrides LIBRARY_LOG_LEVEL)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
