package cmd

import (
	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
	"github.com/netobserv/pcapng-reader/internal/pkg/store"
	"github.com/spf13/cobra"
)

var (
	dbPath string

	exportCmd = &cobra.Command{
		Use:   "export FILE",
		Short: "Export the blocks and packets of a capture to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(args[0], dbPath)
		},
	}
)

func init() {
	exportCmd.Flags().StringVarP(&dbPath, "db", "", "", "Path of the database to create")
	_ = exportCmd.MarkFlagRequired("db")
}

func runExport(path, db string) error {
	s, err := store.Create(db)
	if err != nil {
		return err
	}

	var blocks, packets int
	err = scanFile(path, nil, false, func(rec *capture.Record) error {
		blocks++
		if rec.Packet != nil {
			packets++
		}
		return s.Insert(rec)
	})
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	log.Infof("Exported %d blocks and %d packets to %s", blocks, packets, db)
	return nil
}
