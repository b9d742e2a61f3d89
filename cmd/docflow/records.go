package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinZoro/docFlow/record"
)

var recordsJSON bool

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List stored records",
	Args:  cobra.NoArgs,
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&recordsJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	pipe, err := newPipeline()
	if err != nil {
		return err
	}
	defer pipe.Close()

	recs, err := pipe.Records(context.Background())
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if recordsJSON {
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(recs) == 0 {
		cmd.Println("No records yet.")
		return nil
	}
	for i := range recs {
		cmd.Println(formatRecord(&recs[i]))
	}
	return nil
}

func formatRecord(rec *record.Record) string {
	source := rec.Source
	if source == "" {
		source = "-"
	}
	return fmt.Sprintf("[%d] %-5s %-20s %s (%s)", rec.ID, rec.Type, rec.Intent, source, rec.Timestamp)
}
