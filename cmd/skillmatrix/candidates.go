package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-maker/internal/services"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates <file.xlsx>",
	Short: "List the candidates found in a skill matrix workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidates,
}

var candidatesOnlyNames bool

func init() {
	candidatesCmd.Flags().BoolVar(&candidatesOnlyNames, "names", false, "Print \"ID - First Last\" lines instead of JSON")

	rootCmd.AddCommand(candidatesCmd)
}

func runCandidates(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	result, err := services.NewSkillMatrixIngestor().Ingest(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if candidatesOnlyNames {
		for _, candidate := range result.Candidates {
			fmt.Fprintln(out, candidate.DisplayName())
		}
		for _, sheet := range result.SkippedSheets {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped sheet %q\n", sheet)
		}
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
