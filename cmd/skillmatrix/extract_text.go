package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-maker/internal/services"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text <file.pdf>",
	Short: "Print the text content of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractText,
}

func init() {
	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, args []string) error {
	text, err := services.NewPDFParserService().ExtractText(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
