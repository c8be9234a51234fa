package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-maker/internal/config"
	"alfredoptarigan/resume-maker/internal/models"
	"alfredoptarigan/resume-maker/internal/services"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a formatted resume PDF for one candidate",
	Long:  "Ingest the skill matrix, pick the candidate by ID, reformat the old resume with the configured language model and render the new resume PDF with its cover letter.",
	RunE:  runGenerate,
}

var (
	generateMatrixFile  string
	generateCandidateID string
	generateResumeFile  string
	generateOutputDir   string
)

func init() {
	generateCmd.Flags().StringVar(&generateMatrixFile, "matrix", "", "Path to the skill matrix workbook (.xlsx)")
	generateCmd.Flags().StringVar(&generateCandidateID, "candidate", "", "Candidate ID, e.g. Role_1")
	generateCmd.Flags().StringVar(&generateResumeFile, "resume", "", "Path to the old resume PDF")
	generateCmd.Flags().StringVarP(&generateOutputDir, "out", "o", "", "Output directory (overrides OUTPUT_PATH)")

	_ = generateCmd.MarkFlagRequired("matrix")
	_ = generateCmd.MarkFlagRequired("candidate")
	_ = generateCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if generateOutputDir != "" {
		cfg.Storage.OutputPath = generateOutputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(generateMatrixFile)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}
	result, err := services.NewSkillMatrixIngestor().Ingest(data)
	if err != nil {
		return err
	}

	var candidate *models.CandidateRecord
	for i := range result.Candidates {
		if result.Candidates[i].ID == generateCandidateID {
			candidate = &result.Candidates[i]
			break
		}
	}
	if candidate == nil {
		return fmt.Errorf("%w: %s", services.ErrCandidateNotFound, generateCandidateID)
	}

	oldText, err := services.NewPDFParserService().ExtractText(generateResumeFile)
	if err != nil {
		return err
	}

	storage := services.NewStorageService(cfg.Storage.OutputPath)
	if err := storage.EnsureOutputDir(); err != nil {
		return err
	}

	llm, err := services.NewChatCompleter(cfg)
	if err != nil {
		return err
	}
	renderer := services.NewPDFRenderer(services.NewCoverLetterGenerator(llm), storage, cfg.Storage.FontDir, cfg.Storage.LogoPath)
	generator := services.NewResumeGenerator(services.NewResumeReformatter(llm), renderer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Worker.JobTimeout)
	defer cancel()

	fmt.Fprintf(cmd.ErrOrStderr(), "Generating resume for %s\n", candidate.DisplayName())

	filename, err := generator.Generate(ctx, services.GenerationJob{
		Candidate:     *candidate,
		OldResumeText: oldText,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), storage.GetFilePath(filename))
	return nil
}
