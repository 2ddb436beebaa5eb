package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/bookforge/internal/config"
	"github.com/jonathan/bookforge/internal/generator"
	"github.com/jonathan/bookforge/internal/observability"
	"github.com/jonathan/bookforge/internal/rendering"
	"github.com/jonathan/bookforge/internal/types"
)

var (
	genTopic    string
	genAudience string
	genStyle    string
	genTier     string
	genOutput   string
	genPDF      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single book from the command line",
	Long:  `Run the generation pipeline once and write the resulting markdown (and optionally a PDF) to disk. No database is required.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genTopic, "topic", "", "Book topic (required)")
	generateCmd.Flags().StringVar(&genAudience, "audience", "beginners", "Target audience")
	generateCmd.Flags().StringVar(&genStyle, "style", "professional", "Writing style")
	generateCmd.Flags().StringVar(&genTier, "tier", "pro", "Tier: basic, pro, or premium")
	generateCmd.Flags().StringVar(&genOutput, "out", "book.md", "Output markdown path")
	generateCmd.Flags().BoolVar(&genPDF, "pdf", false, "Also render a PDF next to the markdown")
	_ = generateCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req := types.BookRequest{
		Topic:    genTopic,
		Audience: genAudience,
		Style:    genStyle,
		Tier:     types.Tier(genTier),
	}
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	cfg := config.FromEnv()
	if cfg.OpenAIAPIKey == "" && cfg.GeminiAPIKey == "" {
		return fmt.Errorf("at least one of OPENAI_API_KEY or GEMINI_API_KEY is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := registry.Close(); err != nil {
			log.Printf("Error closing LLM clients: %v", err)
		}
	}()

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintStrategy(generator.SelectStrategy(req.Topic, req.Tier))

	book, err := generator.New(registry, nil).Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("generation cancelled: %w", err)
	}
	printer.PrintBook(book)

	if err := os.WriteFile(genOutput, []byte(book.Body), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	fmt.Printf("Wrote %s\n", genOutput)

	if genPDF {
		doc, err := rendering.RenderHTML(book.Body, book.Topic)
		if err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		pdf, err := rendering.PrintPDF(ctx, doc, 60*time.Second)
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
		pdfPath := genOutput + ".pdf"
		if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Printf("Wrote %s\n", pdfPath)
	}

	return nil
}
