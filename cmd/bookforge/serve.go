package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/bookforge/internal/config"
	"github.com/jonathan/bookforge/internal/db"
	"github.com/jonathan/bookforge/internal/generator"
	"github.com/jonathan/bookforge/internal/llm"
	"github.com/jonathan/bookforge/internal/payments"
	"github.com/jonathan/bookforge/internal/server"
	"github.com/jonathan/bookforge/internal/types"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating, retrieving, and purchasing books.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := registry.Close(); err != nil {
			log.Printf("Error closing LLM clients: %v", err)
		}
	}()

	var checkout *payments.Checkout
	if cfg.StripeSecretKey != "" {
		checkout, err = payments.NewCheckout(payments.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Domain:        cfg.Domain,
			PriceIDs: map[types.Tier]string{
				types.TierBasic:   cfg.StripeBasicPrice,
				types.TierPro:     cfg.StripeProPrice,
				types.TierPremium: cfg.StripePremiumPrice,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to configure checkout: %w", err)
		}
	} else {
		log.Println("STRIPE_SECRET_KEY not set; checkout routes disabled")
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		Store:    database,
		Pipeline: generator.New(registry, database),
		Checkout: checkout,
		Origins:  cfg.Origins(),
	})

	return srv.Start()
}

// loadConfig builds the effective configuration: file values (when given)
// layered over environment defaults.
func loadConfig() (*config.Config, error) {
	envCfg := config.FromEnv()
	if serveConfigPath == "" {
		return envCfg, nil
	}

	fileCfg, err := config.LoadFile(serveConfigPath)
	if err != nil {
		return nil, err
	}
	merged := fileCfg.MergeWithDefaults(*envCfg)
	return &merged, nil
}

// buildRegistry creates LLM clients for every configured provider.
func buildRegistry(ctx context.Context, cfg *config.Config) (*llm.Registry, error) {
	registry := llm.NewRegistry()

	if cfg.OpenAIAPIKey != "" {
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		registry.Register(client)
	}
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		registry.Register(client)
	}

	return registry, nil
}
