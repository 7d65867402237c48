// Command seed loads listing fixtures into the Addisnest tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/addisnest/api/internal/config"
	"github.com/addisnest/api/internal/infrastructure/dynamo"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	listingsFile string
	ownerID      string
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Seed Addisnest DynamoDB tables",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Create missing tables and indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		dynamo.Bootstrap(cmd.Context(), client, cfg.DynamoTables)
		fmt.Fprintln(cmd.OutOrStdout(), "tables ready")
		return nil
	},
}

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Load listings from a YAML file, skipping duplicates and records without an id",
	Args:  cobra.NoArgs,
	RunE:  runProperties,
}

func init() {
	propertiesCmd.Flags().StringVarP(&listingsFile, "file", "f", "", "YAML file with a list of listings")
	propertiesCmd.Flags().StringVar(&ownerID, "owner", "", "owner id for listings that do not name one")
	_ = propertiesCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(tablesCmd, propertiesCmd)
}

func runProperties(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(listingsFile)
	if err != nil {
		return err
	}
	defer f.Close()

	listings, skipped, err := loadListings(f, ownerID, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", listingsFile, err)
	}

	client, cfg, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	dynamo.Bootstrap(cmd.Context(), client, cfg.DynamoTables)

	n, err := insert(cmd.Context(), dynamo.NewPropertyRepo(client, cfg.DynamoTables.Properties), listings)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "inserted %d listings, skipped %d\n", n, skipped)
	return nil
}

func connect(ctx context.Context) (*dynamodb.Client, *config.Config, error) {
	cfg := config.Load()
	if !cfg.DynamoEnabled {
		return nil, nil, errors.New("seeding requires DYNAMO_ENABLED=true")
	}
	client, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("dynamodb client: %w", err)
	}
	return client, cfg, nil
}

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("seed failed", "err", err)
		os.Exit(1)
	}
}
