package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/config"
	"github.com/ArowuTest/fundme-backend/internal/models"
	mongorepo "github.com/ArowuTest/fundme-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ArowuTest/fundme-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

const pageSize = 500

// Writes every contribution to a FundMe as CSV on stdout.
//
//	export-contributions <contract-address> > contributions.csv
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	if len(os.Args) < 2 {
		log.Fatal("contract address is required as a command line argument")
	}
	contract, err := utils.ParseAddress(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := mongorepo.NewContributionRepository(client.Database(cfg.MongoDB.Database))
	n, err := exportContributions(ctx, csv.NewWriter(os.Stdout), contract.Hex(), func(ctx context.Context, page int) ([]*models.Contribution, error) {
		return repo.FindByContract(ctx, contract.Hex(), page, pageSize)
	})
	if err != nil {
		log.Fatalf("Failed to export contributions: %v", err)
	}
	log.Printf("Exported %d contributions", n)
}

// exportContributions pages through fetch until it returns a short page
func exportContributions(ctx context.Context, w *csv.Writer, contract string, fetch func(ctx context.Context, page int) ([]*models.Contribution, error)) (int, error) {
	if err := w.Write([]string{"contract", "funder", "amount_wei", "amount_eth", "value_usd", "price_round", "created_at"}); err != nil {
		return 0, err
	}
	total := 0
	for page := 1; ; page++ {
		batch, err := fetch(ctx, page)
		if err != nil {
			return total, err
		}
		for _, c := range batch {
			wei, err := utils.ParseWei(c.AmountWei)
			if err != nil {
				return total, fmt.Errorf("contribution %s: %w", c.ID.Hex(), err)
			}
			record := []string{
				contract,
				c.Funder,
				c.AmountWei,
				utils.FormatEther(wei),
				c.ValueUSD,
				fmt.Sprint(c.PriceRound),
				c.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := w.Write(record); err != nil {
				return total, err
			}
			total++
		}
		if len(batch) < pageSize {
			break
		}
	}
	w.Flush()
	return total, w.Error()
}
