package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportContributions(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []*models.Contribution{
		{Funder: "0xB2", AmountWei: "2500000000000000", ValueUSD: "5000000000000000000", PriceRound: 1, CreatedAt: created},
	}
	var buf bytes.Buffer
	n, err := exportContributions(context.Background(), csv.NewWriter(&buf), "0xF1", func(ctx context.Context, page int) ([]*models.Contribution, error) {
		if page == 1 {
			return rows, nil
		}
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"0xF1", "0xB2", "2500000000000000", "0.0025", "5000000000000000000", "1", "2024-05-01T12:00:00Z"}, records[1])
}
