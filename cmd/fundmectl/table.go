package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/pterm/pterm"
)

// renderTable draws rows under headers on w
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	data := append([][]string{headers}, rows...)
	return pterm.DefaultTable.WithHasHeader(true).WithWriter(w).WithData(data).Render()
}

func deploymentRows(list []models.Deployment) [][]string {
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, []string{string(d.Kind), d.Address, d.Deployer, d.Network, strconv.FormatInt(d.ChainID, 10)})
	}
	return rows
}

var deploymentHeaders = []string{"KIND", "ADDRESS", "DEPLOYER", "NETWORK", "CHAIN"}

// statusRows lays a contract view out as field/value pairs
func statusRows(view interface{}) ([][]string, error) {
	switch v := view.(type) {
	case *models.FundMeView:
		return [][]string{
			{"address", v.Address},
			{"owner", v.Owner},
			{"price feed", v.PriceFeed},
			{"minimum (USD, 18 decimals)", v.MinimumUSD},
			{"balance", v.BalanceEth + " ETH"},
			{"funders", strconv.Itoa(v.FunderCount)},
			{"feed version", strconv.FormatUint(v.Version, 10)},
		}, nil
	case *models.RaffleView:
		return [][]string{
			{"address", v.Address},
			{"entrance fee (wei)", v.EntranceFeeWei},
			{"balance (wei)", v.BalanceWei},
			{"players", strconv.Itoa(v.PlayerCount)},
		}, nil
	case *models.SimpleStorageView:
		rows := [][]string{
			{"address", v.Address},
			{"favorite number", v.FavoriteNumber},
		}
		for _, p := range v.People {
			rows = append(rows, []string{"person " + p.Name, p.FavoriteNumber})
		}
		return rows, nil
	}
	return nil, fmt.Errorf("no table layout for %T", view)
}

var statusHeaders = []string{"FIELD", "VALUE"}
