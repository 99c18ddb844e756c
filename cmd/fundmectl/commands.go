package main

import (
	"fmt"
	"strings"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/pkg/fundmeclient"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	deployKind        string
	deployEntranceFee string
	deployMinimumUSD  string
)

var kindAliases = map[string]models.ContractKind{
	"fundme":          models.ContractKindFundMe,
	"raffle":          models.ContractKindRaffle,
	"simple-storage":  models.ContractKindSimpleStorage,
	"mock-price-feed": models.ContractKindMockPriceFeed,
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address of --key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), crypto.PubkeyToAddress(key.PublicKey).Hex())
		return nil
	},
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a contract owned by --key",
	Long: `Deploy a contract owned by the address of --key.

Examples:
  fundmectl deploy --kind fundme
  fundmectl deploy --kind fundme --chain-id 11155111
  fundmectl deploy --kind raffle --entrance-fee "0.05 ether"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := kindAliases[strings.ToLower(deployKind)]
		if !ok {
			return fmt.Errorf("unknown kind %q", deployKind)
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		c, err := signedInClient(ctx)
		if err != nil {
			return err
		}
		d, err := c.Deploy(ctx, models.DeployContractRequest{
			Kind:        kind,
			ChainID:     settings.GetInt64("chain-id"),
			EntranceFee: deployEntranceFee,
			MinimumUSD:  deployMinimumUSD,
		})
		if err != nil {
			return err
		}
		if settings.GetBool("json") {
			return printJSON(cmd, d)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s deployed at %s (network %s, nonce %d)\n", d.Kind, d.Address, d.Network, d.Nonce)
		if d.PriceFeed != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "price feed: %s\n", d.PriceFeed)
		}
		return nil
	},
}

var deploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "List deployed contracts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		list, err := fundmeclient.NewClient(settings.GetString("server")).Deployments(ctx)
		if err != nil {
			return err
		}
		if settings.GetBool("json") {
			return printJSON(cmd, list)
		}
		return renderTable(cmd.OutOrStdout(), deploymentHeaders, deploymentRows(list))
	},
}

var fundCmd = &cobra.Command{
	Use:   "fund <contract> <value>",
	Short: `Fund a FundMe, e.g. fund 0x... "0.1 ether"`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		c, err := signedInClient(ctx)
		if err != nil {
			return err
		}
		contribution, err := c.Fund(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if settings.GetBool("json") {
			return printJSON(cmd, contribution)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "funded %s wei (%s USD, 18 decimals)\n", contribution.AmountWei, contribution.ValueUSD)
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <contract>",
	Short: "Withdraw a FundMe balance; --key must be the owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		c, err := signedInClient(ctx)
		if err != nil {
			return err
		}
		res, err := c.Withdraw(ctx, args[0])
		if err != nil {
			return err
		}
		if settings.GetBool("json") {
			return printJSON(cmd, res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "withdrew %s ETH to %s\n", res.AmountEth, res.Recipient)
		return nil
	},
}

var enterRaffleCmd = &cobra.Command{
	Use:   "enter-raffle <contract> <value>",
	Short: "Enter a raffle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		c, err := signedInClient(ctx)
		if err != nil {
			return err
		}
		if err := c.EnterRaffle(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "entered raffle", args[0])
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <contract>",
	Short: "Show the state of a deployed contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		c := fundmeclient.NewClient(settings.GetString("server"))
		list, err := c.Deployments(ctx)
		if err != nil {
			return err
		}
		var kind models.ContractKind
		for _, d := range list {
			if strings.EqualFold(d.Address, args[0]) {
				kind = d.Kind
			}
		}

		var view interface{}
		switch kind {
		case models.ContractKindFundMe:
			view, err = c.FundMe(ctx, args[0])
		case models.ContractKindRaffle:
			view, err = c.Raffle(ctx, args[0])
		case models.ContractKindSimpleStorage:
			view, err = c.SimpleStorage(ctx, args[0])
		case "":
			return fmt.Errorf("no deployment at %s", args[0])
		default:
			return fmt.Errorf("%s has no status view", kind)
		}
		if err != nil {
			return err
		}
		if settings.GetBool("json") {
			return printJSON(cmd, view)
		}
		rows, err := statusRows(view)
		if err != nil {
			return err
		}
		return renderTable(cmd.OutOrStdout(), statusHeaders, rows)
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployKind, "kind", "fundme", "fundme, raffle, simple-storage or mock-price-feed")
	deployCmd.Flags().Int64("chain-id", 0, "target chain ID; 0 uses the server default (env FUNDME_CHAIN_ID)")
	_ = settings.BindPFlag("chain-id", deployCmd.Flags().Lookup("chain-id"))
	deployCmd.Flags().StringVar(&deployEntranceFee, "entrance-fee", "", "raffle entrance fee, e.g. \"0.01 ether\"")
	deployCmd.Flags().StringVar(&deployMinimumUSD, "minimum-usd", "", "FundMe minimum in USD with 18 decimals")
}
