package main

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ArowuTest/fundme-backend/pkg/fundmeclient"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings resolves flags first, then FUNDME_* environment variables, then flag defaults
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:           "fundmectl",
	Short:         "Operate contracts hosted by a fundme-backend server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	settings.SetEnvPrefix("FUNDME")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindEnv("key", "FUNDME_PRIVATE_KEY")

	flags := rootCmd.PersistentFlags()
	flags.String("server", "http://localhost:4000", "API base URL (env FUNDME_SERVER)")
	flags.String("key", "", "hex private key used to sign in (env FUNDME_PRIVATE_KEY)")
	flags.Bool("json", false, "print raw JSON (env FUNDME_JSON)")
	flags.Duration("timeout", 30*time.Second, "request timeout (env FUNDME_TIMEOUT)")
	_ = settings.BindPFlags(flags)

	rootCmd.AddCommand(addressCmd, deployCmd, deploymentsCmd, fundCmd, withdrawCmd, enterRaffleCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadKey() (*ecdsa.PrivateKey, error) {
	privateKey := settings.GetString("key")
	if privateKey == "" {
		return nil, errors.New("a private key is required: pass --key or set FUNDME_PRIVATE_KEY")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), settings.GetDuration("timeout"))
}

// signedInClient returns a client holding a token for --key
func signedInClient(ctx context.Context) (*fundmeclient.Client, error) {
	key, err := loadKey()
	if err != nil {
		return nil, err
	}
	c := fundmeclient.NewClient(settings.GetString("server"))
	if _, err := c.SignIn(ctx, key); err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	return c, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
