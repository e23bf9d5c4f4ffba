package commands

import (
	"context"

	"github.com/citizenwallet/tokenwallet/pkg/submit"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/spf13/cobra"
)

// Wallet is the session the commands operate on
type Wallet interface {
	Account() string
	Token() *wallet.Token
	CurrentBalance(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
	ReconciledHistory(mode wallet.FilterMode) []*wallet.Transfer
	SubmitTransfer(ctx context.Context, to, amount string) (*submit.Handle, error)
	Close()
}

// Opener starts a wallet session from the env file at envpath
type Opener func(ctx context.Context, envpath string) (Wallet, error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(open Opener) *cobra.Command {
	var envpath string

	rootCmd := &cobra.Command{
		Use:     "walletctl",
		Short:   "Send tokens and inspect the transfer history of an account",
		Version: wallet.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envpath, "env", "", "path to .env file")

	o := func(ctx context.Context) (Wallet, error) {
		return open(ctx, envpath)
	}

	rootCmd.AddCommand(newBalanceCommand(o))
	rootCmd.AddCommand(newTokenCommand(o))
	rootCmd.AddCommand(newHistoryCommand(o))
	rootCmd.AddCommand(newSendCommand(o))

	return rootCmd
}
