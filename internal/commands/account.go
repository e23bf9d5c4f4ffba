package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBalanceCommand(open func(context.Context) (Wallet, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the token balance of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			balance, err := w.CurrentBalance(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading balance: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", balance, w.Token().Symbol)
			return nil
		},
	}
}

func newTokenCommand(open func(context.Context) (Wallet, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print the token metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			t := w.Token()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:     %s\n", t.Name)
			fmt.Fprintf(out, "symbol:   %s\n", t.Symbol)
			fmt.Fprintf(out, "decimals: %d\n", t.Decimals)
			fmt.Fprintf(out, "address:  %s\n", t.Address)
			fmt.Fprintf(out, "account:  %s\n", w.Account())
			return nil
		},
	}
}
