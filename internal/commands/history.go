package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/spf13/cobra"
)

func newHistoryCommand(open func(context.Context) (Wallet, error)) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the reconciled transfer history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := wallet.ParseFilterMode(mode)
			if err != nil {
				return err
			}

			w, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("fetching history: %w", err)
			}

			return printHistory(cmd.OutOrStdout(), w.Account(), w.Token(), w.ReconciledHistory(m))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(wallet.FilterModeAll), "all, sent or received")

	return cmd
}

func printHistory(out io.Writer, account string, token *wallet.Token, txs []*wallet.Transfer) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(out, "no transfers")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "TX\tDIRECTION\tFROM\tTO\tAMOUNT\tLATENCY")

	for _, tx := range txs {
		direction := "received"
		if com.IsSameHexAddress(tx.From, account) {
			direction = "sent"
		}

		latency := "-"
		if s := tx.LatencySeconds(); s != "" {
			latency = s + "s"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%s\n", com.ShortenName(tx.ID, 6), direction, tx.FromLabel, tx.ToLabel, tx.Value, token.Symbol, latency)
	}

	return tw.Flush()
}
