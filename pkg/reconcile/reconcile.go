package reconcile

import (
	"math/big"
	"strings"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

// Lookup finds a locally submitted transfer by id
type Lookup interface {
	Find(id string) (*wallet.Transfer, bool)
}

// Labeler turns an account into a display label
type Labeler interface {
	Label(account string) string
}

// Formatter renders a raw token amount
type Formatter interface {
	FormatAmount(v *big.Int) string
}

// Reconcile merges the confirmed transfer log (oldest first) with the local ledger
// and returns the unified history, newest first.
//
// The confirmed log decides which transfers are part of the history. Amounts and
// parties come from the confirmed records, timing fields from the matching local entry.
// A transfer id appears at most once, the first occurrence in the log wins.
func Reconcile(confirmed []wallet.ConfirmedTransfer, ledger Lookup, labeler Labeler, formatter Formatter) []*wallet.Transfer {
	seen := make(map[string]struct{}, len(confirmed))
	txs := make([]*wallet.Transfer, 0, len(confirmed))

	for _, c := range confirmed {
		key := strings.ToLower(c.ID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		tx := &wallet.Transfer{
			ID:          c.ID,
			From:        c.From,
			To:          c.To,
			BlockNumber: c.BlockNumber,
			LogIndex:    c.LogIndex,
		}

		if c.Amount != nil {
			tx.Amount = new(big.Int).Set(c.Amount)
		}

		if ledger != nil {
			if local, ok := ledger.Find(c.ID); ok {
				tx.SubmittedAt = local.SubmittedAt
				tx.ConfirmedAt = local.ConfirmedAt
				tx.Latency = local.Latency
			}
		}

		txs = append(txs, tx)
	}

	txs = com.Reverse(txs)

	for _, tx := range txs {
		tx.FromLabel = labeler.Label(tx.From)
		tx.ToLabel = labeler.Label(tx.To)

		if formatter != nil {
			tx.Value = formatter.FormatAmount(tx.Amount)
		}
	}

	return txs
}
