package reconcile

import (
	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

// Filter narrows the history to the transfers sent or received by account
func Filter(history []*wallet.Transfer, mode wallet.FilterMode, account string) []*wallet.Transfer {
	switch mode {
	case wallet.FilterModeSent:
		return com.Filter(history, func(tx *wallet.Transfer) bool {
			return com.IsSameHexAddress(tx.From, account)
		})
	case wallet.FilterModeReceived:
		return com.Filter(history, func(tx *wallet.Transfer) bool {
			return com.IsSameHexAddress(tx.To, account)
		})
	}

	return history
}
