package bootstrap

import (
	"context"
	"fmt"
	"log"
	"math/big"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/internal/config"
	"github.com/citizenwallet/tokenwallet/internal/ethrequest"
	"github.com/citizenwallet/tokenwallet/internal/services/webhook"
	"github.com/citizenwallet/tokenwallet/pkg/logs"
	"github.com/citizenwallet/tokenwallet/pkg/queue"
	"github.com/citizenwallet/tokenwallet/pkg/session"
	"github.com/citizenwallet/tokenwallet/pkg/submit"
)

// Wallet is a session connected to a node
type Wallet struct {
	*session.Session

	ChainID *big.Int

	evm    *ethrequest.EthService
	cancel context.CancelFunc
}

func (w *Wallet) Close() {
	w.cancel()
	w.evm.Close()
}

// Open connects to the node, reads the token metadata and starts a session for the configured account
func Open(ctx context.Context, conf *config.Config) (*Wallet, error) {
	log.Default().Println("connecting to rpc...")

	evm, err := ethrequest.NewEthService(ctx, conf.RPCURL)
	if err != nil {
		return nil, err
	}

	w, err := open(ctx, conf, evm)
	if err != nil {
		evm.Close()
		return nil, err
	}

	return w, nil
}

func open(ctx context.Context, conf *config.Config, evm *ethrequest.EthService) (*Wallet, error) {
	chid, err := evm.ChainID()
	if err != nil {
		return nil, err
	}

	log.Default().Println("wallet running for chain: ", chid.String())

	tok, err := ethrequest.NewToken(evm, conf.TokenAddress)
	if err != nil {
		return nil, err
	}

	token, err := tok.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	log.Default().Println("token: ", token.Name, " (", token.Symbol, ")")

	account := conf.AccountAddress

	var provider submit.Provider
	if conf.PrivateKey != "" {
		signer, err := ethrequest.NewSigner(evm, chid, conf.TokenAddress, conf.PrivateKey)
		if err != nil {
			return nil, err
		}

		provider = signer
		account = signer.Address.Hex()
	} else {
		log.Default().Println("no private key configured, running watch-only")
	}

	if !com.IsValidAddress(account) {
		return nil, fmt.Errorf("invalid account address: %s", account)
	}

	mode, err := logs.FetchModeFromString(conf.FetchMode)
	if err != nil {
		return nil, err
	}

	fetcher, err := logs.New(evm, conf.TokenAddress, conf.StartBlock, conf.SyncRate, mode, conf.RPCRateLimit)
	if err != nil {
		return nil, err
	}

	qctx, cancel := context.WithCancel(ctx)

	// notifications are delivered in the background
	q := queue.NewService(3, 100, qctx)
	go q.Start(queue.NewDelivery(webhook.NewMessager(conf.DiscordURL, token.Symbol, conf.Notify)))

	s := session.New(ctx, account, token, fetcher, tok, provider, session.Options{
		AddressBook:         conf.AddressBook,
		ConfirmationTimeout: conf.ConfirmationTimeout,
		BalanceTTL:          conf.BalanceTTL,
		Messager:            queue.NewMessager(q),
	})

	return &Wallet{Session: s, ChainID: chid, evm: evm, cancel: cancel}, nil
}
