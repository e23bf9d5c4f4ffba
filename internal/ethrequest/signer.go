package ethrequest

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/submit"
	"github.com/citizenwallet/smartcontracts/pkg/contracts/erc20"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrTxFailed       = errors.New("tx failed")
	ErrUnknownPending = errors.New("pending transfer was not submitted by this signer")
)

// Signer signs and broadcasts token transfers with a local private key
type Signer struct {
	evm     *EthService
	key     *ecdsa.PrivateKey
	chainID *big.Int
	token   *erc20.Erc20

	Address common.Address
}

func NewSigner(evm *EthService, chainID *big.Int, tokenAddress, privateKey string) (*Signer, error) {
	pk, err := com.HexToPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	token, err := erc20.NewErc20(common.HexToAddress(tokenAddress), evm.Backend())
	if err != nil {
		return nil, err
	}

	return &Signer{
		evm:     evm,
		key:     pk,
		chainID: chainID,
		token:   token,
		Address: crypto.PubkeyToAddress(pk.PublicKey),
	}, nil
}

// Submit signs and broadcasts a token transfer
func (s *Signer) Submit(ctx context.Context, to common.Address, amount *big.Int) (*submit.Pending, error) {
	transactor, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, err
	}
	transactor.Context = ctx

	tx, err := s.token.Transfer(transactor, to, amount)
	if err != nil {
		return nil, err
	}

	return &submit.Pending{Hash: tx.Hash().Hex(), Ref: tx}, nil
}

// AwaitConfirmation waits for the transfer to be mined and checks that it succeeded
func (s *Signer) AwaitConfirmation(ctx context.Context, p *submit.Pending) (*submit.Confirmation, error) {
	tx, ok := p.Ref.(*types.Transaction)
	if !ok {
		return nil, ErrUnknownPending
	}

	rcpt, err := s.evm.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}

	if rcpt.Status != types.ReceiptStatusSuccessful {
		return nil, ErrTxFailed
	}

	return &submit.Confirmation{
		ID:          rcpt.TxHash.Hex(),
		BlockNumber: rcpt.BlockNumber.Uint64(),
	}, nil
}
