package ethrequest

import (
	"context"
	"math/big"

	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/citizenwallet/smartcontracts/pkg/contracts/erc20"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Token reads the state of an ERC20 token contract
type Token struct {
	Address  common.Address
	contract *erc20.Erc20
}

func NewToken(evm wallet.EVMRequester, address string) (*Token, error) {
	addr := common.HexToAddress(address)

	contract, err := erc20.NewErc20(addr, evm.Backend())
	if err != nil {
		return nil, err
	}

	return &Token{
		Address:  addr,
		contract: contract,
	}, nil
}

// Metadata reads the name, symbol and decimals of the token
func (t *Token) Metadata(ctx context.Context) (*wallet.Token, error) {
	opts := &bind.CallOpts{Context: ctx}

	name, err := t.contract.Name(opts)
	if err != nil {
		return nil, err
	}

	symbol, err := t.contract.Symbol(opts)
	if err != nil {
		return nil, err
	}

	decimals, err := t.contract.Decimals(opts)
	if err != nil {
		return nil, err
	}

	return &wallet.Token{
		Address:  t.Address.Hex(),
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}, nil
}

// BalanceOf returns the raw token balance of the account
func (t *Token) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	return t.contract.BalanceOf(&bind.CallOpts{Context: ctx}, common.HexToAddress(account))
}
