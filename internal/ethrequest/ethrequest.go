package ethrequest

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	ETHChainID = "eth_chainId"
)

type EthService struct {
	rpc    *rpc.Client
	client *ethclient.Client
	ctx    context.Context
}

func (e *EthService) Context() context.Context {
	return e.ctx
}

func NewEthService(ctx context.Context, endpoint string) (*EthService, error) {
	rpc, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := ethclient.NewClient(rpc)

	return &EthService{rpc, client, ctx}, nil
}

func (e *EthService) Close() {
	e.client.Close()
}

func (e *EthService) Backend() bind.ContractBackend {
	return e.client
}

func (e *EthService) LatestBlock() (*big.Int, error) {
	number, err := e.client.BlockNumber(e.ctx)
	if err != nil {
		return common.Big0, err
	}

	return new(big.Int).SetUint64(number), nil
}

func (e *EthService) FilterLogs(q ethereum.FilterQuery) ([]types.Log, error) {
	return e.client.FilterLogs(e.ctx, q)
}

func (e *EthService) ChainID() (*big.Int, error) {
	var id string
	err := e.rpc.CallContext(e.ctx, &id, ETHChainID)
	if err != nil {
		return nil, err
	}

	chid, ok := big.NewInt(0).SetString(strip0x(id), 16)
	if !ok {
		return nil, errors.New("invalid chain id")
	}

	return chid, nil
}

// WaitMined waits for the transaction to be included and returns its receipt
func (e *EthService) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, e.client, tx)
}

func strip0x(h string) string {
	if len(h) > 2 && h[:2] == "0x" {
		return h[2:]
	}

	return h
}
