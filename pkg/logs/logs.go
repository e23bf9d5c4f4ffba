package logs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/internal/sc"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/citizenwallet/smartcontracts/pkg/contracts/erc20"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/time/rate"
)

type FetchMode string

const (
	// FetchModeFull scans the entire transfer log on every fetch
	FetchModeFull FetchMode = "full"
	// FetchModeCursor remembers the last scanned block per account and only scans new blocks
	FetchModeCursor FetchMode = "cursor"
)

func FetchModeFromString(s string) (FetchMode, error) {
	switch s {
	case "full":
		return FetchModeFull, nil
	case "", "cursor":
		return FetchModeCursor, nil
	}

	return FetchModeCursor, errors.New("unknown fetch mode: " + s)
}

var (
	ErrMalformedLog = errors.New("malformed transfer log")
)

type cursor struct {
	lastBlock int64
	txs       []wallet.ConfirmedTransfer
}

// Fetcher retrieves the confirmed transfers of a token that involve a given account
type Fetcher struct {
	chunk      int64
	startBlock int64
	mode       FetchMode

	evm         wallet.EVMRequester
	contract    common.Address
	contractAbi abi.ABI
	topics      [][]common.Hash
	limiter     *rate.Limiter

	mu      sync.Mutex
	cursors map[string]*cursor
}

// New creates a fetcher for the given token contract. chunk is the number of blocks requested per log query
// and rps the maximum number of log queries per second, 0 means unlimited.
func New(evm wallet.EVMRequester, contract string, startBlock int64, chunk int, mode FetchMode, rps float64) (*Fetcher, error) {
	contractAbi, err := abi.JSON(strings.NewReader(erc20.Erc20MetaData.ABI))
	if err != nil {
		return nil, err
	}

	if chunk <= 0 {
		return nil, errors.New("chunk size must be positive")
	}

	if startBlock < 0 {
		startBlock = 0
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Fetcher{
		chunk:       int64(chunk),
		startBlock:  startBlock,
		mode:        mode,
		evm:         evm,
		contract:    common.HexToAddress(contract),
		contractAbi: contractAbi,
		topics:      [][]common.Hash{{crypto.Keccak256Hash([]byte(sc.ERC20Transfer))}},
		limiter:     rate.NewLimiter(limit, 1),
		cursors:     map[string]*cursor{},
	}, nil
}

// Fetch returns the confirmed transfers involving account, oldest first.
// Any failure of the underlying source is reported as wallet.ErrSourceUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, account string) ([]wallet.ConfirmedTransfer, error) {
	latest, err := f.evm.LatestBlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wallet.ErrSourceUnavailable, err)
	}

	if f.mode == FetchModeFull {
		return f.scan(ctx, account, f.startBlock, latest.Int64())
	}

	acc := com.NormalizeAddress(account)

	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.cursors[acc]
	if !ok {
		c = &cursor{lastBlock: f.startBlock - 1, txs: []wallet.ConfirmedTransfer{}}
	}

	if latest.Int64() > c.lastBlock {
		txs, err := f.scan(ctx, account, c.lastBlock+1, latest.Int64())
		if err != nil {
			// the cursor is left where it was, the next fetch retries the same range
			return nil, err
		}

		c = &cursor{lastBlock: latest.Int64(), txs: append(c.txs, txs...)}
		f.cursors[acc] = c
	}

	return copyTransfers(c.txs), nil
}

// Reset forgets the cursor of an account, the next fetch scans from the start block again
func (f *Fetcher) Reset(account string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.cursors, com.NormalizeAddress(account))
}

// LastBlock returns the last block scanned for the account in cursor mode
func (f *Fetcher) LastBlock(account string) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.cursors[com.NormalizeAddress(account)]
	if !ok {
		return 0, false
	}

	return c.lastBlock, true
}

// scan queries the transfer logs between from and to (inclusive) in chunks, oldest first
func (f *Fetcher) scan(ctx context.Context, account string, from, to int64) ([]wallet.ConfirmedTransfer, error) {
	txs := []wallet.ConfirmedTransfer{}

	for start := from; start <= to; start += f.chunk {
		end := start + f.chunk - 1
		if end > to {
			end = to
		}

		err := f.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wallet.ErrSourceUnavailable, err)
		}

		query := ethereum.FilterQuery{
			FromBlock: big.NewInt(start),
			ToBlock:   big.NewInt(end),
			Addresses: []common.Address{f.contract},
			Topics:    f.topics,
		}

		logs, err := f.evm.FilterLogs(query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wallet.ErrSourceUnavailable, err)
		}

		if len(logs) > 0 {
			log.Default().Println("found ", len(logs), " logs between ", start, " and ", end, " ...")
		}

		for _, l := range logs {
			if l.Removed {
				continue
			}

			tx, err := parseERC20Log(f.contractAbi, l)
			if err != nil {
				log.Default().Println("skipping log ", l.TxHash.Hex(), ": ", err)
				continue
			}

			if !tx.Involves(account) {
				continue
			}

			txs = append(txs, *tx)
		}
	}

	return txs, nil
}

func parseERC20Log(contractAbi abi.ABI, log types.Log) (*wallet.ConfirmedTransfer, error) {
	if len(log.Topics) != 3 {
		return nil, ErrMalformedLog
	}

	var trsf erc20.Erc20Transfer

	err := contractAbi.UnpackIntoInterface(&trsf, "Transfer", log.Data)
	if err != nil {
		return nil, err
	}

	trsf.From = common.HexToAddress(log.Topics[1].Hex())
	trsf.To = common.HexToAddress(log.Topics[2].Hex())

	return &wallet.ConfirmedTransfer{
		ID:          log.TxHash.Hex(),
		From:        trsf.From.Hex(),
		To:          trsf.To.Hex(),
		Amount:      trsf.Value,
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
	}, nil
}

func copyTransfers(txs []wallet.ConfirmedTransfer) []wallet.ConfirmedTransfer {
	c := make([]wallet.ConfirmedTransfer, len(txs))
	copy(c, txs)
	return c
}
