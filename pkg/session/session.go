package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/citizenwallet/tokenwallet/internal/annotate"
	"github.com/citizenwallet/tokenwallet/internal/ledger"
	"github.com/citizenwallet/tokenwallet/pkg/reconcile"
	"github.com/citizenwallet/tokenwallet/pkg/submit"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/getsentry/sentry-go"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	refreshKey = "refresh"
	balanceKey = "balance"

	defaultBalanceTTL = 10 * time.Second
)

// Fetcher returns the confirmed transfers involving an account, oldest first
type Fetcher interface {
	Fetch(ctx context.Context, account string) ([]wallet.ConfirmedTransfer, error)
}

// BalanceReader returns the raw token balance of an account
type BalanceReader interface {
	BalanceOf(ctx context.Context, account string) (*big.Int, error)
}

type Options struct {
	AddressBook         map[string]string
	ConfirmationTimeout time.Duration
	BalanceTTL          time.Duration
	Messager            wallet.Messager
}

// Session holds the state of a single account of a single token
type Session struct {
	ctx context.Context

	account   string
	token     *wallet.Token
	fetcher   Fetcher
	balances  BalanceReader
	annotator *annotate.Annotator
	ledger    *ledger.Ledger
	flow      *submit.Flow
	messager  wallet.Messager

	cache *cache.Cache
	group singleflight.Group

	mu          sync.Mutex
	history     []*wallet.Transfer
	lastErr     error
	lastRefresh time.Time
	handles     map[string]*submit.Handle

	// refresh requests made, and the latest request covered by the current history
	triggered  uint64
	reconciled uint64
}

// New creates a session for account. A nil provider gives a watch-only session.
func New(ctx context.Context, account string, token *wallet.Token, fetcher Fetcher, balances BalanceReader, provider submit.Provider, opts Options) *Session {
	ttl := opts.BalanceTTL
	if ttl <= 0 {
		ttl = defaultBalanceTTL
	}

	s := &Session{
		ctx:       ctx,
		account:   account,
		token:     token,
		fetcher:   fetcher,
		balances:  balances,
		annotator: annotate.New(opts.AddressBook),
		ledger:    ledger.New(),
		messager:  opts.Messager,
		cache:     cache.New(ttl, 2*ttl),
		handles:   map[string]*submit.Handle{},
	}

	s.ledger.OnChange(func() {
		go func() {
			err := s.Refresh(s.ctx)
			if err != nil {
				log.Default().Println("[session] refresh after ledger change: ", err)
			}
		}()
	})

	if provider != nil {
		s.flow = submit.New(ctx, account, token, provider, s.ledger, s.annotator, opts.ConfirmationTimeout)
		s.flow.OnConfirmed(s.confirmed)
		s.flow.OnFailed(s.failed)
	}

	return s
}

func (s *Session) Account() string {
	return s.account
}

func (s *Session) Token() *wallet.Token {
	return s.token
}

// LastError returns the error of the last refresh, nil if it succeeded
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// LastRefresh returns the time of the last successful refresh
func (s *Session) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastRefresh
}

// Refresh fetches the confirmed log and reconciles it with the ledger.
// Concurrent calls share a single fetch; a call made while a fetch is in flight waits for
// one more fetch started after it. The shared fetch runs on the session context, ctx only
// bounds how long the caller waits. When the source is unavailable the previous history is kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.triggered++
	gen := s.triggered
	s.mu.Unlock()

	for {
		ch := s.group.DoChan(refreshKey, func() (any, error) {
			return nil, s.refresh()
		})

		select {
		case r := <-ch:
			if r.Err != nil {
				return r.Err
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.Lock()
		done := s.reconciled >= gen
		s.mu.Unlock()

		if done {
			return nil
		}
	}
}

func (s *Session) refresh() error {
	s.mu.Lock()
	gen := s.triggered
	s.mu.Unlock()

	confirmed, err := s.fetcher.Fetch(s.ctx, s.account)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	history := reconcile.Reconcile(confirmed, s.ledger, s.annotator, s.token)

	s.mu.Lock()
	s.history = history
	s.lastErr = nil
	s.lastRefresh = time.Now()
	if gen > s.reconciled {
		s.reconciled = gen
	}
	s.mu.Unlock()

	return nil
}

// ReconciledHistory returns a copy of the last unified history, newest first, narrowed by mode
func (s *Session) ReconciledHistory(mode wallet.FilterMode) []*wallet.Transfer {
	s.mu.Lock()
	history := reconcile.Filter(s.history, mode, s.account)
	s.mu.Unlock()

	txs := make([]*wallet.Transfer, 0, len(history))
	for _, t := range history {
		txs = append(txs, t.Copy())
	}

	return txs
}

// SubmitTransfer validates and broadcasts a transfer, the handle can be retrieved later by its id
func (s *Session) SubmitTransfer(ctx context.Context, to, amount string) (*submit.Handle, error) {
	if s.flow == nil {
		return nil, wallet.ErrWatchOnly
	}

	h, err := s.flow.Submit(ctx, to, amount)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.handles[h.ID] = h
	s.mu.Unlock()

	return h, nil
}

// Handle returns a submission handle by id
func (s *Session) Handle(id string) (*submit.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", wallet.ErrHandleNotFound, id)
	}

	return h, nil
}

// CurrentBalance returns the balance of the account formatted with the token decimals
func (s *Session) CurrentBalance(ctx context.Context) (string, error) {
	if v, ok := s.cache.Get(balanceKey); ok {
		return v.(string), nil
	}

	raw, err := s.balances.BalanceOf(ctx, s.account)
	if err != nil {
		return "", fmt.Errorf("%w: %v", wallet.ErrSourceUnavailable, err)
	}

	balance := s.token.FormatAmount(raw)

	s.cache.Set(balanceKey, balance, cache.DefaultExpiration)

	return balance, nil
}

// Background refreshes the history every syncrate seconds until ctx is done
func (s *Session) Background(ctx context.Context, syncrate int) error {
	for {
		err := s.Refresh(ctx)
		if err != nil {
			// check if the error is recoverable
			if !errors.Is(err, wallet.ErrSourceUnavailable) {
				return err
			}

			log.Default().Println("[background] recoverable error: ", err)
			sentry.CaptureException(err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(syncrate) * time.Second):
		}
	}
}

func (s *Session) confirmed(t *wallet.Transfer) {
	s.cache.Delete(balanceKey)

	msg := fmt.Sprintf("Sent %s %s to %s", t.Value, s.token.Symbol, t.ToLabel)
	log.Default().Println(msg)

	if s.messager == nil {
		return
	}

	err := s.messager.Notify(s.ctx, msg)
	if err != nil {
		log.Default().Println("[session] notify: ", err)
	}
}

func (s *Session) failed(t *wallet.Transfer, err error) {
	sentry.CaptureException(err)

	if s.messager == nil {
		return
	}

	var nerr error
	if errors.Is(err, wallet.ErrConfirmationTimeout) {
		nerr = s.messager.NotifyWarning(s.ctx, fmt.Errorf("transfer %s: %w", t.ID, err))
	} else {
		nerr = s.messager.NotifyError(s.ctx, fmt.Errorf("transfer %s: %w", t.ID, err))
	}
	if nerr != nil {
		log.Default().Println("[session] notify: ", nerr)
	}
}
