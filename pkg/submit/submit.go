package submit

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// lateConfirmationGrace is how long a timed out transfer is still watched for a confirmation
const lateConfirmationGrace = time.Minute

type State string

const (
	StateComposing State = "composing"
	StateSubmitted State = "submitted"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed_out"
)

// Pending is returned by the provider once a transfer has been broadcast
type Pending struct {
	Hash string
	Ref  any
}

// Confirmation is returned by the provider once a transfer has been included
type Confirmation struct {
	ID          string
	BlockNumber uint64
}

// Provider signs and broadcasts transfers
type Provider interface {
	Submit(ctx context.Context, to common.Address, amount *big.Int) (*Pending, error)
	AwaitConfirmation(ctx context.Context, p *Pending) (*Confirmation, error)
}

// Ledger keeps track of local submissions
type Ledger interface {
	Track(key string, t *wallet.Transfer)
	Confirm(key, id string, confirmedAt time.Time) (*wallet.Transfer, error)
	Discard(key string)
}

type Labeler interface {
	Label(account string) string
}

// Flow runs transfers from composition to confirmation
type Flow struct {
	ctx context.Context

	account  string
	token    *wallet.Token
	provider Provider
	ledger   Ledger
	labeler  Labeler
	timeout  time.Duration
	grace    time.Duration

	now         func() time.Time
	onConfirmed func(*wallet.Transfer)
	onFailed    func(*wallet.Transfer, error)
}

// New creates a submission flow for account. The confirmation wait runs on ctx, it is not tied to the caller.
// A timeout of 0 waits for a confirmation without a deadline.
func New(ctx context.Context, account string, token *wallet.Token, provider Provider, ledger Ledger, labeler Labeler, timeout time.Duration) *Flow {
	return &Flow{
		ctx:      ctx,
		account:  account,
		token:    token,
		provider: provider,
		ledger:   ledger,
		labeler:  labeler,
		timeout:  timeout,
		grace:    lateConfirmationGrace,
		now:      time.Now,
	}
}

// OnConfirmed sets the function called after a transfer has been confirmed and recorded
func (f *Flow) OnConfirmed(fn func(*wallet.Transfer)) {
	f.onConfirmed = fn
}

// OnFailed sets the function called when a submitted transfer fails or times out
func (f *Flow) OnFailed(fn func(*wallet.Transfer, error)) {
	f.onFailed = fn
}

// Submit validates and broadcasts a transfer. It returns as soon as the transfer has been broadcast,
// the returned handle resolves once it is confirmed, fails or times out.
func (f *Flow) Submit(ctx context.Context, to, amount string) (*Handle, error) {
	// composing
	if !com.IsValidAddress(to) {
		return nil, fmt.Errorf("%w: %s", wallet.ErrInvalidRecipient, to)
	}

	v, err := f.token.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	recipient := common.HexToAddress(to)

	submittedAt := f.now()

	tx := &wallet.Transfer{
		From:        com.ChecksumAddress(f.account),
		To:          recipient.Hex(),
		FromLabel:   f.labeler.Label(f.account),
		ToLabel:     f.labeler.Label(to),
		Amount:      v,
		Value:       f.token.FormatAmount(v),
		SubmittedAt: &submittedAt,
	}

	h := newHandle(uuid.New().String(), tx)

	f.ledger.Track(h.ID, tx)

	// submitted
	p, err := f.provider.Submit(ctx, recipient, v)
	if err != nil {
		f.ledger.Discard(h.ID)
		return nil, fmt.Errorf("%w: %v", wallet.ErrBroadcast, err)
	}

	tx.ID = p.Hash
	f.ledger.Track(h.ID, tx)
	h.submitted(tx)

	log.Default().Println("submitted transfer ", p.Hash, " of ", tx.Value, " ", f.token.Symbol, " to ", tx.ToLabel)

	go f.await(h, p)

	return h, nil
}

type result struct {
	c   *Confirmation
	err error
}

func (f *Flow) await(h *Handle, p *Pending) {
	wctx, cancel := context.WithCancel(f.ctx)

	ch := make(chan result, 1)
	go func() {
		c, err := f.provider.AwaitConfirmation(wctx, p)
		ch <- result{c, err}
	}()

	var deadline <-chan time.Time
	if f.timeout > 0 {
		timer := time.NewTimer(f.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case r := <-ch:
		cancel()
		f.resolve(h, r)
	case <-deadline:
		f.ledger.Discard(h.ID)

		log.Default().Println("transfer ", p.Hash, " timed out after ", f.timeout)

		if f.onFailed != nil {
			f.onFailed(h.Transfer(), wallet.ErrConfirmationTimeout)
		}

		h.finish(StateTimedOut, nil, wallet.ErrConfirmationTimeout)

		// a confirmation arriving after the deadline is not recorded,
		// the wait is abandoned after the grace period
		go func() {
			defer cancel()

			select {
			case r := <-ch:
				if r.err == nil {
					log.Default().Println("ignoring late confirmation of ", r.c.ID)
				}
			case <-time.After(f.grace):
				log.Default().Println("abandoning confirmation wait of ", p.Hash)
			}
		}()
	}
}

func (f *Flow) resolve(h *Handle, r result) {
	if r.err != nil {
		f.ledger.Discard(h.ID)

		err := fmt.Errorf("%w: %v", wallet.ErrBroadcast, r.err)

		log.Default().Println("transfer failed: ", err)

		if f.onFailed != nil {
			f.onFailed(h.Transfer(), err)
		}

		h.finish(StateFailed, nil, err)
		return
	}

	tx, err := f.ledger.Confirm(h.ID, r.c.ID, f.now())
	if err != nil {
		h.finish(StateFailed, nil, err)
		return
	}

	log.Default().Println("confirmed transfer ", tx.ID, " in block ", r.c.BlockNumber, " after ", tx.LatencySeconds(), " sec")

	// hooks run before waiters are released
	if f.onConfirmed != nil {
		f.onConfirmed(tx.Copy())
	}

	h.finish(StateConfirmed, tx, nil)
}

// Handle follows a single transfer through the submission states
type Handle struct {
	ID string

	mu       sync.Mutex
	state    State
	transfer *wallet.Transfer
	err      error
	done     chan struct{}
}

func newHandle(id string, tx *wallet.Transfer) *Handle {
	return &Handle{
		ID:       id,
		state:    StateComposing,
		transfer: tx.Copy(),
		done:     make(chan struct{}),
	}
}

func (h *Handle) submitted(tx *wallet.Transfer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = StateSubmitted
	h.transfer = tx.Copy()
}

func (h *Handle) finish(state State, tx *wallet.Transfer, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = state
	h.err = err
	if tx != nil {
		h.transfer = tx.Copy()
	}

	close(h.done)
}

// State returns the current state of the transfer
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

// Transfer returns a copy of the transfer as known in the current state
func (h *Handle) Transfer() *wallet.Transfer {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.transfer.Copy()
}

// Err returns the reason of a failed or timed out transfer
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}

// Done is closed once the transfer reaches a final state
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the transfer reaches a final state or ctx is done
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
