package ledger

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

var (
	ErrMissingID      = errors.New("transfer has no id")
	ErrUnknownPending = errors.New("unknown pending transfer")
)

// Ledger is the session scoped list of transfers submitted by this client.
// Recorded entries are kept most recent first and are never modified or removed.
// Submissions that are still waiting for a confirmation are tracked separately.
type Ledger struct {
	mu sync.Mutex

	entries []*wallet.Transfer
	index   map[string]*wallet.Transfer

	pending      map[string]*wallet.Transfer
	pendingOrder []string

	onChange func()
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		entries: []*wallet.Transfer{},
		index:   map[string]*wallet.Transfer{},
		pending: map[string]*wallet.Transfer{},
	}
}

// OnChange sets the function called after every new recorded entry
func (l *Ledger) OnChange(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.onChange = f
}

// Record adds a confirmed local transfer at the head of the ledger.
// Recording an id twice keeps the first entry.
func (l *Ledger) Record(t *wallet.Transfer) error {
	if t.ID == "" {
		return ErrMissingID
	}

	l.mu.Lock()
	if !l.record(t) {
		l.mu.Unlock()
		return nil
	}
	f := l.onChange
	l.mu.Unlock()

	if f != nil {
		f()
	}

	return nil
}

func (l *Ledger) record(t *wallet.Transfer) bool {
	key := strings.ToLower(t.ID)
	if _, ok := l.index[key]; ok {
		return false
	}

	c := t.Copy()

	l.entries = append([]*wallet.Transfer{c}, l.entries...)
	l.index[key] = c

	return true
}

// Find returns the recorded entry for the given transfer id
func (l *Ledger) Find(id string) (*wallet.Transfer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.index[strings.ToLower(id)]
	if !ok {
		return nil, false
	}

	return t.Copy(), true
}

// Track registers a submission that has not been confirmed yet
func (l *Ledger) Track(key string, t *wallet.Transfer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pending[key]; !ok {
		l.pendingOrder = append([]string{key}, l.pendingOrder...)
	}

	l.pending[key] = t.Copy()
}

// Confirm moves a pending submission into the ledger, freezing its latency
func (l *Ledger) Confirm(key, id string, confirmedAt time.Time) (*wallet.Transfer, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	l.mu.Lock()
	t, ok := l.pending[key]
	if !ok {
		l.mu.Unlock()
		return nil, ErrUnknownPending
	}

	l.removePending(key)

	t.ID = id
	t.Freeze(confirmedAt)

	l.record(t)
	f := l.onChange
	l.mu.Unlock()

	if f != nil {
		f()
	}

	return t.Copy(), nil
}

// Discard forgets a pending submission, recorded entries are untouched
func (l *Ledger) Discard(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.removePending(key)
}

func (l *Ledger) removePending(key string) {
	if _, ok := l.pending[key]; !ok {
		return
	}

	delete(l.pending, key)

	for i, k := range l.pendingOrder {
		if k == key {
			l.pendingOrder = append(l.pendingOrder[:i], l.pendingOrder[i+1:]...)
			break
		}
	}
}

// Entries returns a copy of the recorded entries, most recent first
func (l *Ledger) Entries() []*wallet.Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()

	txs := make([]*wallet.Transfer, 0, len(l.entries))
	for _, t := range l.entries {
		txs = append(txs, t.Copy())
	}

	return txs
}

// Pending returns a copy of the submissions awaiting confirmation, most recent first
func (l *Ledger) Pending() []*wallet.Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()

	txs := make([]*wallet.Transfer, 0, len(l.pendingOrder))
	for _, k := range l.pendingOrder {
		txs = append(txs, l.pending[k].Copy())
	}

	return txs
}

// Len returns the number of recorded entries
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
