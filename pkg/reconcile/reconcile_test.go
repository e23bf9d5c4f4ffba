package reconcile

import (
	"math/big"
	"testing"
	"time"

	"github.com/citizenwallet/tokenwallet/internal/annotate"
	"github.com/citizenwallet/tokenwallet/internal/ledger"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	addrA = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	addrB = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	addrC = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

var token = &wallet.Token{Name: "HemanthToken", Symbol: "HEM", Decimals: 18}

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func newAnnotator() *annotate.Annotator {
	return annotate.New(map[string]string{
		addrA: "Hemanth",
		addrB: "Teja",
	})
}

func localEntry(t *testing.T, l *ledger.Ledger, id string, latency time.Duration) {
	submittedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	l.Track(id, &wallet.Transfer{From: addrA, To: addrB, Amount: units(100), SubmittedAt: &submittedAt})

	_, err := l.Confirm(id, id, submittedAt.Add(latency))
	require.NoError(t, err)
}

func confirmedLog() []wallet.ConfirmedTransfer {
	return []wallet.ConfirmedTransfer{
		{ID: "0xA", From: addrA, To: addrB, Amount: units(100), BlockNumber: 1},
		{ID: "0xB", From: addrC, To: addrA, Amount: units(5), BlockNumber: 2},
		{ID: "0xC", From: addrA, To: addrC, Amount: units(1), BlockNumber: 3},
	}
}

func TestReconcileMerge(t *testing.T) {
	l := ledger.New()
	localEntry(t, l, "0xA", 2*time.Second)

	history := Reconcile(confirmedLog(), l, newAnnotator(), token)
	require.Len(t, history, 3)

	// newest first
	assert.Equal(t, "0xC", history[0].ID)
	assert.Equal(t, "0xB", history[1].ID)
	assert.Equal(t, "0xA", history[2].ID)

	merged := history[2]
	assert.Equal(t, addrA, merged.From)
	assert.Equal(t, addrB, merged.To)
	assert.Equal(t, 0, merged.Amount.Cmp(units(100)))
	assert.Equal(t, "100", merged.Value)
	require.NotNil(t, merged.Latency)
	assert.Equal(t, 2*time.Second, *merged.Latency)
	assert.NotNil(t, merged.SubmittedAt)
	assert.NotNil(t, merged.ConfirmedAt)
	assert.Equal(t, "Hemanth", merged.FromLabel)
	assert.Equal(t, "Teja", merged.ToLabel)

	// received from a counterparty, never submitted locally
	received := history[1]
	assert.Nil(t, received.Latency)
	assert.Nil(t, received.SubmittedAt)
	assert.Equal(t, "0x3c44...", received.FromLabel)
	assert.Equal(t, "5", received.Value)
}

func TestReconcileConfirmedRecordIsAuthoritative(t *testing.T) {
	l := ledger.New()

	submittedAt := time.Now()
	l.Track("k", &wallet.Transfer{From: addrA, To: addrC, Amount: units(1), SubmittedAt: &submittedAt})
	_, err := l.Confirm("k", "0xA", submittedAt.Add(time.Second))
	require.NoError(t, err)

	history := Reconcile(confirmedLog(), l, newAnnotator(), token)

	merged := history[2]
	assert.Equal(t, addrB, merged.To)
	assert.Equal(t, 0, merged.Amount.Cmp(units(100)))
	require.NotNil(t, merged.Latency)
	assert.Equal(t, time.Second, *merged.Latency)
}

func TestReconcileIdempotent(t *testing.T) {
	l := ledger.New()
	localEntry(t, l, "0xA", time.Second)

	a := newAnnotator()

	first := Reconcile(confirmedLog(), l, a, token)
	second := Reconcile(confirmedLog(), l, a, token)

	assert.Equal(t, first, second)
}

func TestReconcileDeduplicates(t *testing.T) {
	confirmed := append(confirmedLog(), wallet.ConfirmedTransfer{ID: "0xa", From: addrA, To: addrB, Amount: units(100), BlockNumber: 4})

	history := Reconcile(confirmed, ledger.New(), newAnnotator(), token)

	ids := map[string]int{}
	for _, tx := range history {
		ids[tx.ID]++
	}

	assert.Len(t, history, 3)
	for id, n := range ids {
		assert.Equal(t, 1, n, "id %s appears %d times", id, n)
	}
}

func TestReconcileOrdering(t *testing.T) {
	confirmed := confirmedLog()

	reversed := make([]wallet.ConfirmedTransfer, len(confirmed))
	for i, c := range confirmed {
		reversed[len(confirmed)-1-i] = c
	}

	a := newAnnotator()

	forward := Reconcile(confirmed, nil, a, token)
	backward := Reconcile(reversed, nil, a, token)

	require.Len(t, backward, len(forward))
	for i := range forward {
		assert.Equal(t, forward[i].ID, backward[len(backward)-1-i].ID)
	}
}

func TestReconcileLocalOnlyEntriesAreNotInjected(t *testing.T) {
	l := ledger.New()
	localEntry(t, l, "0xZ", time.Second)

	history := Reconcile(confirmedLog(), l, newAnnotator(), token)

	for _, tx := range history {
		assert.NotEqual(t, "0xZ", tx.ID)
	}
	assert.Len(t, history, 3)
}

func TestReconcileEmpty(t *testing.T) {
	history := Reconcile(nil, ledger.New(), newAnnotator(), token)
	assert.Empty(t, history)
}

func TestReconcileDoesNotShareAmounts(t *testing.T) {
	confirmed := confirmedLog()

	history := Reconcile(confirmed, nil, newAnnotator(), nil)
	history[0].Amount.SetInt64(0)

	assert.Equal(t, 0, confirmed[2].Amount.Cmp(units(1)))
	assert.Empty(t, history[0].Value)
}
