package ledger

import (
	"math/big"
	"testing"
	"time"

	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	addrA = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	addrB = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
)

func newTransfer(id string, submittedAt time.Time) *wallet.Transfer {
	return &wallet.Transfer{
		ID:          id,
		From:        addrA,
		To:          addrB,
		Amount:      big.NewInt(100),
		SubmittedAt: &submittedAt,
	}
}

func TestRecord(t *testing.T) {
	l := New()

	changes := 0
	l.OnChange(func() { changes++ })

	now := time.Now()

	require.NoError(t, l.Record(newTransfer("0xA", now)))
	require.NoError(t, l.Record(newTransfer("0xB", now)))

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "0xB", entries[0].ID)
	assert.Equal(t, "0xA", entries[1].ID)
	assert.Equal(t, 2, changes)

	// recording the same id twice keeps the first entry
	dup := newTransfer("0xa", now)
	dup.Amount = big.NewInt(5)
	require.NoError(t, l.Record(dup))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 2, changes)

	found, ok := l.Find("0xA")
	require.True(t, ok)
	assert.Equal(t, int64(100), found.Amount.Int64())

	_, ok = l.Find("0xC")
	assert.False(t, ok)

	assert.ErrorIs(t, l.Record(newTransfer("", now)), ErrMissingID)
}

func TestEntriesAreCopies(t *testing.T) {
	l := New()

	require.NoError(t, l.Record(newTransfer("0xA", time.Now())))

	entries := l.Entries()
	entries[0].Amount.SetInt64(1)
	entries[0].ID = "0xZ"

	found, ok := l.Find("0xA")
	require.True(t, ok)
	assert.Equal(t, int64(100), found.Amount.Int64())
}

func TestPendingLifecycle(t *testing.T) {
	l := New()

	submittedAt := time.Now()
	l.Track("local-1", newTransfer("", submittedAt))

	pending := l.Pending()
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].ConfirmedAt)
	assert.Equal(t, 0, l.Len())

	confirmedAt := submittedAt.Add(1500 * time.Millisecond)
	tx, err := l.Confirm("local-1", "0xA", confirmedAt)
	require.NoError(t, err)

	assert.Equal(t, "0xA", tx.ID)
	require.NotNil(t, tx.Latency)
	assert.Equal(t, 1500*time.Millisecond, *tx.Latency)
	assert.Empty(t, l.Pending())

	found, ok := l.Find("0xa")
	require.True(t, ok)
	assert.Equal(t, confirmedAt, *found.ConfirmedAt)
	assert.Equal(t, "1.500", found.LatencySeconds())

	_, err = l.Confirm("local-1", "0xA", confirmedAt)
	assert.ErrorIs(t, err, ErrUnknownPending)
}

func TestDiscard(t *testing.T) {
	l := New()

	require.NoError(t, l.Record(newTransfer("0xA", time.Now())))

	l.Track("local-1", newTransfer("", time.Now()))
	l.Track("local-2", newTransfer("", time.Now()))

	l.Discard("local-1")
	l.Discard("unknown")

	pending := l.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 1, l.Len())

	_, err := l.Confirm("local-1", "0xB", time.Now())
	assert.ErrorIs(t, err, ErrUnknownPending)
}
