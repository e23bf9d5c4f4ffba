package wallet

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Transfer is one movement of tokens between two accounts, as shown in the history.
type Transfer struct {
	ID          string         `json:"id"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	FromLabel   string         `json:"from_label"`
	ToLabel     string         `json:"to_label"`
	Amount      *big.Int       `json:"amount"`
	Value       string         `json:"value"`
	BlockNumber uint64         `json:"block_number"`
	LogIndex    uint           `json:"log_index"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty"`
	Latency     *time.Duration `json:"latency,omitempty"`
}

// ConfirmedTransfer is a raw record of the on-chain transfer log
type ConfirmedTransfer struct {
	ID          string   `json:"id"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Amount      *big.Int `json:"amount"`
	BlockNumber uint64   `json:"block_number"`
	LogIndex    uint     `json:"log_index"`
}

// Involves returns true if the account is the sender or the receiver of the transfer
func (c *ConfirmedTransfer) Involves(account string) bool {
	acc := strings.ToLower(account)
	return strings.ToLower(c.From) == acc || strings.ToLower(c.To) == acc
}

// Copy returns a deep copy of the transfer, timing fields included
func (t *Transfer) Copy() *Transfer {
	c := *t

	if t.Amount != nil {
		c.Amount = new(big.Int).Set(t.Amount)
	}

	if t.SubmittedAt != nil {
		s := *t.SubmittedAt
		c.SubmittedAt = &s
	}

	if t.ConfirmedAt != nil {
		cf := *t.ConfirmedAt
		c.ConfirmedAt = &cf
	}

	if t.Latency != nil {
		l := *t.Latency
		c.Latency = &l
	}

	return &c
}

// IsConfirmed returns true once the local confirmation time is known
func (t *Transfer) IsConfirmed() bool {
	return t.ConfirmedAt != nil
}

// Freeze sets the confirmation time and computes the latency. It only has an effect the first time it is called.
func (t *Transfer) Freeze(confirmedAt time.Time) {
	if t.Latency != nil || t.SubmittedAt == nil {
		return
	}

	c := confirmedAt
	t.ConfirmedAt = &c

	l := c.Sub(*t.SubmittedAt)
	t.Latency = &l
}

// LatencySeconds formats the latency in seconds with millisecond precision, empty if unknown
func (t *Transfer) LatencySeconds() string {
	if t.Latency == nil {
		return ""
	}

	return fmt.Sprintf("%.3f", t.Latency.Seconds())
}

// MarshalJSON adds the latency in seconds to the encoded transfer
func (t *Transfer) MarshalJSON() ([]byte, error) {
	type Alias Transfer
	return json.Marshal(&struct {
		*Alias
		LatencySeconds string `json:"latency_seconds,omitempty"`
	}{
		Alias:          (*Alias)(t),
		LatencySeconds: t.LatencySeconds(),
	})
}
