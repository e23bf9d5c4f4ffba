package history

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citizenwallet/tokenwallet/pkg/reconcile"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	addrA = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	addrB = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

type MockSession struct {
	history []*wallet.Transfer
	err     error
	lastErr error
}

func (m *MockSession) ReconciledHistory(mode wallet.FilterMode) []*wallet.Transfer {
	return reconcile.Filter(m.history, mode, addrA)
}

func (m *MockSession) Refresh(ctx context.Context) error {
	if m.err != nil {
		m.lastErr = m.err
	}
	return m.err
}

func (m *MockSession) LastError() error {
	return m.lastErr
}

type response struct {
	ResponseType string             `json:"response_type"`
	Array        []*wallet.Transfer `json:"array"`
	Meta         struct {
		Limit  int    `json:"limit"`
		Offset int    `json:"offset"`
		Total  int    `json:"total"`
		Mode   string `json:"mode"`
		Error  string `json:"error"`
	} `json:"meta"`
	Error string `json:"error"`
}

func newSession() *MockSession {
	return &MockSession{history: []*wallet.Transfer{
		{ID: "0x03", From: addrA, To: addrB, Amount: big.NewInt(3), Value: "3"},
		{ID: "0x02", From: addrB, To: addrA, Amount: big.NewInt(2), Value: "2"},
		{ID: "0x01", From: addrA, To: addrB, Amount: big.NewInt(1), Value: "1"},
	}}
}

func get(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, response) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()

	h(rr, req)

	var resp response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return rr, resp
}

func TestGet(t *testing.T) {
	s := NewService(newSession())

	tests := []struct {
		query string
		ids   []string
	}{
		{"", []string{"0x03", "0x02", "0x01"}},
		{"?mode=all", []string{"0x03", "0x02", "0x01"}},
		{"?mode=sent", []string{"0x03", "0x01"}},
		{"?mode=Received", []string{"0x02"}},
		{"?limit=2", []string{"0x03", "0x02"}},
		{"?limit=2&offset=2", []string{"0x01"}},
		{"?offset=10", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr, resp := get(t, s.Get, "/history"+tt.query)
			require.Equal(t, http.StatusOK, rr.Code)

			ids := []string{}
			for _, tx := range resp.Array {
				ids = append(ids, tx.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestGetInvalidMode(t *testing.T) {
	s := NewService(newSession())

	rr, resp := get(t, s.Get, "/history?mode=outgoing")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "error", resp.ResponseType)
	assert.Contains(t, resp.Error, wallet.ErrInvalidFilterMode.Error())
}

func TestRefreshSourceUnavailable(t *testing.T) {
	m := newSession()
	m.err = fmt.Errorf("%w: connection refused", wallet.ErrSourceUnavailable)

	s := NewService(m)

	req := httptest.NewRequest(http.MethodPost, "/history/refresh", nil)
	rr := httptest.NewRecorder()
	s.Refresh(rr, req)

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	// the previous history is still served, flagged with the error
	rr, resp := get(t, s.Get, "/history")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, resp.Array, 3)
	assert.Contains(t, resp.Meta.Error, "connection refused")
}

func TestRefresh(t *testing.T) {
	s := NewService(newSession())

	req := httptest.NewRequest(http.MethodPost, "/history/refresh", nil)
	rr := httptest.NewRecorder()
	s.Refresh(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Array, 3)
	assert.Equal(t, 3, resp.Meta.Total)
}
