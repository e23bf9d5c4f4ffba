package history

import (
	"context"
	"net/http"
	"strconv"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

type Session interface {
	ReconciledHistory(mode wallet.FilterMode) []*wallet.Transfer
	Refresh(ctx context.Context) error
	LastError() error
}

type Service struct {
	s Session
}

func NewService(s Session) *Service {
	return &Service{s: s}
}

type meta struct {
	com.Pagination
	Mode  wallet.FilterMode `json:"mode"`
	Error string            `json:"error,omitempty"`
}

// Get godoc
//
//		@Summary		Fetch the transfer history
//		@Description	get the reconciled transfer history of the account, newest first
//		@Tags			history
//		@Produce		json
//		@Param			mode	query		string	false	"all, sent or received"
//		@Success		200	{object}	common.Response
//		@Failure		400
//		@Router			/history [get]
func (s *Service) Get(w http.ResponseWriter, r *http.Request) {
	mode, err := wallet.ParseFilterMode(r.URL.Query().Get("mode"))
	if err != nil {
		com.ErrorBody(w, http.StatusBadRequest, err)
		return
	}

	// parse pagination params from url query
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	txs := s.s.ReconciledHistory(mode)

	total := len(txs)

	start := min(offset, total)
	end := min(offset+limit, total)

	m := meta{
		Pagination: com.Pagination{Limit: limit, Offset: offset, Total: total},
		Mode:       mode,
	}

	// the last good history is served while the source is down
	if lerr := s.s.LastError(); lerr != nil {
		m.Error = lerr.Error()
	}

	err = com.BodyMultiple(w, txs[start:end], m)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Refresh fetches the confirmed log and reconciles it before returning the history
func (s *Service) Refresh(w http.ResponseWriter, r *http.Request) {
	err := s.s.Refresh(r.Context())
	if err != nil {
		com.ErrorBody(w, com.ErrorStatus(err), err)
		return
	}

	txs := s.s.ReconciledHistory(wallet.FilterModeAll)

	err = com.BodyMultiple(w, txs, com.Pagination{Limit: len(txs), Offset: 0, Total: len(txs)})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
