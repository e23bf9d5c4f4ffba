package transfers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/submit"
	"github.com/go-chi/chi/v5"
)

var ErrInvalidBody = errors.New("invalid request body")

type Session interface {
	SubmitTransfer(ctx context.Context, to, amount string) (*submit.Handle, error)
	Handle(id string) (*submit.Handle, error)
}

type Service struct {
	s Session
}

func NewService(s Session) *Service {
	return &Service{s: s}
}

type transferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Send validates and broadcasts a transfer, the response carries the submission handle
func (s *Service) Send(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		com.ErrorBody(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	defer r.Body.Close()

	h, err := s.s.SubmitTransfer(r.Context(), req.To, req.Amount)
	if err != nil {
		com.ErrorBody(w, com.ErrorStatus(err), err)
		return
	}

	err = com.StatusBody(w, http.StatusAccepted, newHandleResponse(h), nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Get returns the current state of a submission
func (s *Service) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h, err := s.s.Handle(id)
	if err != nil {
		com.ErrorBody(w, com.ErrorStatus(err), err)
		return
	}

	err = com.Body(w, newHandleResponse(h), nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
