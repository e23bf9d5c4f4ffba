package account

import (
	"context"
	"net/http"

	com "github.com/citizenwallet/tokenwallet/internal/common"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

type Session interface {
	Account() string
	Token() *wallet.Token
	CurrentBalance(ctx context.Context) (string, error)
}

type Service struct {
	s Session
}

func NewService(s Session) *Service {
	return &Service{s: s}
}

type balanceResponse struct {
	com.AddressResponse
	Balance string `json:"balance"`
	Symbol  string `json:"symbol"`
}

// Balance returns the token balance of the account
func (s *Service) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.s.CurrentBalance(r.Context())
	if err != nil {
		com.ErrorBody(w, com.ErrorStatus(err), err)
		return
	}

	err = com.Body(w, &balanceResponse{
		AddressResponse: com.AddressResponse{Address: s.s.Account()},
		Balance:         balance,
		Symbol:          s.s.Token().Symbol,
	}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Token returns the metadata of the token
func (s *Service) Token(w http.ResponseWriter, r *http.Request) {
	err := com.Body(w, s.s.Token(), &com.AddressResponse{Address: s.s.Account()})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
