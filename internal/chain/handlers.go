package chain

import (
	"math/big"
	"net/http"

	com "github.com/citizenwallet/tokenwallet/internal/common"
)

type Service struct {
	chainId *big.Int
}

// NewService
func NewService(chid *big.Int) *Service {
	return &Service{
		chid,
	}
}

type response struct {
	ChainID string `json:"chain_id"`
}

// ChainId returns the id of the chain the wallet is connected to
func (s *Service) ChainId(w http.ResponseWriter, r *http.Request) {
	err := com.Body(w, &response{ChainID: s.chainId.String()}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
