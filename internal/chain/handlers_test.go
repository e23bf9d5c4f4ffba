package chain

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChainId(t *testing.T) {
	s := NewService(big.NewInt(42220))

	rr := httptest.NewRecorder()
	s.ChainId(rr, httptest.NewRequest(http.MethodGet, "/chain", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), `"chain_id":"42220"`) {
		t.Errorf("unexpected body %s", rr.Body.String())
	}
}
