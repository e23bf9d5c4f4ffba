package transfers

import (
	"github.com/citizenwallet/tokenwallet/pkg/submit"
	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

type handleResponse struct {
	ID       string           `json:"id"`
	State    submit.State     `json:"state"`
	Transfer *wallet.Transfer `json:"transfer"`
	Error    string           `json:"error,omitempty"`
}

func newHandleResponse(h *submit.Handle) *handleResponse {
	resp := &handleResponse{
		ID:       h.ID,
		State:    h.State(),
		Transfer: h.Transfer(),
	}

	if err := h.Err(); err != nil {
		resp.Error = err.Error()
	}

	return resp
}
