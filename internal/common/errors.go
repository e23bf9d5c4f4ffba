package common

import (
	"errors"
	"net/http"

	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

// ErrorStatus maps a wallet error to an http status code
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidRecipient),
		errors.Is(err, wallet.ErrInvalidFilterMode):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrHandleNotFound):
		return http.StatusNotFound
	case errors.Is(err, wallet.ErrWatchOnly):
		return http.StatusForbidden
	case errors.Is(err, wallet.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, wallet.ErrBroadcast):
		return http.StatusBadGateway
	case errors.Is(err, wallet.ErrConfirmationTimeout):
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}
