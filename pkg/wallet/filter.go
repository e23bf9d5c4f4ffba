package wallet

import "strings"

type FilterMode string

const (
	FilterModeAll      FilterMode = "all"
	FilterModeSent     FilterMode = "sent"
	FilterModeReceived FilterMode = "received"
)

// ParseFilterMode parses a filter mode, an empty string means all
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterModeAll, nil
	case "sent":
		return FilterModeSent, nil
	case "received":
		return FilterModeReceived, nil
	}

	return FilterModeAll, ErrInvalidFilterMode
}
