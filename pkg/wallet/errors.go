package wallet

import "errors"

type ErrWallet error

var (
	ErrInvalidAmount       ErrWallet = errors.New("invalid amount")              // local validation, never reaches the network
	ErrInvalidRecipient    ErrWallet = errors.New("invalid recipient address")   // local validation, never reaches the network
	ErrInvalidFilterMode   ErrWallet = errors.New("invalid filter mode")         // history filter must be all, sent or received
	ErrBroadcast           ErrWallet = errors.New("broadcast failed")            // signing, broadcast or confirmation failure
	ErrSourceUnavailable   ErrWallet = errors.New("transfer log unavailable")    // the confirmed log could not be queried
	ErrConfirmationTimeout ErrWallet = errors.New("confirmation timed out")      // no confirmation before the deadline
	ErrHandleNotFound      ErrWallet = errors.New("submission handle not found") // unknown local submission id
	ErrWatchOnly           ErrWallet = errors.New("no signer configured")
)
