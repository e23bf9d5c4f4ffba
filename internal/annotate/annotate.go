package annotate

import (
	com "github.com/citizenwallet/tokenwallet/internal/common"
)

// prefixLength is the number of characters kept when an address is not in the address book
const prefixLength = 6

// Annotator turns account identifiers into display labels using a static address book
type Annotator struct {
	book map[string]string
}

// New creates an annotator, the address book keys are normalized on the way in
func New(book map[string]string) *Annotator {
	b := make(map[string]string, len(book))
	for addr, name := range book {
		b[com.NormalizeAddress(addr)] = name
	}

	return &Annotator{book: b}
}

// Label returns the address book name of the account or an elided form of its address
func (a *Annotator) Label(account string) string {
	normalized := com.NormalizeAddress(account)

	if name, ok := a.book[normalized]; ok {
		return name
	}

	return com.ElideAddress(normalized, prefixLength)
}
