package common

import "fmt"

func ShortenName(s string, length int) string {
	if len(s) <= length*2 {
		return s
	}

	firstSix := s[:length]
	lastSix := s[len(s)-length:]
	return fmt.Sprintf("%s__%s", firstSix, lastSix)
}

// ElideAddress keeps the first length characters of s followed by an ellipsis
func ElideAddress(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return fmt.Sprintf("%s...", s[:length])
}
