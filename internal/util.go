// Package internal provides internal utility functionality for webscout.
package internal

import (
	"fmt"
	"unicode"
)

// ValidateAccessToken checks if a user-provided access token is usable for the
// HTTP API's bearer authentication.
// It doesn't impose many conditions to allow flexibility.
func ValidateAccessToken(token string) error {
	if len(token) < 8 {
		return fmt.Errorf("access token should be at least 8 characters in length")
	}
	if hasWhitespace(token) {
		return fmt.Errorf("access token should not contain whitespace characters")
	}
	return nil
}

// hasWhitespace checks if the access token contains any whitespace characters.
func hasWhitespace(token string) bool {
	for _, r := range token {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
