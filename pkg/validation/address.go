package validation

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ValidateAddress validates an Ethereum-style wallet address format
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	// Remove 0x prefix if present
	normalized := strings.TrimPrefix(addr, "0x")
	normalized = strings.TrimPrefix(normalized, "0X")

	// Check length (40 hex characters = 20 bytes)
	if len(normalized) != 40 {
		return fmt.Errorf("invalid address length: expected 40 characters (without 0x), got %d", len(normalized))
	}

	// Validate hex format
	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid hex address: %w", err)
	}

	return nil
}

// ValidateSignedTxHex validates a hex-encoded signed transaction blob.
// The transaction format itself is owned by the payment network; only the
// encoding is checked here.
func ValidateSignedTxHex(tx string) error {
	if tx == "" {
		return fmt.Errorf("signed transaction cannot be empty")
	}

	normalized := strings.TrimPrefix(tx, "0x")
	normalized = strings.TrimPrefix(normalized, "0X")

	if len(normalized) == 0 || len(normalized)%2 != 0 {
		return fmt.Errorf("invalid signed transaction length: %d", len(normalized))
	}

	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid hex transaction: %w", err)
	}

	return nil
}

// NormalizeAddress converts an address to lowercase with the 0x prefix
func NormalizeAddress(addr string) string {
	addr = strings.TrimPrefix(addr, "0x")
	addr = strings.TrimPrefix(addr, "0X")
	return "0x" + strings.ToLower(addr)
}

// ValidateAndNormalizeAddress validates an address and returns its normalized form
func ValidateAndNormalizeAddress(addr string) (string, error) {
	if err := ValidateAddress(addr); err != nil {
		return "", err
	}
	return NormalizeAddress(addr), nil
}
