package models

import "context"

// PaymentVerdict is the facilitator's answer to a verification request.
type PaymentVerdict struct {
	// Allowed reports whether the signed transaction pays the expected
	// amount to the expected recipient.
	Allowed bool `json:"allowed"`
	// TxHash is the transaction hash on the payment network, if available.
	TxHash string `json:"txHash,omitempty"`
}

// FacilitatorService verifies a signed payment transaction against an
// expected recipient and amount before settlement is allowed to proceed.
type FacilitatorService interface {
	VerifyPayment(ctx context.Context, signedTxHex, expectedRecipient string, expectedAmountWei int64) (*PaymentVerdict, error)
}
