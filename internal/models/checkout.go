package models

import "context"

// PurchaseResult is the caller-visible outcome of a purchase attempt.
// Callers distinguish success, payment-required and failure purely by the
// fields here, never by error values.
type PurchaseResult struct {
	// Success reports whether the purchase settled.
	Success bool `json:"success"`
	// Message is a human-readable description of the outcome.
	Message string `json:"message"`
	// Status carries payment-required semantics (402) when set.
	Status int `json:"status,omitempty"`
	// PaymentRequired signals the caller must resubmit with a valid signed
	// transaction. This is a normal outcome, not an error.
	PaymentRequired bool `json:"payment_required,omitempty"`
	// SellerWallet is the address the payment must be sent to.
	SellerWallet string `json:"seller_wallet,omitempty"`
	// AmountWei is the exact amount due in wei.
	AmountWei int64 `json:"amount_wei,omitempty"`
	// ProductCount is the number of products purchased on success.
	ProductCount int `json:"product_count,omitempty"`
	// TxHash is the facilitator's transaction reference on success.
	TxHash string `json:"tx_hash,omitempty"`
	// ExplorerURL links the transaction on a block explorer.
	ExplorerURL string `json:"explorer_url,omitempty"`
}

// CheckoutService runs the purchase settlement flow.
type CheckoutService interface {
	BuyProducts(ctx context.Context, productIDs []int64, signedTxHex string) *PurchaseResult
}
