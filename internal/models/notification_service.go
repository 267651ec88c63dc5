package models

type NotificationService interface {
	// PurchaseEmails renders the buyer confirmation email and the internal
	// notification emails for a settled purchase. The returned rows are
	// enqueued inside the settlement transaction and delivered later by the
	// outbox dispatcher. May return an empty slice.
	PurchaseEmails(wallet *Wallet, products []*Product, totalWei int64) []*OutboxEmail

	// AnnounceSettlement sends best-effort out-of-band alerts about a settled
	// purchase (e.g. Telegram). Failures are logged, never propagated.
	AnnounceSettlement(wallet *Wallet, products []*Product, totalWei int64, txHash string)
}

// EmailSender delivers a single email message.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}
