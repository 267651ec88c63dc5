package models

type Repository interface {
	GetWallet(uuid string) (*Wallet, error)

	GetProductsByIDs(ids []int64) ([]*Product, error)
	SearchProducts(query string, limit int) ([]*Product, error)

	// SettlePurchase records the orders, debits the wallet credit by totalWei
	// and enqueues the outbox emails in a single transaction. The debit is
	// atomic with respect to concurrent settlements on the same wallet.
	SettlePurchase(walletUUID string, orders []*Order, totalWei int64, emails []*OutboxEmail) error

	PendingOutboxEmails(limit int) ([]*OutboxEmail, error)
	MarkOutboxEmailSent(id string, sentAt int64) error
	MarkOutboxEmailFailed(id string) error

	Close() error
}
