package models

// OutboxEmail is a pending notification email. Rows are enqueued inside the
// settlement transaction and delivered afterwards by the outbox dispatcher,
// so the settlement result never depends on the email provider.
type OutboxEmail struct {
	// ID is the unique identifier of the outbox entry.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Recipient is the destination email address.
	Recipient string `json:"recipient" gorm:"column:recipient;not null"`
	// Subject is the email subject line.
	Subject string `json:"subject" gorm:"column:subject"`
	// Body is the HTML body of the email.
	Body string `json:"body" gorm:"column:body"`
	// Attempts counts delivery attempts so far.
	Attempts int `json:"attempts" gorm:"column:attempts;not null;default:0"`
	// SentAt is the Unix timestamp of successful delivery, 0 while pending.
	SentAt int64 `json:"sent_at" gorm:"column:sent_at;index"`
	// CreatedAt is the Unix timestamp when the entry was enqueued.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;index"`
}

// TableName specifies the table name for GORM
func (OutboxEmail) TableName() string {
	return "outbox_emails"
}
