package models

// Wallet represents the buyer wallet in the system.
// Credit mirrors the balance on the payment network and is stored in the
// smallest payment unit (wei). It is mutated only by the settlement flow.
type Wallet struct {
	// UUID is the stable identifier of the wallet.
	UUID string `json:"uuid" gorm:"column:uuid;primaryKey"`
	// Credit is the wallet balance in wei.
	Credit int64 `json:"credit" gorm:"column:credit;not null;default:0"`
	// Name is the display name of the wallet owner.
	Name string `json:"name" gorm:"column:name"`
	// Email is the address purchase confirmations are sent to. May be empty.
	Email string `json:"email" gorm:"column:email"`
	// CreatedAt is the Unix timestamp when the wallet was created.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at"`
}
