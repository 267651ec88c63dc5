package models

// Order represents a single purchased product. Orders are created only as a
// result of a confirmed payment and are append-only.
type Order struct {
	// ID is the unique identifier of the order row.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// WalletUUID is the wallet that made the purchase.
	WalletUUID string `json:"wallet" gorm:"column:wallet;index;not null"`
	// ProductID is the purchased product.
	ProductID int64 `json:"product_id" gorm:"column:product_id;not null"`
	// Title is the product name at the time of purchase.
	Title string `json:"title" gorm:"column:title"`
	// Image is the product image URI at the time of purchase.
	Image string `json:"image" gorm:"column:image"`
	// Price is the price charged in wei.
	Price int64 `json:"price" gorm:"column:price;not null"`
	// Paid indicates the order was settled against a verified payment.
	Paid bool `json:"paid" gorm:"column:paid;not null"`
	// CreatedAt is the Unix timestamp when the order was recorded.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;index"`
}
