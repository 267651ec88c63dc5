package models

// Product represents an item in the catalog. The catalog is read-only from
// the settlement flow's perspective.
type Product struct {
	// ID is the unique identifier of the product.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the display name of the product.
	Name string `json:"name" gorm:"column:name;not null"`
	// Price is the product price in wei.
	Price int64 `json:"price" gorm:"column:price;not null"`
	// Image is the URI of the product image.
	Image string `json:"image" gorm:"column:image"`
}
