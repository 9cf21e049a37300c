package models

// Product is one catalog SKU synced from the commerce platform's inventory.
// SKU is the natural key; re-syncs upsert on it.
type Product struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	SKU        string      `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Descriptor string      `gorm:"column:descriptor" json:"descriptor"`
	Type       ProductType `gorm:"column:type;default:UNKNOWN" json:"type"`
	GroupID    *string     `gorm:"column:group_id" json:"groupId,omitempty"`
	Year       *string     `gorm:"column:year" json:"year,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (Product) TableName() string {
	return "products"
}
