package models

import "github.com/shopspring/decimal"

// AdditionalItem is a priced add-on (baggage, insurance, ...). The rate here
// is the live one; committed bookings keep their own snapshot in BookingItem.
type AdditionalItem struct {
	ID          uint            `gorm:"primaryKey;column:item_id" json:"item_id"`
	Description string          `gorm:"column:description;size:150;uniqueIndex;not null" json:"description"`
	CostPerUnit decimal.Decimal `gorm:"column:cost_per_unit;type:decimal(10,2);not null" json:"cost_per_unit"`
}
