package models

import "time"

// MedicineListing is one marketplace entry of unused medicine offered for
// recycling. Sellers keep ownership; only the seller may remove a listing.
type MedicineListing struct {
	ID         string    `gorm:"primaryKey"`
	SellerID   uint      `gorm:"not null;index"`
	TabletName string    `gorm:"not null"`
	ExpiryDate time.Time `gorm:"type:date;not null"`
	PriceCents int       `gorm:"not null"`
	CreatedAt  time.Time
}
