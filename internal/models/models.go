package models

import (
	"time"
)

// ItemKind discriminates the two catalog collections.
type ItemKind string

const (
	KindRank ItemKind = "Rank"
	KindCoin ItemKind = "Coin"
)

// Rank is a purchasable server rank. Name is the item's identity and is
// immutable once created; every other field may be edited.
type Rank struct {
	Kind          ItemKind `json:"type"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Features      []string `json:"features"`
	ImageURL      string   `json:"imageUrl"`
	Highlighted   bool     `json:"highlighted,omitempty"`
	Bonus         string   `json:"bonus,omitempty"`
}

// CoinPackage is a purchasable bundle of in-game currency.
type CoinPackage struct {
	Kind          ItemKind `json:"type"`
	Name          string   `json:"name"`
	Amount        int      `json:"amount"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Bonus         string   `json:"bonus,omitempty"`
	ImageURL      string   `json:"imageUrl"`
	Highlighted   bool     `json:"highlighted,omitempty"`
}

// DiscountPercent returns the "X% off" figure for display, or 0 when there is
// no original price above the current one. Nothing validates that
// OriginalPrice exceeds Price; a nonsensical pair simply yields no badge.
func DiscountPercent(price float64, originalPrice *float64) int {
	if originalPrice == nil || *originalPrice <= price {
		return 0
	}
	return int((*originalPrice - price) / *originalPrice * 100)
}

// PurchaseRecord is one completed purchase submission. The JSON field names
// match the wire shape of the recent-purchases feed.
type PurchaseRecord struct {
	ID        string    `json:"_id"`
	BuyerName string    `json:"username"`
	ItemName  string    `json:"item"`
	CreatedAt time.Time `json:"createdAt"`
}

// SiteSettings are the operator-editable display settings.
type SiteSettings struct {
	DisplayName    string `json:"displayName"`
	ConnectAddress string `json:"connectAddress"`
	Description    string `json:"description"`
	ThemeColor     string `json:"themeColor"`
}
