package models

import "github.com/shopspring/decimal"

// Product is the catalog entry a basket item refers to.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	Unit     string          `json:"unit"`
}

// CartItem is a product with a quantity in the user's cart.
type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// FavoriteItem is a product the user marked as favorite.
type FavoriteItem struct {
	ID      string  `json:"id"`
	Product Product `json:"product"`
}

// Basket is the persisted cart and favorites state of one user.
type Basket struct {
	Cart      []CartItem     `json:"cart"`
	Favorites []FavoriteItem `json:"favorites"`
}
