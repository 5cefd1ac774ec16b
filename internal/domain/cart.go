package domain

// DefaultMaxQuantity caps how many units of one item a cart line may hold.
const DefaultMaxQuantity = 5

type CartLine struct {
	Item     Item `json:"starship"`
	Quantity int  `json:"quantity"`
}
