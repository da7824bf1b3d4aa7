package entity

type Product struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	PricePerGram float64 `json:"price_per_gram" db:"price_per_gram"`
}
