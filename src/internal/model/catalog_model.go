package model

type AddProductRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	PricePerGram float64 `json:"pricePerGram" validate:"required,gt=0"`
}

type ProductResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PricePerGram float64 `json:"pricePerGram"`
}
