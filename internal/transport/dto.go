package transport

import "github.com/Skotchmaster/kasir/internal/models"

type ProductRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Barcode     *string `json:"barcode"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
}

func (r ProductRequest) Product() models.Product {
	return models.Product{
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Barcode:     r.Barcode,
		Image:       r.Image,
		Description: r.Description,
	}
}

type ImportRequest struct {
	Products []models.Product `json:"products"`
}

type AddItemRequest struct {
	ProductID uint   `json:"product_id"`
	Barcode   string `json:"barcode"`
	Quantity  int    `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type TenderRequest struct {
	Amount float64 `json:"amount"`
}

// CheckoutRequest may omit tendered to use the amount set on the cart.
type CheckoutRequest struct {
	Tendered *float64 `json:"tendered"`
}

type CheckoutErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	ProductID uint   `json:"product_id,omitempty"`
	Reconcile bool   `json:"reconcile,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ResetRequest struct {
	Scope string `json:"scope"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}
