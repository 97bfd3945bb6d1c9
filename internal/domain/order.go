package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusDispatched OrderStatus = "dispatched"
	StatusSuccess    OrderStatus = "success"
	StatusCompleted  OrderStatus = "completed"
)

// Statuses lists every status an order may hold, in display order.
var Statuses = []OrderStatus{StatusPending, StatusDispatched, StatusSuccess, StatusCompleted}

var (
	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidFilter = errors.New("invalid order filter")
)

func (s OrderStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

type LineItem struct {
	Product  Product  `json:"product"`
	Image    ImageRef `json:"image"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

// Order mirrors the "order" document in the content store. ID is the
// store-assigned document id and is the only key used for mutations.
type Order struct {
	ID           string      `json:"_id"`
	OrderNumber  string      `json:"orderNumber"`
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email"`
	City         string      `json:"city"`
	Phone        string      `json:"phone,omitempty"`
	OrderDate    string      `json:"orderDate"`
	Products     []LineItem  `json:"products"`
	TotalPrice   float64     `json:"totalPrice"`
	Status       OrderStatus `json:"status"`
}

func (o Order) Ref() string {
	return o.ID
}

// ImageRef accepts either a plain string or a Sanity image object
// ({"_type":"image","asset":{"_ref":"image-..."}}).
type ImageRef string

func (r *ImageRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = ImageRef(s)
		return nil
	}

	var obj struct {
		URL   string `json:"url"`
		Asset struct {
			Ref string `json:"_ref"`
			URL string `json:"url"`
		} `json:"asset"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("image: %w", err)
	}

	switch {
	case obj.Asset.URL != "":
		*r = ImageRef(obj.Asset.URL)
	case obj.URL != "":
		*r = ImageRef(obj.URL)
	default:
		*r = ImageRef(obj.Asset.Ref)
	}
	return nil
}

func (r ImageRef) String() string {
	return string(r)
}
