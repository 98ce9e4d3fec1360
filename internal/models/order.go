package models

// Order represents an incoming order submission
// Schema matches the storefront's checkout payload
type Order struct {
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"paymentMethod"`
	User          Customer   `json:"user"`
	FromNumber    string     `json:"fromNumber"`
}

// LineItem is a single ordered product. Img is a path relative to the
// configured asset directory. Item order is delivery order.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Img      string  `json:"img"`
}

// Customer holds the buyer's contact details. Used only for message
// formatting; nothing beyond presence is checked.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
