package domain

type StatusChanged struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        Status `json:"from"`
	To          Status `json:"to"`
}

type OrderDeleted struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
}
