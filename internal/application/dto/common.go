package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ItemID    string `json:"itemId,omitempty"`
	ItemName  string `json:"itemName,omitempty"`
	Available *int   `json:"available,omitempty"` // solo INSUFFICIENT_STOCK
}

// StatusResponse respuesta simple {"status": "ok"}.
type StatusResponse struct {
	Status string `json:"status"`
}
