package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Field   string      `json:"field,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
