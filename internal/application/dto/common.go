package dto

// Response sobre estándar de respuestas exitosas.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse sobre estándar de respuestas de error. Details lleva la lista
// de mensajes de validación cuando aplica.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// OK arma una respuesta exitosa con payload.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage arma una respuesta exitosa con payload y mensaje.
func OKMessage(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Pagination metadatos de página en listados.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPagination calcula los metadatos a partir del total de registros.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
