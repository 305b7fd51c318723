package dto

import "time"

// CreateMessageRequest entrada del formulario de contacto (inserción pública).
type CreateMessageRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=1,max=300"`
	Message string `json:"message" validate:"required,min=1"`
}

// MarkMessageReadRequest entrada para marcar leído/no leído.
type MarkMessageReadRequest struct {
	IsRead bool `json:"is_read"`
}

// ListMessagesRequest filtros del buzón admin.
type ListMessagesRequest struct {
	UnreadOnly bool `query:"unread_only"`
	PageRequest
}

// MessageResponse salida de un mensaje.
type MessageResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MessageListResponse lista paginada de mensajes.
type MessageListResponse struct {
	Items []MessageResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
