package dto

import "time"

// UpdateProfileRequest campos editables del perfil propio (merge parcial).
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// PromoteRequest entrada para promover un perfil a admin (back office).
type PromoteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ProfileResponse salida de un perfil.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileListResponse lista paginada de perfiles (back office).
type ProfileListResponse struct {
	Items []ProfileResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
