package dto

// RegisterRequest entrada para registrar un usuario.
// InviteCode opcional: si coincide con el código configurado, la cuenta se
// promueve a admin en el mismo registro.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"full_name" validate:"omitempty,max=200"`
	InviteCode string `json:"invite_code"`
}

// LoginRequest entrada para iniciar sesión.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest entrada para renovar un token todavía válido.
type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

// AuthResponse salida de register/login/refresh: token + perfil resuelto.
type AuthResponse struct {
	Token   string          `json:"token"`
	User    ProfileResponse `json:"user"`
	IsAdmin bool            `json:"is_admin"`
}
