package dto

// RegisterRequest entrada para registro (auth): email y password.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password ni hash).
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse identidad + token JWT, en un único objeto plano.
type LoginResponse struct {
	UserResponse
	Token string `json:"token"`
}
