package dto

import "anoa.com/recruitportal/pkg/token"

// Field order decides which rule is reported first.
type LoginInput struct {
	Username string `json:"username" validate:"required,min=3,nodigitprefix"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterInput struct {
	Username string `json:"username" validate:"min=3"`
	Password string `json:"password" validate:"min=6"`
	Pnr      string `json:"pnr" validate:"number"`
	Email    string `json:"email" validate:"contains=@,contains=."`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt int64          `json:"expires_at"`
	User      token.Identity `json:"user"`
}
