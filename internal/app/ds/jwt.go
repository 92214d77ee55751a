package ds

import (
	"clinic-backend/internal/app/role"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type JWTClaims struct {
	jwt.StandardClaims
	SessionUUID uuid.UUID `json:"session_uuid"`
	UserID      uint      `json:"user_id"`
	Role        role.Role `json:"role"`
}
