package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
// SubjectID is the linked restaurant, farmer, or admin record; at most one of
// RestaurantID/FarmerID mirrors it depending on the role.
type AccessTokenPayload struct {
	SubjectID    uuid.UUID
	Role         enums.Role
	LineUserID   string
	RestaurantID *uuid.UUID
	FarmerID     *uuid.UUID
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	SubjectID    uuid.UUID  `json:"subject_id"`
	Role         enums.Role `json:"role"`
	LineUserID   string     `json:"line_user_id,omitempty"`
	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`
	FarmerID     *uuid.UUID `json:"farmer_id,omitempty"`
	jwt.RegisteredClaims
}
