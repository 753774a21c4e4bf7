package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/internal/accounts"
	"github.com/refarm-eos/refarm-backend/pkg/auth"
	"github.com/refarm-eos/refarm-backend/pkg/auth/session"
	"github.com/refarm-eos/refarm-backend/pkg/config"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/security"
)

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams groups dependencies for the identity service.
type ServiceParams struct {
	Accounts accounts.Repository
	Verifier Verifier
	Sessions sessionManager
	JWT      config.JWTConfig
	Now      func() time.Time
}

// Service turns LINE and admin credentials into platform sessions.
type Service struct {
	accounts accounts.Repository
	verifier Verifier
	sessions sessionManager
	jwt      config.JWTConfig
	now      func() time.Time
}

// NewService builds an identity service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Accounts == nil {
		return nil, errors.New("accounts repository is required")
	}
	if params.Verifier == nil {
		return nil, errors.New("verifier is required")
	}
	if params.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		accounts: params.Accounts,
		verifier: params.Verifier,
		sessions: params.Sessions,
		jwt:      params.JWT,
		now:      now,
	}, nil
}

// Session is the token pair plus the resolved identity handed to clients.
type Session struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	Role         enums.Role `json:"role"`
	LineUserID   string     `json:"line_user_id,omitempty"`
	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`
	FarmerID     *uuid.UUID `json:"farmer_id,omitempty"`
}

// LoginWithLine verifies a LIFF ID token and opens a session. The role comes
// from whichever account the LINE user is linked to; an unlinked user gets a
// guest session that can only browse and register.
func (s *Service) LoginWithLine(ctx context.Context, idToken string) (*Session, error) {
	line, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.accounts.FindRestaurantByLineUser(ctx, line.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up restaurant link")
	}
	farmer, err := s.accounts.FindFarmerByLineUser(ctx, line.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up farmer link")
	}
	if restaurant != nil && farmer != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "line user linked to both a restaurant and a farmer")
	}

	payload := auth.AccessTokenPayload{
		Role:       enums.RoleGuest,
		LineUserID: line.UserID,
	}
	switch {
	case restaurant != nil:
		payload.Role = enums.RoleRestaurant
		payload.SubjectID = restaurant.ID
		id := restaurant.ID
		payload.RestaurantID = &id
	case farmer != nil:
		payload.Role = enums.RoleFarmer
		payload.SubjectID = farmer.ID
		id := farmer.ID
		payload.FarmerID = &id
	}

	return s.openSession(ctx, payload)
}

// LoginAdmin checks an email/password pair against the admin table.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	admin, err := s.accounts.FindAdminByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up admin")
	}
	if admin == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.openSession(ctx, auth.AccessTokenPayload{
		SubjectID: admin.ID,
		Role:      enums.RoleAdmin,
	})
}

// Refresh rotates a refresh token and issues a fresh pair.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	token, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{
		SubjectID:    claims.SubjectID,
		Role:         claims.Role,
		LineUserID:   claims.LineUserID,
		RestaurantID: claims.RestaurantID,
		FarmerID:     claims.FarmerID,
		JTI:          newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &Session{
		AccessToken:  token,
		RefreshToken: newRefresh,
		Role:         claims.Role,
		LineUserID:   claims.LineUserID,
		RestaurantID: claims.RestaurantID,
		FarmerID:     claims.FarmerID,
	}, nil
}

// Logout revokes the refresh session tied to the presented access token.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, payload auth.AccessTokenPayload) (*Session, error) {
	accessID := session.NewAccessID()
	payload.JTI = accessID

	token, err := auth.MintAccessToken(s.jwt, s.now(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh session")
	}

	return &Session{
		AccessToken:  token,
		RefreshToken: refresh,
		Role:         payload.Role,
		LineUserID:   payload.LineUserID,
		RestaurantID: payload.RestaurantID,
		FarmerID:     payload.FarmerID,
	}, nil
}

var _ sessionManager = (*session.Manager)(nil)
