package middleware

import (
	"context"

	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

type contextKey string

const (
	ctxSubjectID    contextKey = "subject_id"
	ctxRole         contextKey = "actor_role"
	ctxRestaurantID contextKey = "restaurant_id"
	ctxFarmerID     contextKey = "farmer_id"
	ctxLineUserID   contextKey = "line_user_id"
)

func SubjectIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSubjectID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the session role, defaulting to guest when absent.
func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return enums.RoleGuest
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		if role, err := enums.ParseRole(v); err == nil {
			return role
		}
	}
	return enums.RoleGuest
}

func RestaurantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRestaurantID).(string); ok {
		return v
	}
	return ""
}

func FarmerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxFarmerID).(string); ok {
		return v
	}
	return ""
}

func LineUserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxLineUserID).(string); ok {
		return v
	}
	return ""
}

// WithSubjectID injects the session subject identifier into the context.
func WithSubjectID(ctx context.Context, subjectID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSubjectID, subjectID)
}

// WithRestaurantID injects the restaurant identifier for downstream handlers.
func WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRestaurantID, restaurantID)
}

// WithFarmerID injects the farmer identifier for downstream handlers.
func WithFarmerID(ctx context.Context, farmerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxFarmerID, farmerID)
}

// WithLineUserID injects the LINE user identifier for downstream handlers.
func WithLineUserID(ctx context.Context, lineUserID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLineUserID, lineUserID)
}

// WithRole injects the session role for downstream handlers.
func WithRole(ctx context.Context, role enums.Role) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, string(role))
}
