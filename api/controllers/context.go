package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/api/middleware"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
)

// actorID returns the authenticated user's id from the request context.
func actorID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id in token")
	}
	return id, nil
}

// actorRole returns the authenticated user's role from the request context.
func actorRole(ctx context.Context) (enums.UserRole, error) {
	raw := middleware.RoleFromContext(ctx)
	role, err := enums.ParseUserRole(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role in token")
	}
	return role, nil
}
