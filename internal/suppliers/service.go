package suppliers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the supplier directory service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes the public supplier directory.
type Service interface {
	List(ctx context.Context, filters DirectoryFilters, page pagination.Params) (DirectoryPage, error)
	Get(ctx context.Context, id uuid.UUID) (DirectoryEntry, error)
	BusinessTypes(ctx context.Context) ([]string, error)
}

type service struct {
	repo *Repository
}

// NewService builds a supplier directory service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// List returns a page of suppliers with their derived stats.
func (s *service) List(ctx context.Context, filters DirectoryFilters, page pagination.Params) (DirectoryPage, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return DirectoryPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}

	entries, err := s.withStats(ctx, rows)
	if err != nil {
		return DirectoryPage{}, err
	}

	meta := pagination.MetaFor(page, total)
	return DirectoryPage{
		Suppliers: entries,
		Pagination: PageMeta{
			CurrentPage:    meta.CurrentPage,
			TotalPages:     meta.TotalPages,
			TotalSuppliers: meta.Total,
			HasNext:        meta.HasNext,
			HasPrev:        meta.HasPrev,
		},
	}, nil
}

// Get returns one supplier with derived stats.
func (s *service) Get(ctx context.Context, id uuid.UUID) (DirectoryEntry, error) {
	supplier, err := s.repo.FindSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DirectoryEntry{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "supplier not found")
		}
		return DirectoryEntry{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	entries, err := s.withStats(ctx, []models.User{*supplier})
	if err != nil {
		return DirectoryEntry{}, err
	}
	return entries[0], nil
}

// BusinessTypes returns the distinct business types for filters.
func (s *service) BusinessTypes(ctx context.Context) ([]string, error) {
	out, err := s.repo.BusinessTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list business types")
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *service) withStats(ctx context.Context, rows []models.User) ([]DirectoryEntry, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	stats, err := s.repo.StatsFor(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive supplier stats")
	}
	entries := make([]DirectoryEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, NewDirectoryEntry(&rows[i], stats[rows[i].ID]))
	}
	return entries, nil
}
