package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

// directorySorts whitelists client supplied sort keys.
var directorySorts = map[string]string{
	"rating": "rating DESC, total_ratings DESC",
	"name":   "name ASC",
	"newest": "created_at DESC",
}

// Repository encapsulates supplier directory queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a supplier repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns a page of suppliers matching the filters plus the total
// match count.
func (r *Repository) List(ctx context.Context, filters DirectoryFilters, page pagination.Params) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleSupplier)
	if filters.BusinessType != "" {
		query = query.Where("business_type = ?", filters.BusinessType)
	}
	if filters.Location != "" {
		needle := "%" + strings.ToLower(filters.Location) + "%"
		query = query.Where("LOWER(COALESCE(address, '')) LIKE ?", needle)
	}
	if filters.MinRating != nil {
		query = query.Where("rating >= ?", *filters.MinRating)
	}
	if filters.Search != "" {
		needle := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(business_name, '')) LIKE ? OR LOWER(COALESCE(address, '')) LIKE ?",
			needle, needle, needle,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := directorySorts[filters.SortBy]
	if !ok {
		order = directorySorts["rating"]
	}

	var rows []models.User
	if err := query.
		Order(order).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).
		Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindSupplier loads one user and confirms the supplier role.
func (r *Repository) FindSupplier(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, enums.UserRoleSupplier).
		First(&user).
		Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// StatsFor derives directory aggregates for the given suppliers in
// grouped queries rather than per-row scans.
func (r *Repository) StatsFor(ctx context.Context, supplierIDs []uuid.UUID) (map[uuid.UUID]Stats, error) {
	stats := make(map[uuid.UUID]Stats, len(supplierIDs))
	if len(supplierIDs) == 0 {
		return stats, nil
	}

	var productAggregates []struct {
		SupplierID uuid.UUID
		Count      int64
		AvgPrice   float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("supplier_id, COUNT(*) AS count, AVG(price) AS avg_price").
		Where("supplier_id IN ? AND is_available = ?", supplierIDs, true).
		Group("supplier_id").
		Scan(&productAggregates).
		Error; err != nil {
		return nil, err
	}
	for _, row := range productAggregates {
		entry := stats[row.SupplierID]
		entry.ProductCount = row.Count
		entry.AvgPrice, _ = decimal.NewFromFloat(row.AvgPrice).Round(2).Float64()
		stats[row.SupplierID] = entry
	}

	var orderCounts []struct {
		SupplierID uuid.UUID
		Count      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("supplier_id, COUNT(*) AS count").
		Where("supplier_id IN ? AND status = ?", supplierIDs, enums.OrderStatusDelivered).
		Group("supplier_id").
		Scan(&orderCounts).
		Error; err != nil {
		return nil, err
	}
	for _, row := range orderCounts {
		entry := stats[row.SupplierID]
		entry.TotalOrders = row.Count
		stats[row.SupplierID] = entry
	}

	var categoryPairs []struct {
		SupplierID uuid.UUID
		Category   string
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("DISTINCT supplier_id, category").
		Where("supplier_id IN ? AND is_available = ?", supplierIDs, true).
		Order("category ASC").
		Scan(&categoryPairs).
		Error; err != nil {
		return nil, err
	}
	for _, row := range categoryPairs {
		entry := stats[row.SupplierID]
		entry.Categories = append(entry.Categories, row.Category)
		stats[row.SupplierID] = entry
	}

	return stats, nil
}

// BusinessTypes returns the distinct business types across suppliers.
func (r *Repository) BusinessTypes(ctx context.Context) ([]string, error) {
	var out []string
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND business_type IS NOT NULL AND business_type <> ''", enums.UserRoleSupplier).
		Distinct().
		Order("business_type ASC").
		Pluck("business_type", &out).
		Error; err != nil {
		return nil, err
	}
	return out, nil
}
