package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

// sortColumns whitelists client supplied sort keys against real columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"quantity":  "quantity",
}

// Repository encapsulates product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads a product with its supplier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("id = ?", id).
		First(&product).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns a page of available products matching the filters plus
// the total match count.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_available = ?", true)
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filters.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}

	var rows []models.Product
	if err := query.
		Preload("Supplier").
		Order(column + " " + direction).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).
		Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Subcategory != "" {
		query = query.Where("subcategory = ?", filters.Subcategory)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filters.Search != "" {
		// tags is a JSON array column; the cast keeps the clause valid on
		// both postgres (jsonb) and sqlite (text).
		needle := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(COALESCE(CAST(tags AS TEXT), '')) LIKE ?",
			needle, needle, needle, needle,
		)
	}
	return query
}

// ListBySupplier returns every product the supplier owns, newest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAvailableBySupplier returns the supplier's available products,
// capped at limit, for the public supplier page.
func (r *Repository) ListAvailableBySupplier(ctx context.Context, supplierID uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND is_available = ?", supplierID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateOwned applies the column updates to a product only when the
// supplier owns it. Returns the number of rows touched.
func (r *Repository) UpdateOwned(ctx context.Context, id, supplierID uuid.UUID, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND supplier_id = ?", id, supplierID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// BulkUpdateOwned applies one set of column updates to every listed
// product the supplier owns. Returns the number of rows touched.
func (r *Repository) BulkUpdateOwned(ctx context.Context, ids []uuid.UUID, supplierID uuid.UUID, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ? AND supplier_id = ?", ids, supplierID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteOwned removes a product only when the supplier owns it.
// Returns the number of rows removed.
func (r *Repository) DeleteOwned(ctx context.Context, id, supplierID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND supplier_id = ?", id, supplierID).
		Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

// Exists reports whether a product row exists regardless of ownership.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Categories aggregates the available catalog per category with the
// distinct subcategories seen under each.
func (r *Repository) Categories(ctx context.Context) ([]CategorySummary, error) {
	var counts []struct {
		Category string
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Where("is_available = ?", true).
		Group("category").
		Order("category ASC").
		Scan(&counts).
		Error; err != nil {
		return nil, err
	}

	var pairs []struct {
		Category    string
		Subcategory string
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("DISTINCT category, subcategory").
		Where("is_available = ? AND subcategory IS NOT NULL AND subcategory <> ''", true).
		Order("category ASC, subcategory ASC").
		Scan(&pairs).
		Error; err != nil {
		return nil, err
	}

	subsByCategory := make(map[string][]string, len(counts))
	for _, pair := range pairs {
		subsByCategory[pair.Category] = append(subsByCategory[pair.Category], pair.Subcategory)
	}

	out := make([]CategorySummary, 0, len(counts))
	for _, row := range counts {
		subs := subsByCategory[row.Category]
		if subs == nil {
			subs = []string{}
		}
		out = append(out, CategorySummary{
			Category:      row.Category,
			Count:         row.Count,
			Subcategories: subs,
		})
	}
	return out, nil
}

// Featured returns the newest featured available products.
func (r *Repository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("is_available = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SuggestProducts returns name matches for the search box.
func (r *Repository) SuggestProducts(ctx context.Context, q string, limit int) ([]ProductSuggestion, error) {
	needle := "%" + strings.ToLower(q) + "%"
	var out []ProductSuggestion
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id, name, category").
		Where("is_available = ? AND LOWER(name) LIKE ?", true, needle).
		Order("name ASC").
		Limit(limit).
		Scan(&out).
		Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SuggestSuppliers returns supplier matches for the search box.
func (r *Repository) SuggestSuppliers(ctx context.Context, q string, limit int) ([]SupplierSuggestion, error) {
	needle := "%" + strings.ToLower(q) + "%"
	var out []SupplierSuggestion
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, name, business_name").
		Where(
			"role = ? AND (LOWER(name) LIKE ? OR LOWER(COALESCE(business_name, '')) LIKE ?)",
			enums.UserRoleSupplier, needle, needle,
		).
		Order("name ASC").
		Limit(limit).
		Scan(&out).
		Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LowStock returns the supplier's products at or under the threshold.
func (r *Repository) LowStock(ctx context.Context, supplierID uuid.UUID, threshold int) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND quantity <= ?", supplierID, threshold).
		Order("quantity ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ExpiringSoon returns the supplier's products expiring inside the window.
func (r *Repository) ExpiringSoon(ctx context.Context, supplierID uuid.UUID, window time.Duration, now time.Time) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where(
			"supplier_id = ? AND expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?",
			supplierID, now, now.Add(window),
		).
		Order("expiry_date ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DecrementStock atomically reserves quantity, refusing to go negative.
// Returns the number of rows touched; zero means insufficient stock.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
		quantity, id, quantity,
	)
	return result.RowsAffected, result.Error
}

// RestoreStock returns reserved quantity to a listing.
func (r *Repository) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE products SET quantity = quantity + ? WHERE id = ?`,
		quantity, id,
	).Error
}
