// Package seed populates a fresh database with demo accounts and
// listings for local development. It is a no-op once users exist.
package seed

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/logger"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/security"
)

const demoPassword = "bazaar123"

type supplierSeed struct {
	name         string
	email        string
	businessName string
	businessType string
	address      string
	products     []productSeed
}

type productSeed struct {
	name        string
	category    string
	subcategory string
	price       float64
	unit        string
	quantity    int
	featured    bool
	tags        []string
}

// Run inserts the demo fixtures inside a single transaction when the
// users table is empty.
func Run(ctx context.Context, client *db.Client, cfg *config.Config, logg *logger.Logger) error {
	var count int64
	if err := client.DB().WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to inspect users table")
	}
	if count > 0 {
		logg.Info(ctx, "demo seed skipped, users already present")
		return nil
	}

	hash, err := security.HashPassword(demoPassword, cfg.Password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash demo password")
	}

	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, s := range suppliers() {
			supplier := models.User{
				Name:         s.name,
				Email:        s.email,
				PasswordHash: hash,
				Role:         enums.UserRoleSupplier,
				BusinessName: ptr(s.businessName),
				BusinessType: ptr(s.businessType),
				Address:      ptr(s.address),
				IsVerified:   true,
			}
			if err := tx.Create(&supplier).Error; err != nil {
				return err
			}
			for _, p := range s.products {
				expiry := time.Now().AddDate(0, 0, 14)
				product := models.Product{
					Name:        p.name,
					Category:    p.category,
					Subcategory: ptr(p.subcategory),
					Price:       p.price,
					Unit:        p.unit,
					Quantity:    p.quantity,
					SupplierID:  supplier.ID,
					IsAvailable: true,
					IsFeatured:  p.featured,
					Tags:        p.tags,
					ExpiryDate:  &expiry,
				}
				if err := tx.Create(&product).Error; err != nil {
					return err
				}
			}
		}

		for _, b := range buyers() {
			buyer := b
			buyer.PasswordHash = hash
			if err := tx.Create(&buyer).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Cart{UserID: buyer.ID}).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Wishlist{UserID: buyer.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to insert demo fixtures")
	}

	logg.Info(ctx, "demo data seeded")
	return nil
}

func suppliers() []supplierSeed {
	return []supplierSeed{
		{
			name:         "Rosa Mendes",
			email:        "rosa@greenvalleyfarm.test",
			businessName: "Green Valley Farm",
			businessType: "farm",
			address:      "12 Orchard Lane",
			products: []productSeed{
				{name: "Roma Tomatoes", category: "vegetables", subcategory: "tomatoes", price: 2.80, unit: "kg", quantity: 120, featured: true, tags: []string{"fresh", "local"}},
				{name: "Baby Spinach", category: "vegetables", subcategory: "leafy greens", price: 3.50, unit: "kg", quantity: 60, tags: []string{"organic"}},
				{name: "Honeycrisp Apples", category: "fruits", subcategory: "apples", price: 4.20, unit: "kg", quantity: 200, featured: true, tags: []string{"sweet"}},
			},
		},
		{
			name:         "Dev Patel",
			email:        "dev@sunrisewholesale.test",
			businessName: "Sunrise Wholesale",
			businessType: "wholesaler",
			address:      "4 Market Road",
			products: []productSeed{
				{name: "Yellow Onions", category: "vegetables", subcategory: "onions", price: 1.60, unit: "kg", quantity: 500, tags: []string{"bulk"}},
				{name: "Russet Potatoes", category: "vegetables", subcategory: "potatoes", price: 1.20, unit: "kg", quantity: 800, tags: []string{"bulk", "staple"}},
			},
		},
	}
}

func buyers() []models.User {
	return []models.User{
		{
			Name:         "Maya Okafor",
			Email:        "maya@stall42.test",
			Role:         enums.UserRoleStallOwner,
			BusinessName: ptr("Stall 42 Produce"),
			BusinessType: ptr("market stall"),
			Address:      ptr("Stall 42, Central Market"),
		},
		{
			Name:  "Jonas Lindqvist",
			Email: "jonas@example.test",
			Role:  enums.UserRoleBuyer,
		},
	}
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
