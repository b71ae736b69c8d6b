package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/fieldline/fieldline/internal/auth/domain"
	"github.com/fieldline/fieldline/internal/auth/password"
	companydomain "github.com/fieldline/fieldline/internal/company/domain"
	"github.com/fieldline/fieldline/internal/config"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Main Distributor"
)

var defaultCurrencies = []struct {
	Code   string
	Name   string
	Symbol string
}{
	{"IDR", "Indonesian Rupiah", "Rp"},
	{"USD", "United States Dollar", "$"},
}

var defaultCategories = []string{"Retail", "Wholesale", "Horeca"}
var defaultTypes = []string{"Kiosk", "Minimarket", "Supermarket", "Restaurant"}
var defaultChannels = []string{"General Trade", "Modern Trade", "On Premise"}

// EnsureReferenceData seeds the currency and customer lookup tables.
func EnsureReferenceData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, currency := range defaultCurrencies {
			err := tx.Exec(
				`INSERT INTO currencies (code, name, symbol) VALUES (?, ?, ?) ON CONFLICT (code) DO NOTHING`,
				currency.Code, currency.Name, currency.Symbol,
			).Error
			if err != nil {
				return err
			}
		}

		for table, names := range map[string][]string{
			"customer_categories": defaultCategories,
			"customer_types":      defaultTypes,
			"customer_channels":   defaultChannels,
		} {
			for _, name := range names {
				err := tx.Exec(
					`INSERT INTO `+table+` (id, code, name) VALUES (?, ?, ?) ON CONFLICT (code) DO NOTHING`,
					node.Generate(), slug.Make(name), name,
				).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// EnsureDefaultCompanyAndAdmin seeds the bootstrap company and admin account
// so a fresh install is usable without manual setup.
func EnsureDefaultCompanyAndAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))
	if email == "" {
		return nil
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := ensureDefaultCompanyTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var user authdomain.User
		err = tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.BootstrapAdminPassword)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate(),
			CompanyID:    &company.ID,
			Name:         "Administrator",
			Email:        email,
			PasswordHash: hashed,
			Role:         authdomain.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}

func ensureDefaultCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*companydomain.Company, error) {
	var company companydomain.Company
	err := tx.WithContext(ctx).Where("code = ?", slug.Make(defaultCompanyName)).First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	company = companydomain.Company{
		ID:        node.Generate(),
		Code:      slug.Make(defaultCompanyName),
		Name:      defaultCompanyName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}
