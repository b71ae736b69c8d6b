package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/customer/domain"
	"github.com/fieldline/fieldline/internal/customer/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCustomerService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:customers_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.Customer{}); err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateGeneratesCodeFromName(t *testing.T) {
	svc := setupCustomerService(t)

	customer, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:      "  Toko Maju Jaya  ",
		OwnerName: "Budi",
	})
	if err != nil {
		t.Fatal(err)
	}

	if customer.Name != "Toko Maju Jaya" {
		t.Fatalf("expected trimmed name, got %q", customer.Name)
	}
	if !strings.HasPrefix(customer.Code, "toko-maju-jaya-") {
		t.Fatalf("expected slug code, got %q", customer.Code)
	}
	if !customer.IsActive {
		t.Fatal("expected new customer to be active")
	}
}

func TestCreateRejectsLoneCoordinate(t *testing.T) {
	svc := setupCustomerService(t)

	latitude := -6.2
	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:     "Warung Sebelah",
		Latitude: &latitude,
	})
	if !errors.Is(err, domain.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestUpdateChangesOnlyProvidedFields(t *testing.T) {
	svc := setupCustomerService(t)

	created, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:      "Kios Melati",
		OwnerName: "Sari",
		Phone:     "0812",
	})
	if err != nil {
		t.Fatal(err)
	}

	newName := "Kios Melati Baru"
	updated, err := svc.Update(context.Background(), domain.UpdateCustomerRequest{
		ID:   created.ID.String(),
		Name: &newName,
	})
	if err != nil {
		t.Fatal(err)
	}

	if updated.Name != newName {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.OwnerName != "Sari" || updated.Phone != "0812" {
		t.Fatalf("expected untouched fields to survive, got owner %q phone %q", updated.OwnerName, updated.Phone)
	}
	if updated.Code != created.Code {
		t.Fatalf("expected code to be immutable, got %q", updated.Code)
	}
}

func TestListPaginates(t *testing.T) {
	svc := setupCustomerService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
			Name: fmt.Sprintf("Customer %d", i),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	resp, err := svc.List(context.Background(), domain.ListCustomerRequest{PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Customers) != 2 {
		t.Fatalf("expected 2 customers on first page, got %d", len(resp.Customers))
	}
	if !resp.PageInfo.HasMore {
		t.Fatal("expected more pages")
	}
	if resp.PageInfo.NextPageToken == "" {
		t.Fatal("expected a next page token")
	}
}

func TestDeleteMissingCustomer(t *testing.T) {
	svc := setupCustomerService(t)

	err := svc.Delete(context.Background(), snowflake.ID(12345).String())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
