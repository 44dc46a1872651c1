package database

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/domain"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: "sqlite", DatabaseURL: "file::memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []any{&domain.User{}, &domain.Token{}, &domain.Person{}} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("missing table for %T", table)
		}
	}

	ctx := context.Background()
	u := domain.User{Email: "dup@example.com", Password: "x", Role: domain.RoleUser}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := domain.User{Email: "dup@example.com", Password: "y", Role: domain.RoleUser}
	if err := db.WithContext(ctx).Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected translated duplicate key error, got %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(&config.Config{DBDriver: "oracle", DatabaseURL: "x"}); err == nil {
		t.Fatal("expected error")
	}
}
