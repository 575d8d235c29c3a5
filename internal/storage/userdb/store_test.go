package userdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

func newUnitTestStore(t *testing.T) *Store {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := NewStore(logger, t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserCRUD(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	user := &models.User{
		UserID:       "u-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		PANNumber:    "ABCDE1234F",
		KYCStatus:    models.KYCStatusPending,
		IsActive:     true,
	}
	if err := store.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("SaveUser should stamp timestamps")
	}

	got, err := store.GetUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "alice@example.com" || got.PANNumber != "ABCDE1234F" {
		t.Errorf("unexpected user: %+v", got)
	}

	if err := store.DeleteUser(ctx, "u-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := store.GetUser(ctx, "u-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetUserByEmailAndPAN(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	store.SaveUser(ctx, &models.User{UserID: "u-1", Email: "alice@example.com", PANNumber: "ABCDE1234F"})
	store.SaveUser(ctx, &models.User{UserID: "u-2", Email: "bob@example.com", PANNumber: "FGHIJ5678K"})

	// Email lookup is case-insensitive
	got, err := store.GetUserByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.UserID != "u-1" {
		t.Errorf("expected u-1, got %s", got.UserID)
	}

	got, err = store.GetUserByPAN(ctx, "fghij5678k")
	if err != nil {
		t.Fatalf("GetUserByPAN: %v", err)
	}
	if got.UserID != "u-2" {
		t.Errorf("expected u-2, got %s", got.UserID)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	ids, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no users, got %d", len(ids))
	}

	store.SaveUser(ctx, &models.User{UserID: "u-1", Email: "a@example.com"})
	store.SaveUser(ctx, &models.User{UserID: "u-2", Email: "b@example.com"})

	ids, _ = store.ListUsers(ctx)
	if len(ids) != 2 {
		t.Errorf("expected 2 users, got %d", len(ids))
	}
}

func TestCreateUserEnforcesUniqueness(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	first := &models.User{
		UserID:    "u-1",
		Name:      "Alice",
		Email:     "alice@example.com",
		PANNumber: "ABCDE1234F",
		IsActive:  true,
	}
	if err := store.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dupEmail := &models.User{
		UserID:    "u-2",
		Name:      "Bob",
		Email:     "alice@example.com",
		PANNumber: "FGHIJ5678K",
	}
	if err := store.CreateUser(ctx, dupEmail); !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("duplicate email: expected ErrAlreadyExists, got %v", err)
	}

	dupPAN := &models.User{
		UserID:    "u-3",
		Name:      "Carol",
		Email:     "carol@example.com",
		PANNumber: "ABCDE1234F",
	}
	if err := store.CreateUser(ctx, dupPAN); !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("duplicate PAN: expected ErrAlreadyExists, got %v", err)
	}

	distinct := &models.User{
		UserID:    "u-4",
		Name:      "Dave",
		Email:     "dave@example.com",
		PANNumber: "FGHIJ5678K",
	}
	if err := store.CreateUser(ctx, distinct); err != nil {
		t.Fatalf("CreateUser distinct: %v", err)
	}

	// Deleting a user releases its email and PAN
	if err := store.DeleteUser(ctx, "u-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	reuse := &models.User{
		UserID:    "u-5",
		Name:      "Eve",
		Email:     "alice@example.com",
		PANNumber: "ABCDE1234F",
	}
	if err := store.CreateUser(ctx, reuse); err != nil {
		t.Fatalf("CreateUser after delete: %v", err)
	}
}

func TestCreateUserConcurrentSameEmail(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- store.CreateUser(ctx, &models.User{
				UserID:    fmt.Sprintf("u-%d", i),
				Name:      "Racer",
				Email:     "racer@example.com",
				PANNumber: fmt.Sprintf("ABCDE%04dZ", i),
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, models.ErrAlreadyExists) && !errors.Is(err, models.ErrConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly 1 registration to succeed, got %d", succeeded)
	}

	if _, err := store.GetUserByEmail(ctx, "racer@example.com"); err != nil {
		t.Errorf("GetUserByEmail: %v", err)
	}
}
