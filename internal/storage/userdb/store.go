// Package userdb implements UserStore using BadgerHold.
package userdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

const keySep = "\x00"

// uniqueClaim reserves a unique attribute value (email, PAN) for a user.
// Claims are inserted in the same transaction as the user record, so two
// concurrent registrations with the same value cannot both commit.
type uniqueClaim struct {
	UserID string
}

func emailKey(email string) string {
	return "email" + keySep + strings.ToLower(strings.TrimSpace(email))
}

func panKey(pan string) string {
	return "pan" + keySep + strings.ToUpper(strings.TrimSpace(pan))
}

// Store implements interfaces.UserStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) a user store at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create userdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open userdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("UserDB opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Get(userID, &user); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user '%s': %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var all []models.User
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	for i := range all {
		if strings.ToLower(all[i].Email) == email {
			user := all[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email '%s': %w", email, models.ErrNotFound)
}

func (s *Store) GetUserByPAN(_ context.Context, pan string) (*models.User, error) {
	pan = strings.ToUpper(strings.TrimSpace(pan))
	var all []models.User
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	for i := range all {
		if all[i].PANNumber == pan {
			user := all[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with PAN '%s': %w", pan, models.ErrNotFound)
}

// CreateUser inserts a new user, enforcing email and PAN uniqueness inside
// one transaction. Returns models.ErrAlreadyExists when either value is
// taken, models.ErrConflict when a concurrent registration interfered.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	now := time.Now()
	user.UpdatedAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		if err := s.db.TxInsert(txn, emailKey(user.Email), &uniqueClaim{UserID: user.UserID}); err != nil {
			if err == badgerhold.ErrKeyExists {
				return fmt.Errorf("user with email '%s': %w", user.Email, models.ErrAlreadyExists)
			}
			return err
		}
		if err := s.db.TxInsert(txn, panKey(user.PANNumber), &uniqueClaim{UserID: user.UserID}); err != nil {
			if err == badgerhold.ErrKeyExists {
				return fmt.Errorf("user with PAN '%s': %w", user.PANNumber, models.ErrAlreadyExists)
			}
			return err
		}
		if err := s.db.TxInsert(txn, user.UserID, user); err != nil {
			if err == badgerhold.ErrKeyExists {
				return fmt.Errorf("user '%s': %w", user.UserID, models.ErrAlreadyExists)
			}
			return err
		}
		return nil
	})
	if err == badger.ErrConflict {
		return fmt.Errorf("failed to create user '%s': %w", user.UserID, models.ErrConflict)
	}
	return err
}

func (s *Store) SaveUser(_ context.Context, user *models.User) error {
	now := time.Now()
	user.UpdatedAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if err := s.db.Upsert(user.UserID, user); err != nil {
		return fmt.Errorf("failed to save user '%s': %w", user.UserID, err)
	}
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID string) error {
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		var user models.User
		if err := s.db.TxGet(txn, userID, &user); err != nil {
			if err == badgerhold.ErrNotFound {
				return nil
			}
			return err
		}
		// Release claims so the email and PAN become reusable
		if err := s.db.TxDelete(txn, emailKey(user.Email), uniqueClaim{}); err != nil && err != badgerhold.ErrNotFound {
			return err
		}
		if err := s.db.TxDelete(txn, panKey(user.PANNumber), uniqueClaim{}); err != nil && err != badgerhold.ErrNotFound {
			return err
		}
		return s.db.TxDelete(txn, userID, models.User{})
	})
	if err != nil {
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]string, error) {
	var all []models.User
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var userIDs []string
	for _, u := range all {
		if u.UserID != "" {
			userIDs = append(userIDs, u.UserID)
		}
	}
	return userIDs, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time interface check
var _ interfaces.UserStore = (*Store)(nil)
