// Package user stores accounts in a bolt database and verifies
// credentials with bcrypt.
package user

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	apperr "github.com/avinashraj/todokit/errors"
)

var (
	bucketUsers  = []byte("users")
	bucketEmails = []byte("user_emails")
)

// User is one registered account. The password hash never leaves this
// package's consumers as API output; handlers build their own views.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists users in two buckets: id to record, and a lowercase
// email index to id.
type Store struct {
	db *bolt.DB
}

// NewStore opens the store inside an already-open bolt database.
func NewStore(db *bolt.DB) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketEmails} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("init user buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// normalizeEmail lowercases and trims the address for indexing.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a new account. The email must be unused; the
// password is stored as a bcrypt hash only.
func (s *Store) Create(email, name, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, apperr.New(apperr.CodeInvalidInput, "a valid email is required")
	}
	if len(password) < 8 {
		return User{}, apperr.New(apperr.CodeInvalidInput, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		emails := tx.Bucket(bucketEmails)
		if emails.Get([]byte(email)) != nil {
			return apperr.New(apperr.CodeConflict, "email is already registered")
		}

		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketUsers).Put(u.ID[:], data); err != nil {
			return err
		}
		return emails.Put([]byte(email), u.ID[:])
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// GetByID returns the account or a NOT_FOUND error.
func (s *Store) GetByID(id uuid.UUID) (User, error) {
	var u User
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketUsers).Get(id[:])
		if data == nil {
			return apperr.New(apperr.CodeNotFound, "user not found")
		}
		return json.Unmarshal(data, &u)
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// GetByEmail returns the account or a NOT_FOUND error.
func (s *Store) GetByEmail(email string) (User, error) {
	var u User
	email = normalizeEmail(email)
	err := s.db.View(func(tx *bolt.Tx) error {
		idBytes := tx.Bucket(bucketEmails).Get([]byte(email))
		if idBytes == nil {
			return apperr.New(apperr.CodeNotFound, "user not found")
		}
		data := tx.Bucket(bucketUsers).Get(idBytes)
		if data == nil {
			return apperr.New(apperr.CodeNotFound, "user not found")
		}
		return json.Unmarshal(data, &u)
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate verifies the email/password pair. An unknown email and
// a wrong password both return UNAUTHORIZED, so callers cannot probe
// which addresses exist.
func (s *Store) Authenticate(email, password string) (User, error) {
	u, err := s.GetByEmail(email)
	if err != nil {
		return User{}, apperr.New(apperr.CodeUnauthorized, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return User{}, apperr.New(apperr.CodeUnauthorized, "invalid email or password")
	}
	return u, nil
}
