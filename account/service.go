// Package account implements registration and credential authentication
// for Users.
package account

import (
	"errors"
	"fmt"
	"strings"

	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/postgres"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials reports an email and password pair matching no User.
//
// A missing User and a wrong password both surface as ErrBadCredentials
// so responses cannot enumerate accounts.
var ErrBadCredentials = errors.New("bad credentials")

// A Service exposes all operations performed on a User account.
type Service interface {
	Register(username, email, password string) (traillog.User, error)
	Authenticate(email, password string) (traillog.User, error)
	Lookup(id uint) (traillog.User, error)
}

// DBService implements Service atop a *postgres.DB.
type DBService struct {
	db *postgres.DB

	// bcrypt work factor, swappable down in tests
	cost int
}

// A ServiceOpt configures a *DBService when constructing a new one.
type ServiceOpt func(*DBService)

// WithHashCost sets the bcrypt work factor used when hashing passwords.
// Costs outside the range bcrypt accepts are ignored.
func WithHashCost(cost int) ServiceOpt {
	return func(s *DBService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// NewService constructs a *DBService around the given database handle.
func NewService(db *postgres.DB, opts ...ServiceOpt) *DBService {
	s := &DBService{db: db, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register creates a User from the submitted credentials.
//
// Username and email are trimmed of surrounding whitespace,
// and all three fields are required; a miss reports traillog.ErrNotValid.
// A username or email already claimed reports traillog.ErrExists without
// naming the colliding column.
//
// The password is never persisted; only its bcrypt hash is.
func (s *DBService) Register(username, email, password string) (traillog.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	var missing []string
	for field, val := range map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	} {
		if val == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return traillog.User{}, fmt.Errorf("%w: missing %s", traillog.ErrNotValid, strings.Join(missing, ", "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return traillog.User{}, fmt.Errorf("%w: hashing password: %s", traillog.ErrUnexpected, err)
	}

	user := traillog.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user); err != nil {
		return traillog.User{}, fmt.Errorf("registering %q: %w", email, err)
	}

	return user, nil
}

// Authenticate checks the submitted credentials against the stored
// bcrypt hash for the User with the given email.
func (s *DBService) Authenticate(email, password string) (traillog.User, error) {
	email = strings.TrimSpace(email)

	var user traillog.User
	err := s.db.Where("email = ?", email).First(&user)
	if errors.Is(err, traillog.ErrNotFound) {
		return traillog.User{}, fmt.Errorf("%w: %s", ErrBadCredentials, email)
	}

	if err != nil {
		return traillog.User{}, fmt.Errorf("authenticating %q: %w", email, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return traillog.User{}, fmt.Errorf("%w: %s", ErrBadCredentials, email)
	}

	return user, nil
}

// Lookup retrieves the User by ID, for reestablishing who a session
// belongs to.
func (s *DBService) Lookup(id uint) (traillog.User, error) {
	var user traillog.User
	if err := s.db.Where("id = ?", id).First(&user); err != nil {
		return traillog.User{}, fmt.Errorf("looking up user %d: %w", id, err)
	}

	return user, nil
}
