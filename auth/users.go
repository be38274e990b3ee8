// Package auth registers users, verifies credentials and tracks the signed-in
// identity of a request.
package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campus_share/apperr"
	"campus_share/models"
	"campus_share/persist"
)

const (
	minPasswordLen = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordLen = 72
)

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	College  string
}

// Users is the account registry, persisted wholesale as the users collection.
type Users struct {
	mu    sync.RWMutex
	p     persist.Persister
	log   *zap.Logger
	cost  int
	now   func() time.Time
	users []models.User

	// compared against on unknown emails so both login failures cost a hash
	dummyHash string
}

type UsersOption func(*Users)

// WithCost sets the bcrypt cost; tests use bcrypt.MinCost.
func WithCost(cost int) UsersOption {
	return func(u *Users) { u.cost = cost }
}

func NewUsers(p persist.Persister, log *zap.Logger, opts ...UsersOption) *Users {
	u := &Users{p: p, log: log, cost: bcrypt.DefaultCost, now: time.Now}
	for _, o := range opts {
		o(u)
	}
	u.dummyHash, _ = HashPassword("campusshare-dummy-password", u.cost)
	return u
}

func (u *Users) Load(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	var users []models.User
	if _, err := u.p.Load(ctx, persist.Users, &users); err != nil {
		return apperr.Persistence("load users", err)
	}
	u.users = users
	return nil
}

// Signup registers a new account. Emails are unique, case-insensitively.
func (u *Users) Signup(ctx context.Context, in SignupInput) (models.Identity, error) {
	const op = "signup"

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	college := strings.TrimSpace(in.College)
	switch {
	case name == "":
		return models.Identity{}, apperr.Validation(op, "name is required")
	case !strings.Contains(email, "@"):
		return models.Identity{}, apperr.Validation(op, "a valid email is required")
	case len(in.Password) < minPasswordLen:
		return models.Identity{}, apperr.Validation(op, "password must be at least %d characters", minPasswordLen)
	case len(in.Password) > maxPasswordLen:
		return models.Identity{}, apperr.Validation(op, "password must be at most %d bytes", maxPasswordLen)
	case college == "":
		return models.Identity{}, apperr.Validation(op, "college is required")
	}

	hash, err := HashPassword(in.Password, u.cost)
	if err != nil {
		return models.Identity{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.byEmailLocked(email); ok {
		return models.Identity{}, apperr.Duplicate(op, "email %s already registered", email)
	}
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		College:      college,
		CreatedAt:    u.now(),
	}
	u.users = append(u.users, user)
	if err := u.p.Save(ctx, persist.Users, u.users); err != nil {
		u.log.Error("Failed to persist users", zap.Error(err))
		return models.Identity{}, apperr.Persistence(op, err)
	}

	u.log.Info("User registered", zap.String("user_id", user.ID), zap.String("college", user.College))
	return user.Identity(), nil
}

// Login checks the password against the stored hash. The identity's college
// always comes from the account.
func (u *Users) Login(_ context.Context, email, password string) (models.Identity, error) {
	u.mu.RLock()
	user, ok := u.byEmailLocked(normalizeEmail(email))
	u.mu.RUnlock()

	hash := user.PasswordHash
	if !ok {
		hash = u.dummyHash
	}
	if !CheckPasswordHash(password, hash) || !ok {
		return models.Identity{}, apperr.Unauthorized("login", "invalid email or password")
	}
	return user.Identity(), nil
}

func (u *Users) Get(id string) (models.Identity, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, user := range u.users {
		if user.ID == id {
			return user.Identity(), true
		}
	}
	return models.Identity{}, false
}

func (u *Users) byEmailLocked(email string) (models.User, bool) {
	for _, user := range u.users {
		if user.Email == email {
			return user, true
		}
	}
	return models.User{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
