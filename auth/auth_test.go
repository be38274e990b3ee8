package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campus_share/apperr"
	"campus_share/persist"
)

func newUsers(t *testing.T) (*Users, *persist.Memory) {
	t.Helper()
	mem := persist.NewMemory()
	u := NewUsers(mem, zap.NewNop(), WithCost(bcrypt.MinCost))
	require.NoError(t, u.Load(context.Background()))
	return u, mem
}

var asha = SignupInput{Name: "Asha", Email: "Asha@Example.edu", Password: "secret123", College: "Christ"}

func TestSignupAndLogin(t *testing.T) {
	u, mem := newUsers(t)
	ctx := context.Background()

	id, err := u.Signup(ctx, asha)
	require.NoError(t, err)
	assert.NotEmpty(t, id.ID)
	assert.Equal(t, "asha@example.edu", id.Email)
	assert.Equal(t, "Christ", id.College)

	got, err := u.Login(ctx, " ASHA@example.edu", "secret123")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = u.Login(ctx, "asha@example.edu", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = u.Login(ctx, "nobody@example.edu", "secret123")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	reloaded := NewUsers(mem, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	again, ok := reloaded.Get(id.ID)
	require.True(t, ok)
	assert.Equal(t, id, again)
}

func TestLoginUnknownEmailStillHashes(t *testing.T) {
	u, _ := newUsers(t)
	cost, err := bcrypt.Cost([]byte(u.dummyHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	_, err = u.Login(context.Background(), "ghost@example.edu", "campusshare-dummy-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestPasswordIsHashed(t *testing.T) {
	u, _ := newUsers(t)
	_, err := u.Signup(context.Background(), asha)
	require.NoError(t, err)

	require.Len(t, u.users, 1)
	assert.NotEqual(t, asha.Password, u.users[0].PasswordHash)
	assert.True(t, CheckPasswordHash(asha.Password, u.users[0].PasswordHash))
}

func TestSignupRejectsDuplicatesAndBadInput(t *testing.T) {
	u, _ := newUsers(t)
	ctx := context.Background()
	_, err := u.Signup(ctx, asha)
	require.NoError(t, err)

	dup := asha
	dup.Email = "asha@example.edu"
	_, err = u.Signup(ctx, dup)
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	tests := []struct {
		name string
		in   SignupInput
	}{
		{"no name", SignupInput{Email: "a@b.c", Password: "secret123", College: "X"}},
		{"bad email", SignupInput{Name: "A", Email: "nope", Password: "secret123", College: "X"}},
		{"short password", SignupInput{Name: "A", Email: "a@b.c", Password: "123", College: "X"}},
		{"password over bcrypt limit", SignupInput{Name: "A", Email: "a@b.c", Password: strings.Repeat("p", 80), College: "X"}},
		{"no college", SignupInput{Name: "A", Email: "a@b.c", Password: "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.Signup(ctx, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	u, _ := newUsers(t)
	id, err := u.Signup(context.Background(), asha)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Sessions("campus_test", []byte("0123456789abcdef0123456789abcdef")), u.Identify())
	r.POST("/login", func(c *gin.Context) {
		require.NoError(t, SignIn(c, id))
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		require.NoError(t, SignOut(c))
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", RequireIdentity(), func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentIdentity(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.ID)
}
