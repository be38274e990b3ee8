package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"campus_share/models"
)

const (
	sessionUserKey = "uid"
	identityKey    = "identity"
	sessionMaxAge  = 7 * 24 * 60 * 60
)

// Sessions installs a signed cookie session store.
func Sessions(name string, secret []byte) gin.HandlerFunc {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(name, store)
}

// Identify resolves the session's user id against the registry and attaches
// the identity to the request. Unknown ids are treated as anonymous.
func (u *Users) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, _ := sessions.Default(c).Get(sessionUserKey).(string)
		if uid != "" {
			if id, ok := u.Get(uid); ok {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose identity is not one of the configured
// admin emails. Anonymous requests get 401, other users 403.
func RequireAdmin(emails []string) gin.HandlerFunc {
	admins := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		me := CurrentIdentity(c)
		if me == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
			return
		}
		if _, ok := admins[normalizeEmail(me.Email)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the signed-in identity, or nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id := v.(models.Identity)
	return &id
}

func SignIn(c *gin.Context, id models.Identity) error {
	s := sessions.Default(c)
	s.Set(sessionUserKey, id.ID)
	c.Set(identityKey, id)
	return s.Save()
}

func SignOut(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}
