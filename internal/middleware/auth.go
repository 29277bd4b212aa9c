package middleware

import (
	"context"
	"strings"

	"compliance-portal/internal/auth"
	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	userKey    = "user"
	tokenKey   = "jwt_token"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

type Auth struct {
	UserService UserProvider
	Sessions    session.Store
}

// AuthMiddleWare resolves the bearer token to a live session and its user.
// The token may also arrive as ?token= for EventSource clients.
func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		var token string
		tokenQuery := ctx.Query("token")

		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if tokenQuery != "" {
			token = tokenQuery
		} else {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, sessionID, err := auth.GetDataFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		sess, ok, err := m.Sessions.Get(ctx.Request.Context(), sessionID)
		if err != nil {
			ctx.Error(errors.Internal(err))
			ctx.Abort()
			return
		}
		if !ok || sess.UserID != userID {
			ctx.Error(errors.Unauthorized("Session expired!", nil))
			ctx.Abort()
			return
		}

		user, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid User ID!", err))
			ctx.Abort()
			return
		}
		// role comes from the stored user, not from what was cached at login
		sess.Role = user.Role

		ctx.Set("user_id", userID)
		ctx.Set(sessionKey, sess)
		ctx.Set(userKey, user)
		ctx.Set(tokenKey, token)
		ctx.Next()
	}
}

// CurrentSession returns the session resolved by AuthMiddleWare, or nil.
func CurrentSession(ctx *gin.Context) *domain.Session {
	v, ok := ctx.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*domain.Session)
	return sess
}

// CurrentUser returns the user resolved by AuthMiddleWare, or nil.
func CurrentUser(ctx *gin.Context) *domain.User {
	v, ok := ctx.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

// SetSession is used by tests and by handlers that mount routes without AuthMiddleWare.
func SetSession(ctx *gin.Context, sess *domain.Session, user *domain.User) {
	ctx.Set("user_id", sess.UserID)
	ctx.Set(sessionKey, sess)
	if user != nil {
		ctx.Set(userKey, user)
	}
}
