// internal/server/handlers/auth.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staydesk/internal/server/auth"
	"staydesk/internal/server/database"
	"staydesk/internal/server/models"
	"staydesk/pkg/api"
)

const contextUserID = "user_id"

// Store is the persistence the handlers need.
type Store interface {
	CreateUser(ctx context.Context, email, password, firstName, lastName, role string) (*models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetMessagesForUser(ctx context.Context, userID string) ([]models.Message, error)
	GetConversation(ctx context.Context, userID, otherID string) ([]models.Message, error)
	CreateMessage(ctx context.Context, senderID, recipientID, body string) (*models.Message, error)
}

type AuthHandler struct {
	store  Store
	tokens *auth.Tokens
}

func NewAuthHandler(store Store, tokens *auth.Tokens) *AuthHandler {
	return &AuthHandler{
		store:  store,
		tokens: tokens,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		abort(c, http.StatusBadRequest, "a valid email is required")
		return
	case len(req.Password) < 8:
		abort(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	case req.FirstName == "" || req.LastName == "":
		abort(c, http.StatusBadRequest, "first and last name are required")
		return
	}

	role := req.Role
	switch role {
	case "", api.RoleGuest, api.RoleHost:
	default:
		abort(c, http.StatusBadRequest, "role must be guest or host")
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName, role)
	if errors.Is(err, database.ErrEmailTaken) {
		abort(c, http.StatusConflict, err.Error())
		return
	} else if err != nil {
		log.Printf("Register error: %v", err)
		abort(c, http.StatusInternalServerError, "could not create account")
		return
	}

	h.respondWithSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		abort(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, database.ErrInvalidCredentials) {
		abort(c, http.StatusUnauthorized, err.Error())
		return
	} else if err != nil {
		log.Printf("Login error: %v", err)
		abort(c, http.StatusInternalServerError, "could not sign in")
		return
	}

	log.Printf("User %s authenticated successfully", user.Email)
	h.respondWithSession(c, http.StatusOK, user)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.GetString(contextUserID))
	if errors.Is(err, database.ErrUserNotFound) {
		abort(c, http.StatusUnauthorized, "account no longer exists")
		return
	} else if err != nil {
		log.Printf("Me error: %v", err)
		abort(c, http.StatusInternalServerError, "could not load profile")
		return
	}
	c.JSON(http.StatusOK, user.ToAPI())
}

func (h *AuthHandler) respondWithSession(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Generate(user.ID, user.Role)
	if err != nil {
		log.Printf("Token error: %v", err)
		abort(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(status, api.AuthResponse{Token: token, User: user.ToAPI()})
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's ID in the context.
func (h *AuthHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := h.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: message})
}
