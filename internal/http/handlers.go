package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tazhibayda/profile-service/internal/domain"
	"github.com/tazhibayda/profile-service/internal/github"
	"github.com/tazhibayda/profile-service/internal/helper"
	"github.com/tazhibayda/profile-service/internal/log"
	"github.com/tazhibayda/profile-service/internal/queue"
	"github.com/tazhibayda/profile-service/internal/repo"
	"github.com/tazhibayda/profile-service/internal/security"
)

const eventsExchange = "profile.events"

type Handler struct {
	Store           *repo.Store
	JWTSecret       string
	TokenTTL        time.Duration
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
	Github          *github.Client

	// NewID generates sub-entry identities; injected so the store never
	// assigns them
	NewID func() string
}

func NewHandler(store *repo.Store, jwtSecret string, ttlHours int, rds *repo.Redis, rlPerMin int, pub queue.Publisher, gh *github.Client) *Handler {
	return &Handler{
		Store:           store,
		JWTSecret:       jwtSecret,
		TokenTTL:        time.Duration(ttlHours) * time.Hour,
		Redis:           rds,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
		Github:          gh,
		NewID:           uuid.NewString,
	}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary Register account
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 200 {object} tokenResp
// @Failure 400 {object} map[string]any
// @Router /api/users [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: "invalid json"}}})
		return
	}
	if errs := validateRegister(in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	u := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Avatar:       helper.GravatarURL(in.Email),
		PasswordHash: hash,
	}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		if err == repo.ErrDuplicate {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: "user already registered"}}})
			return
		}
		log.WithDD(c.Request.Context(), log.L()).Error("create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	tok, err := security.MakeAccess(h.JWTSecret, u.ID.Hex(), h.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	go h.Events.Publish(c.Request.Context(), eventsExchange, "user.registered",
		queue.UserRegistered{UserID: u.ID, Email: u.Email, Name: u.Name},
		requestID(c))

	c.JSON(http.StatusOK, tokenResp{Token: tok})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} tokenResp
// @Failure 400 {object} map[string]any
// @Router /api/auth [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: "invalid json"}}})
		return
	}
	if errs := validateLogin(in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	u, err := h.Store.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		log.WithDD(c.Request.Context(), log.L()).Error("find user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: "Invalid Credentials"}}})
		return
	}

	tok, err := security.MakeAccess(h.JWTSecret, u.ID.Hex(), h.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusOK, tokenResp{Token: tok})
}

// GetAuthUser godoc
// @Summary Current account
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} map[string]string
// @Router /api/auth [get]
func (h *Handler) GetAuthUser(c *gin.Context) {
	u, err := h.Store.FindUserByID(c.Request.Context(), ownerID(c))
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
