package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/mood-journal/internal/auth"
	"github.com/BruksfildServices01/mood-journal/internal/config"
	"github.com/BruksfildServices01/mood-journal/internal/domain/account"
	"github.com/BruksfildServices01/mood-journal/internal/dto"
	"github.com/BruksfildServices01/mood-journal/internal/httperr"
	"github.com/BruksfildServices01/mood-journal/internal/httpresp"
	"github.com/BruksfildServices01/mood-journal/internal/middleware"
	"github.com/BruksfildServices01/mood-journal/internal/models"
	"github.com/BruksfildServices01/mood-journal/internal/timezone"
	"github.com/BruksfildServices01/mood-journal/internal/validators"
)

type UserHandler struct {
	users  account.Repository
	config *config.Config
	loc    *time.Location
	log    *zap.Logger
}

func NewUserHandler(users account.Repository, cfg *config.Config, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, config: cfg, loc: timezone.Location(cfg.TimeZone), log: log}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, validators.FieldErrors(err))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		httperr.Validation(c, map[string][]string{"username": {"This field may not be blank."}})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	user := models.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		httperr.FromError(c, err)
		return
	}

	h.log.Info("user registered", zap.Uint("user_id", user.ID))
	httpresp.Created(c, dto.NewUserDTO(&user, h.loc))
}

func (h *UserHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, validators.FieldErrors(err))
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			err = httperr.ErrBusiness(httperr.CodeInvalidCredentials)
		}
		httperr.FromError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.FromError(c, httperr.ErrBusiness(httperr.CodeInvalidCredentials))
		return
	}

	token, err := auth.IssueToken(h.config.SecretKey, user.ID, h.config.TokenTTL)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"token": token,
		"user":  dto.NewUserDTO(user, h.loc),
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.Actor(c)
	if !actor.Authenticated() {
		httperr.Unauthorized(c, "not_authenticated", "Authentication credentials were not provided.")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), *actor.UserID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewUserDTO(user, h.loc))
}

// Delete removes a user and, through the foreign key, all of its Logs.
// Callers may only delete themselves, whatever the Log access policy.
func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)
	if !actor.Authenticated() {
		httperr.Unauthorized(c, "not_authenticated", "Authentication credentials were not provided.")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		httperr.NotFound(c, "user_not_found", "Not found.")
		return
	}
	if *actor.UserID != uint(id) {
		httperr.FromError(c, httperr.ErrBusiness(httperr.CodeForbidden))
		return
	}

	if err := h.users.Delete(c.Request.Context(), uint(id)); err != nil {
		httperr.FromError(c, err)
		return
	}

	h.log.Info("user deleted", zap.Uint64("user_id", id))
	httpresp.NoContent(c)
}
