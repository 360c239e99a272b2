package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CarlosSalomon/Celebrate/internal/auth"
	"github.com/CarlosSalomon/Celebrate/internal/middleware"
	"github.com/CarlosSalomon/Celebrate/internal/model"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "all fields required")
	}
	if len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password too short")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := h.store.CreateUser(c.Context(), u); err != nil {
		// unique violation = dup email, but don't reveal that
		return fiber.NewError(fiber.StatusConflict, "registration failed")
	}

	return h.session(c, fiber.StatusCreated, u)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	u, err := h.store.UserByEmail(c.Context(), req.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	return h.session(c, fiber.StatusOK, u)
}

// session issues an access token plus a stored refresh token.
func (h *Handler) session(c *fiber.Ctx, status int, u *model.User) error {
	tok, err := auth.MakeToken(u.ID, h.secret)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	if _, err := h.store.CreateRefreshToken(c.Context(), u.ID, hash, time.Now().Add(refreshTokenTTL)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.Status(status).JSON(sessionResponse{
		UserID:       u.ID,
		Name:         u.Name,
		Token:        tok,
		RefreshToken: raw,
	})
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "refreshToken required")
	}

	rt, err := h.store.RefreshTokenByHash(c.Context(), auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid refresh token")
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid refresh token")
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(c.Context(), rt.ID, newID, rt.UserID, newHash, time.Now().Add(refreshTokenTTL)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	tok, err := auth.MakeToken(rt.UserID, h.secret)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(fiber.Map{"token": tok, "refreshToken": newRaw})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.store.RevokeAllRefreshTokens(c.Context(), middleware.UserID(c)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me merges the stored profile into the session view.
func (h *Handler) Me(c *fiber.Ctx) error {
	u, err := h.store.UserByID(c.Context(), middleware.UserID(c))
	if err != nil {
		return storeErr(err)
	}
	return c.JSON(u)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		PhotoURL string `json:"photoUrl"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}

	if err := h.store.UpdateProfile(c.Context(), middleware.UserID(c), req.Name, req.PhotoURL); err != nil {
		return storeErr(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword requires a recently issued token; stale sessions get
// a distinct error telling the client to log in again first.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password too short")
	}

	claims := middleware.Claims(c)
	if claims == nil || !auth.RecentlyIssued(claims) {
		return fiber.NewError(fiber.StatusForbidden, "recent login required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	uid := middleware.UserID(c)
	if err := h.store.UpdatePassword(c.Context(), uid, hash); err != nil {
		return storeErr(err)
	}
	// other devices must log in again with the new password
	if err := h.store.RevokeAllRefreshTokens(c.Context(), uid); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
