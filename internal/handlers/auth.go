package handlers

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type UserResponse struct {
	ID     uint       `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   types.Role `json:"role"`
	Avatar string     `json:"avatar"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}

// sixDigitCode mints the code mailed for verification and password resets.
func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

func (h *Handler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	role := types.RoleDeveloper
	if body.Role != "" {
		role = types.Role(body.Role)
		if !role.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
	}

	taken, err := h.store.Users.EmailTaken(ctx.Request.Context(), body.Email)
	if err != nil {
		h.fail(ctx, err, "failed to check existing email")
		return
	}
	if taken {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(ctx, err, "failed to hash password")
		return
	}

	code, err := sixDigitCode()
	if err != nil {
		h.fail(ctx, err, "failed to generate verification code")
		return
	}

	user := models.User{
		Name:             body.Name,
		Email:            body.Email,
		PasswordHash:     string(passwordHash),
		Role:             role,
		Avatar:           body.Avatar,
		IsVerified:       false,
		VerificationCode: code,
	}

	if err := h.store.Users.Create(ctx.Request.Context(), &user); err != nil {
		h.fail(ctx, err, "failed to create user")
		return
	}

	// Mail delivery is best-effort; the account exists either way and the
	// code can be re-requested.
	if err := h.mailer.SendVerificationEmail(user.Email, user.Name, code); err != nil {
		h.logger.Warn("failed to send verification email", zap.String("email", user.Email), zap.Error(err))
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered. A verification email has been sent.",
		"user":    userResponse(&user),
	})
}

func (h *Handler) VerifyEmail(ctx *gin.Context) {
	var body VerifyEmailRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.Users.GetByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		h.fail(ctx, err, "failed to fetch user")
		return
	}

	if user.VerificationCode == "" || user.VerificationCode != body.Code {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
		return
	}

	user.IsVerified = true
	user.VerificationCode = ""

	if err := h.store.Users.Save(ctx.Request.Context(), user); err != nil {
		h.fail(ctx, err, "failed to verify user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (h *Handler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.Users.GetByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.IsVerified {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Account not verified. Check your email."})
		return
	}

	token, err := h.auth.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		h.fail(ctx, err, "failed to generate access token")
		return
	}

	refreshValue, expiresAt := h.auth.NewRefreshToken()
	refresh := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: expiresAt,
	}

	if err := h.store.RefreshTokens.Create(ctx.Request.Context(), &refresh); err != nil {
		h.fail(ctx, err, "failed to persist refresh token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": refreshValue,
		"user":         userResponse(user),
	})
}

// Refresh exchanges a live refresh token for a new access token and rotates
// the refresh token.
func (h *Handler) Refresh(ctx *gin.Context) {
	var body RefreshRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	stored, err := h.store.RefreshTokens.Get(ctx.Request.Context(), body.RefreshToken)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	user, err := h.store.Users.Get(ctx.Request.Context(), stored.UserID)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	token, err := h.auth.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		h.fail(ctx, err, "failed to generate access token")
		return
	}

	newValue, expiresAt := h.auth.NewRefreshToken()
	rotated := models.RefreshToken{
		UserID:    user.ID,
		Token:     newValue,
		ExpiresAt: expiresAt,
	}

	if err := h.store.RefreshTokens.Create(ctx.Request.Context(), &rotated); err != nil {
		h.fail(ctx, err, "failed to persist refresh token")
		return
	}

	if err := h.store.RefreshTokens.Delete(ctx.Request.Context(), stored.Token); err != nil {
		h.logger.Warn("failed to revoke rotated refresh token", zap.Error(err))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": newValue,
	})
}

func (h *Handler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.store.Users.Get(ctx.Request.Context(), currentUser.ID)
	if err != nil {
		h.fail(ctx, err, "failed to fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *Handler) RequestPasswordReset(ctx *gin.Context) {
	var body PasswordResetRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.Users.GetByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		h.fail(ctx, err, "failed to fetch user")
		return
	}

	code, err := sixDigitCode()
	if err != nil {
		h.fail(ctx, err, "failed to generate reset code")
		return
	}

	expires := time.Now().Add(h.cfg.JWT.ResetCodeTTL)
	user.PasswordResetCode = &code
	user.PasswordResetExpires = &expires

	if err := h.store.Users.Save(ctx.Request.Context(), user); err != nil {
		h.fail(ctx, err, "failed to store reset code")
		return
	}

	if err := h.mailer.SendPasswordResetEmail(user.Email, user.Name, code); err != nil {
		h.logger.Warn("failed to send reset email", zap.String("email", user.Email), zap.Error(err))
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset code sent"})
}

func resetCodeValid(user *models.User, code string) bool {
	return user.PasswordResetCode != nil &&
		*user.PasswordResetCode == code &&
		user.PasswordResetExpires != nil &&
		user.PasswordResetExpires.After(time.Now())
}

func (h *Handler) VerifyResetCode(ctx *gin.Context) {
	var body VerifyResetCodeRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.Users.GetByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		h.fail(ctx, err, "failed to fetch user")
		return
	}

	if !resetCodeValid(user, body.Code) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Code is valid"})
}

func (h *Handler) ResetPassword(ctx *gin.Context) {
	var body ResetPasswordRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.Users.GetByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		h.fail(ctx, err, "failed to fetch user")
		return
	}

	if !resetCodeValid(user, body.Code) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.fail(ctx, err, "failed to hash password")
		return
	}

	user.PasswordHash = string(passwordHash)
	user.PasswordResetCode = nil
	user.PasswordResetExpires = nil

	if err := h.store.Users.Save(ctx.Request.Context(), user); err != nil {
		h.fail(ctx, err, "failed to update password")
		return
	}

	// A password change invalidates every outstanding session.
	if err := h.store.RefreshTokens.DeleteForUser(ctx.Request.Context(), user.ID); err != nil {
		h.logger.Warn("failed to revoke refresh tokens", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
