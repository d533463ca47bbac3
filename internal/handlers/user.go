package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Avatar   string `json:"avatar"`
}

// UpdateUserRequest enumerates the mutable user fields; anything else in the
// payload has nowhere to land and is ignored.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role"`
	Avatar   *string `json:"avatar"`
}

func (h *Handler) ListUsers(ctx *gin.Context) {
	filter := store.UserFilter{
		Search: ctx.Query("search"),
		Role:   types.Role(ctx.Query("role")),
	}
	if raw := ctx.Query("isVerified"); raw != "" {
		verified := raw == "true"
		filter.IsVerified = &verified
	}

	users, pagination, err := h.store.Users.List(ctx.Request.Context(), filter, parseListOptions(ctx))
	if err != nil {
		h.fail(ctx, err, "failed to list users")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       users,
		"pagination": pagination,
	})
}

func (h *Handler) GetUser(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	user, err := h.store.Users.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": user})
}

// CreateUser is the admin path: the account is created pre-verified with the
// developer role.
func (h *Handler) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

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

	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
		Role:         types.RoleDeveloper,
		Avatar:       body.Avatar,
		IsVerified:   true,
	}

	if err := h.store.Users.Create(ctx.Request.Context(), &user); err != nil {
		h.fail(ctx, err, "failed to create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": userResponse(&user)})
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Admins may edit anyone; everyone else only themselves.
	if currentUser.Role != types.RoleAdmin && currentUser.ID != id {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify another user"})
		return
	}

	var body UpdateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.Users.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch user")
		return
	}

	if body.Name != nil {
		user.Name = strings.TrimSpace(*body.Name)
	}
	if body.Avatar != nil {
		user.Avatar = *body.Avatar
	}

	if body.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*body.Email))
		if newEmail != user.Email {
			taken, err := h.store.Users.EmailTaken(ctx.Request.Context(), newEmail)
			if err != nil {
				h.fail(ctx, err, "failed to check existing email")
				return
			}
			if taken {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
				return
			}
			user.Email = newEmail
		}
	}

	if body.Role != nil {
		if currentUser.Role != types.RoleAdmin {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can change roles"})
			return
		}
		role := types.Role(*body.Role)
		if !role.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		user.Role = role
	}

	if body.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
		if err != nil {
			h.fail(ctx, err, "failed to hash password")
			return
		}
		user.PasswordHash = string(passwordHash)
	}

	if err := h.store.Users.Save(ctx.Request.Context(), user); err != nil {
		h.fail(ctx, err, "failed to update user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": userResponse(user)})
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	mode := types.DeleteMode(ctx.DefaultQuery("type", string(types.DeleteSoft)))
	if !mode.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": `delete type must be "soft" or "hard"`})
		return
	}

	if _, err := h.store.Users.Get(ctx.Request.Context(), id); err != nil {
		h.fail(ctx, err, "failed to fetch user")
		return
	}

	if mode == types.DeleteHard {
		err = h.store.Users.HardDelete(ctx.Request.Context(), id)
	} else {
		err = h.store.Users.SoftDelete(ctx.Request.Context(), id)
	}
	if err != nil {
		h.fail(ctx, err, "failed to delete user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted", "method": mode})
}
