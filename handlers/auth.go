package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"meetio/database/repository"
	"meetio/services/user"
	"meetio/utils"

	"github.com/gin-gonic/gin"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthHandler exposes signup and login for the identity collaborator.
type AuthHandler struct {
	Svc user.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc user.Service) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type signupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	fields := make(map[string]string)
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "Name is required"
	}
	if !emailPattern.MatchString(strings.TrimSpace(input.Email)) {
		fields["email"] = "Valid email is required"
	}
	if len(input.Password) < 6 {
		fields["password"] = "Password must be at least 6 characters"
	}
	if len(fields) > 0 {
		utils.JSONFieldErrors(c, fields)
		return
	}

	result, err := h.Svc.Register(c.Request.Context(), user.SignupInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			utils.JSONError(c, http.StatusConflict, "Email already registered", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Signup failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.Svc.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
