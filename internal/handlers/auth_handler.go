package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-payments-backend/internal/auth"
	"school-payments-backend/internal/middleware"
	"school-payments-backend/internal/services/accounts"
)

type AuthHandler struct {
	accounts *accounts.Service
	tokens   *auth.TokenManager
}

func NewAuthHandler(accounts *accounts.Service, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

type registerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	StudentName     string `json:"studentName" binding:"required"`
	StudentGrade    string `json:"studentGrade" binding:"required"`
	Role            string `json:"role" binding:"omitempty,oneof=guardian admin"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "errors": err.Error()})
		return
	}

	guardian, err := h.accounts.Register(accounts.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		StudentName:  req.StudentName,
		StudentGrade: req.StudentGrade,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, accounts.ErrEmailExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "El correo electrónico ya está registrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al registrar usuario"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Apoderado registrado exitosamente",
		"user":    guardian,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "errors": err.Error()})
		return
	}

	guardian, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales inválidas"})
		return
	}

	token, err := h.tokens.Generate(guardian)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al iniciar sesión"})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(auth.SessionDuration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Inicio de sesión exitoso",
		"user":    guardian,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada exitosamente"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	guardian, err := h.accounts.GetGuardian(middleware.GuardianID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado"})
		return
	}
	c.JSON(http.StatusOK, guardian)
}
