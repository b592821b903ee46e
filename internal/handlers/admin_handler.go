package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school-payments-backend/internal/services/accounts"
)

type AdminHandler struct {
	accounts *accounts.Service
}

func NewAdminHandler(accounts *accounts.Service) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

func (h *AdminHandler) ListGuardians(c *gin.Context) {
	guardians, err := h.accounts.ListGuardians()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener apoderados"})
		return
	}
	c.JSON(http.StatusOK, guardians)
}
