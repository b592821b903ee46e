package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"school-payments-backend/internal/middleware"
	"school-payments-backend/internal/services/reconciliation"
	"school-payments-backend/internal/storage"
)

type PaymentHandler struct {
	recon    *reconciliation.Service
	receipts *storage.ReceiptStore
}

func NewPaymentHandler(recon *reconciliation.Service, receipts *storage.ReceiptStore) *PaymentHandler {
	return &PaymentHandler{recon: recon, receipts: receipts}
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.recon.ListPayments(middleware.GuardianID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener pagos"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// UploadReceipt handles the multipart receipt form and runs the
// reconciliation. The receiptFile part is optional; a payment can be
// registered with metadata only.
func (h *PaymentHandler) UploadReceipt(c *gin.Context) {
	month := c.PostForm("month")
	paymentMethod := c.PostForm("paymentMethod")
	year, yearErr := strconv.Atoi(c.PostForm("year"))
	amount, amountErr := strconv.Atoi(c.PostForm("amount"))
	paymentDate, dateErr := time.Parse("2006-01-02", c.PostForm("paymentDate"))

	if month == "" || paymentMethod == "" || yearErr != nil || amountErr != nil || dateErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación"})
		return
	}

	input := reconciliation.RecordPaymentInput{
		Month:         month,
		Year:          year,
		Amount:        amount,
		PaymentDate:   paymentDate,
		PaymentMethod: paymentMethod,
	}

	if fh, err := c.FormFile("receiptFile"); err == nil {
		saved, err := h.receipts.Save(fh)
		if err != nil {
			if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al subir comprobante"})
			return
		}
		url := fmt.Sprintf("/api/uploads/%s", saved.Filename)
		input.ReceiptURL = &url
		input.ReceiptMeta = &reconciliation.ReceiptMeta{
			OriginalName: saved.OriginalName,
			Size:         saved.Size,
			ContentType:  saved.ContentType,
		}
	}

	payment, err := h.recon.RecordPayment(middleware.GuardianID(c), input)
	if err != nil {
		if errors.Is(err, reconciliation.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Pago no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al subir comprobante"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comprobante subido exitosamente",
		"payment": payment,
	})
}

func (h *PaymentHandler) ServeReceipt(c *gin.Context) {
	path, err := h.receipts.Path(c.Param("filename"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Archivo no encontrado"})
		return
	}
	c.File(path)
}

func (h *PaymentHandler) ListActivity(c *gin.Context) {
	logs, err := h.recon.ListActivity(middleware.GuardianID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener actividad"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
