package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school-payments-backend/internal/config"
	"school-payments-backend/internal/middleware"
	"school-payments-backend/internal/models"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Guardian{}, &models.Payment{}, &models.ActivityLog{}))

	cfg := &config.Config{
		SessionSecret: "test-secret",
		UploadsDir:    t.TempDir(),
	}

	r := gin.New()
	require.NoError(t, RegisterRoutes(r, db, cfg))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerBody(email, role string) map[string]any {
	return map[string]any{
		"name":            "Juan Díaz",
		"email":           email,
		"phone":           "+56 9 1234 5678",
		"password":        "secreto123",
		"confirmPassword": "secreto123",
		"studentName":     "Ana Díaz",
		"studentGrade":    "4° Básico",
		"role":            role,
	}
}

func login(t *testing.T, r *gin.Engine, email, password string) *http.Cookie {
	t.Helper()
	w := postJSON(t, r, "/api/login", map[string]any{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

func TestHealth(t *testing.T) {
	r := setupServer(t)
	w := get(t, r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := setupServer(t)

	t.Run("success", func(t *testing.T) {
		w := postJSON(t, r, "/api/register", registerBody("juan@example.com", "guardian"))
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Apoderado registrado exitosamente")
		assert.NotContains(t, w.Body.String(), "secreto123")
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := postJSON(t, r, "/api/register", registerBody("juan@example.com", "guardian"))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ya está registrado")
	})

	t.Run("password mismatch", func(t *testing.T) {
		body := registerBody("otro@example.com", "guardian")
		body["confirmPassword"] = "distinta"
		w := postJSON(t, r, "/api/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		body := registerBody("no-es-email", "guardian")
		w := postJSON(t, r, "/api/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	r := setupServer(t)
	require.Equal(t, http.StatusCreated,
		postJSON(t, r, "/api/register", registerBody("juan@example.com", "guardian")).Code)

	t.Run("wrong password gets 401 and no cookie", func(t *testing.T) {
		w := postJSON(t, r, "/api/login", map[string]any{
			"email":    "juan@example.com",
			"password": "incorrecta",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Credenciales inválidas")
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("valid login sets the session cookie", func(t *testing.T) {
		cookie := login(t, r, "juan@example.com", "secreto123")
		assert.True(t, cookie.HttpOnly)

		w := get(t, r, "/api/me", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "juan@example.com")
		assert.NotContains(t, w.Body.String(), "secreto123")
	})

	t.Run("no cookie is unauthorized", func(t *testing.T) {
		for _, path := range []string{"/api/me", "/api/payments", "/api/activity"} {
			w := get(t, r, path)
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})
}

func TestAdminGate(t *testing.T) {
	r := setupServer(t)
	require.Equal(t, http.StatusCreated,
		postJSON(t, r, "/api/register", registerBody("juan@example.com", "guardian")).Code)
	require.Equal(t, http.StatusCreated,
		postJSON(t, r, "/api/register", registerBody("admin@example.com", "admin")).Code)

	t.Run("guardian is forbidden", func(t *testing.T) {
		cookie := login(t, r, "juan@example.com", "secreto123")
		w := get(t, r, "/api/admin/guardians", cookie)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "permisos de administrador")
	})

	t.Run("admin lists guardians without credentials", func(t *testing.T) {
		cookie := login(t, r, "admin@example.com", "secreto123")
		w := get(t, r, "/api/admin/guardians", cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var guardians []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &guardians))
		require.Len(t, guardians, 2)
		for _, g := range guardians {
			assert.NotContains(t, g, "passwordHash")
			assert.NotContains(t, g, "password")
		}
	})
}

func uploadForm(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("receiptFile", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadReceipt(t *testing.T) {
	r := setupServer(t)
	require.Equal(t, http.StatusCreated,
		postJSON(t, r, "/api/register", registerBody("juan@example.com", "guardian")).Code)
	cookie := login(t, r, "juan@example.com", "secreto123")

	year := fmt.Sprint(time.Now().Year())
	pngBytes := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

	post := func(fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
		body, contentType := uploadForm(t, fields, filename, content)
		req := httptest.NewRequest("POST", "/api/payments/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("unknown period is not found", func(t *testing.T) {
		w := post(map[string]string{
			"month": "Enero", "year": year, "amount": "55000",
			"paymentDate": "2024-01-03", "paymentMethod": "Efectivo",
		}, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Pago no encontrado")
	})

	t.Run("metadata-only upload settles the obligation", func(t *testing.T) {
		w := post(map[string]string{
			"month": "Mayo", "year": year, "amount": "55000",
			"paymentDate": "2024-05-03", "paymentMethod": "Efectivo",
		}, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Comprobante subido exitosamente")
		assert.Contains(t, w.Body.String(), `"paid":true`)
	})

	t.Run("upload with file stores and serves the receipt", func(t *testing.T) {
		w := post(map[string]string{
			"month": "Junio", "year": year, "amount": "55000",
			"paymentDate": "2024-06-04", "paymentMethod": "Transferencia Bancaria",
		}, "comprobante.png", pngBytes)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Payment models.Payment `json:"payment"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Payment.ReceiptURL)

		fetched := get(t, r, *resp.Payment.ReceiptURL)
		assert.Equal(t, http.StatusOK, fetched.Code)
		assert.Equal(t, pngBytes, fetched.Body.Bytes())
	})

	t.Run("rejected file leaves the obligation untouched", func(t *testing.T) {
		w := post(map[string]string{
			"month": "Julio", "year": year, "amount": "55000",
			"paymentDate": "2024-07-02", "paymentMethod": "Efectivo",
		}, "script.png", []byte("#!/bin/sh\necho hola\n"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		payments := get(t, r, "/api/payments", cookie)
		require.Equal(t, http.StatusOK, payments.Code)
		var list []models.Payment
		require.NoError(t, json.Unmarshal(payments.Body.Bytes(), &list))
		for _, p := range list {
			if p.Month == "Julio" {
				assert.False(t, p.Paid)
			}
		}
	})

	t.Run("missing fields are a validation error", func(t *testing.T) {
		w := post(map[string]string{"month": "Mayo"}, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("activity lists the settlements newest first", func(t *testing.T) {
		w := get(t, r, "/api/activity", cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var logs []models.ActivityLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
		require.NotEmpty(t, logs)
		for i := 1; i < len(logs); i++ {
			assert.False(t, logs[i-1].Timestamp.Before(logs[i].Timestamp))
		}
	})

	t.Run("missing receipt file is not found", func(t *testing.T) {
		w := get(t, r, "/api/uploads/receipt-0-deadbeef.png")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Archivo no encontrado")
	})
}
