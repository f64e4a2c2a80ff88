package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"examprep-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, fn func(c *gin.Context)) (int, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestOK(t *testing.T) {
	code, env := render(t, func(c *gin.Context) {
		OK(c, http.StatusCreated, "Registration successful", gin.H{"id": "1"})
	})
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Empty(t, env.Error)
}

func TestError_ByKind(t *testing.T) {
	err := apperror.New(apperror.KindForbidden, "Token verification failed", "Invalid or expired refresh token")

	code, env := render(t, func(c *gin.Context) { Error(c, err) })
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Token verification failed", env.Message)
	assert.Equal(t, "Invalid or expired refresh token", env.Error)
}

func TestError_UnclassifiedIsInternal(t *testing.T) {
	code, env := render(t, func(c *gin.Context) { Error(c, errors.New("disk on fire")) })
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, env.Error, "disk on fire")
}

func TestBindError_NonValidation(t *testing.T) {
	code, env := render(t, func(c *gin.Context) { BindError(c, errors.New("unexpected EOF")) })
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, "Please check your input", env.Error)
}

type signup struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,strongpassword"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
}

func TestBindError_FieldMessages(t *testing.T) {
	RegisterValidators()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "valid", body: `{"email":"a@x.com","password":"Abcd1234","phone":"555-123-4567"}`},
		{name: "weak password", body: `{"email":"a@x.com","password":"abcdefgh"}`, fields: []string{"password"}},
		{name: "bad email and phone", body: `{"email":"nope","password":"Abcd1234","phone":"12"}`, fields: []string{"email", "phone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req signup
			err := c.ShouldBindJSON(&req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			BindError(c, err)

			var env struct {
				Message string       `json:"message"`
				Data    []FieldError `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, "Validation failed", env.Message)

			var got []string
			for _, f := range env.Data {
				got = append(got, f.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}
