package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/gamevault-api/internal/pkg/jwthelper"
)

const testKey = "test-signing-key"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", NewAuthenticator(testKey).VerifyJWT(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": ctx.GetUint(UserIDKey)})
	})

	return r
}

func TestVerifyJWT(t *testing.T) {
	valid, err := jwthelper.GenerateToken([]byte(testKey), 7, "agent-a")
	require.NoError(t, err)
	otherKey, err := jwthelper.GenerateToken([]byte("other"), 7, "agent-a")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		userAgent  string
		wantStatus int
	}{
		{name: "valid", header: "Bearer " + valid, userAgent: "agent-a", wantStatus: http.StatusOK},
		{name: "missing", header: "", userAgent: "agent-a", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: valid, userAgent: "agent-a", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + otherKey, userAgent: "agent-a", wantStatus: http.StatusUnauthorized},
		{name: "user agent mismatch", header: "Bearer " + valid, userAgent: "agent-b", wantStatus: http.StatusUnauthorized},
	}

	router := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("User-Agent", tt.userAgent)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
			}
		})
	}
}

func TestConfigCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ConfigCORS([]string{"https://gamevault.example"}))
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://gamevault.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "https://gamevault.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
