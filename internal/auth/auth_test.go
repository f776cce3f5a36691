package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	if role != "" {
		claims["role"] = role
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	v := NewVerifier(testSecret)

	claims, err := v.Verify(signToken(t, testSecret, "user-42", ""))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-42" {
		t.Errorf("user id = %q, want user-42", claims.UserID)
	}
	if claims.Role != "" {
		t.Errorf("role = %q, want empty", claims.Role)
	}

	claims, err = v.Verify(signToken(t, testSecret, "staff-1", RoleAdmin))
	if err != nil {
		t.Fatalf("Verify admin token: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}

	if _, err := v.Verify(signToken(t, "wrong-secret", "user-42", "")); err == nil {
		t.Error("token signed with wrong secret accepted")
	}

	if _, err := v.Verify("not-a-token"); err == nil {
		t.Error("malformed token accepted")
	}
}

func newAuthRouter(v *Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", RequireAuth(v), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	r.POST("/admin-op", RequireAuth(v), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter(NewVerifier(testSecret))

	// Valid token resolves the subject.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42", ""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "user-42" {
		t.Errorf("user id = %q, want user-42", w.Body.String())
	}

	// No header.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d, want 401", w.Code)
	}

	// Wrong scheme.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong scheme: status = %d, want 401", w.Code)
	}

	// Bad token.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newAuthRouter(NewVerifier(testSecret))

	// A regular authenticated user is forbidden, not unauthorized.
	req := httptest.NewRequest(http.MethodPost, "/admin-op", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42", ""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin: status = %d, want 403", w.Code)
	}

	// A non-admin role is also forbidden.
	req = httptest.NewRequest(http.MethodPost, "/admin-op", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42", "seller"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("seller role: status = %d, want 403", w.Code)
	}

	// Admin passes.
	req = httptest.NewRequest(http.MethodPost, "/admin-op", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "staff-1", RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", w.Code)
	}

	// No token at all is still 401 from RequireAuth.
	req = httptest.NewRequest(http.MethodPost, "/admin-op", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", w.Code)
	}
}
