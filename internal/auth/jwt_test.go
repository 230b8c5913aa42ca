package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	testSigningKey = "test-signing-key"
	testIssuer     = "bankbook"
	testHolder     = "Alice"
)

func mustManager(test *testing.T) *Manager {
	test.Helper()
	manager, err := NewManager([]byte(testSigningKey), testIssuer, time.Hour)
	if err != nil {
		test.Fatalf("manager init failed: %v", err)
	}
	return manager
}

func TestNewManagerValidation(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name       string
		signingKey []byte
		issuer     string
		ttl        time.Duration
	}{
		{name: "empty key", signingKey: nil, issuer: testIssuer, ttl: time.Hour},
		{name: "blank issuer", signingKey: []byte(testSigningKey), issuer: "  ", ttl: time.Hour},
		{name: "zero ttl", signingKey: []byte(testSigningKey), issuer: testIssuer, ttl: 0},
	}

	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			_, err := NewManager(testCase.signingKey, testCase.issuer, testCase.ttl)
			if !errors.Is(err, ErrInvalidManagerConfig) {
				test.Fatalf("expected ErrInvalidManagerConfig, got %v", err)
			}
		})
	}
}

func TestIssueAndValidateRoundTrip(test *testing.T) {
	test.Parallel()
	manager := mustManager(test)

	token, expiresAt, err := manager.Issue(testHolder)
	if err != nil {
		test.Fatalf("issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		test.Fatalf("expected future expiry, got %v", expiresAt)
	}
	claims, err := manager.Validate(token)
	if err != nil {
		test.Fatalf("validate: %v", err)
	}
	if claims.Holder != testHolder {
		test.Fatalf("expected holder %q, got %q", testHolder, claims.Holder)
	}
}

func TestValidateRejectsForeignKey(test *testing.T) {
	test.Parallel()
	manager := mustManager(test)
	foreign, err := NewManager([]byte("other-key"), testIssuer, time.Hour)
	if err != nil {
		test.Fatalf("manager init failed: %v", err)
	}
	token, _, err := foreign.Issue(testHolder)
	if err != nil {
		test.Fatalf("issue: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		test.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(test *testing.T) {
	test.Parallel()
	manager := mustManager(test)
	issued := time.Now().Add(-2 * time.Hour)
	manager.nowFn = func() time.Time { return issued }
	token, _, err := manager.Issue(testHolder)
	if err != nil {
		test.Fatalf("issue: %v", err)
	}
	manager.nowFn = time.Now
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		test.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestGinMiddleware(test *testing.T) {
	test.Parallel()
	gin.SetMode(gin.TestMode)
	manager := mustManager(test)
	router := gin.New()
	router.GET("/protected", manager.GinMiddleware(), func(ctx *gin.Context) {
		holder, ok := HolderFromContext(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.String(http.StatusOK, holder)
	})

	missing := httptest.NewRecorder()
	router.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if missing.Code != http.StatusUnauthorized {
		test.Fatalf("expected 401 without token, got %d", missing.Code)
	}

	token, _, err := manager.Issue(testHolder)
	if err != nil {
		test.Fatalf("issue: %v", err)
	}
	authorized := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", bearerPrefix+token)
	router.ServeHTTP(authorized, request)
	if authorized.Code != http.StatusOK {
		test.Fatalf("expected 200 with token, got %d body=%s", authorized.Code, authorized.Body.String())
	}
	if authorized.Body.String() != testHolder {
		test.Fatalf("expected holder %q, got %q", testHolder, authorized.Body.String())
	}
}
