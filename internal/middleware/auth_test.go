package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liftado/liftado/internal/auth"
	"github.com/liftado/liftado/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	loginChecker := auth.NewLoginTestChecker()
	loginChecker.LoggedSessions["valid-token"] = true
	authMiddleware := middleware.NewAuthMiddlewareHandler(loginChecker)

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/version",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AllowedPrefixWithoutToken",
			path:               "/coaching/rest/primary/compound",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ProtectedPathWithoutToken",
			path:               "/coaching/u1/fatigue",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/coaching/u1/fatigue",
			method:             "GET",
			token:              "valid-token",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "InvalidToken",
			path:               "/coaching/u1/fatigue",
			method:             "GET",
			token:              "invalid-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "OptionsAlwaysAllowed",
			path:               "/coaching/u1/fatigue",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.token != "" {
				req.Header.Add("X-LIFTADO-TOKEN", tc.token)
			}

			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}
