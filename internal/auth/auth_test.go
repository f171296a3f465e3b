package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/auth"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserID(r.Context())
	_, _ = w.Write([]byte(id))
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	assert.Nil(t, auth.NewVerifier("", "tally"))
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := auth.NewVerifier("s3cret", "tally")

	token, err := v.Sign("user-1", time.Hour)
	require.NoError(t, err)

	sub, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestVerifier_Rejects(t *testing.T) {
	v := auth.NewVerifier("s3cret", "tally")

	expired, err := v.Sign("user-1", -time.Hour)
	require.NoError(t, err)

	otherIssuer, err := auth.NewVerifier("s3cret", "someone-else").Sign("user-1", time.Hour)
	require.NoError(t, err)

	otherSecret, err := auth.NewVerifier("other", "tally").Sign("user-1", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "tally"}).
		SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"Expired":     expired,
		"OtherIssuer": otherIssuer,
		"OtherSecret": otherSecret,
		"NoSubject":   noSubject,
		"Garbage":     "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	v := auth.NewVerifier("s3cret", "")
	valid, err := v.Sign("user-9", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier *auth.Verifier
		headers  map[string]string
		wantCode int
		wantBody string
		wantErr  error
	}{
		{"Bearer", v, map[string]string{"Authorization": "Bearer " + valid}, http.StatusOK, "user-9", nil},
		{"MissingBearer", v, nil, http.StatusUnauthorized, "", auth.ErrMissingToken},
		{"HeaderIgnoredWithSecret", v, map[string]string{auth.HeaderUserID: "spoof"}, http.StatusUnauthorized, "", auth.ErrMissingToken},
		{"InvalidBearer", v, map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, "", auth.ErrInvalidToken},
		{"OpenMode", nil, map[string]string{auth.HeaderUserID: " user-2 "}, http.StatusOK, "user-2", nil},
		{"OpenModeMissing", nil, nil, http.StatusUnauthorized, "", auth.ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			for k, val := range tt.headers {
				req.Header.Set(k, val)
			}

			rec := httptest.NewRecorder()
			auth.Middleware(tt.verifier)(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}

			if tt.wantErr != nil {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

				var body struct {
					Error string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Contains(t, body.Error, tt.wantErr.Error())
			}
		})
	}
}
