package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/manara-go/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testAdmin() model.AdminUser {
	return model.AdminUser{ID: 7, Username: "admin", Email: "admin@example.com"}
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret)

	token, err := svc.Issue(testAdmin())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
	assert.Equal(t, "admin", claims.Username)

	// Expiry sits 24h out from issuance.
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 23*time.Hour)
	assert.LessOrEqual(t, remaining, 24*time.Hour)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewTokenService(testSecret)
	svc.ttl = -time.Minute // already expired at issuance

	token, err := svc.Issue(testAdmin())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsTampered(t *testing.T) {
	svc := NewTokenService(testSecret)

	token, err := svc.Issue(testAdmin())
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService(testSecret).Issue(testAdmin())
	require.NoError(t, err)

	_, err = NewTokenService("ffffffffffffffffffffffffffffffff").Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService(testSecret)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(input); err == nil {
			t.Errorf("Verify(%q) accepted a malformed token", input)
		}
	}
}

func TestClaimsOmitSensitiveFields(t *testing.T) {
	svc := NewTokenService(testSecret)

	admin := testAdmin()
	admin.PasswordHash = "$2a$10$secret-hash"
	token, err := svc.Issue(admin)
	require.NoError(t, err)

	// The token payload must never carry the password hash.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret-hash")
	assert.NotContains(t, string(payload), "password")
}
