package utils

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	now := time.Now()

	raw, err := GenerateAccessToken("secret", userID, "provider", sessionID, now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", raw)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Equal(t, "provider", claims.Role)
}

func TestAccessToken_Rejected(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	now := time.Now()

	valid, err := GenerateAccessToken("secret", userID, "client", sessionID, now, now.Add(time.Hour))
	require.NoError(t, err)
	expired, err := GenerateAccessToken("secret", userID, "client", sessionID, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{"wrong secret", "other", valid},
		{"expired", "secret", expired},
		{"garbage", "secret", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.secret, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("battery staple", hash))
}

func TestGenerateOTP(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), GenerateOTP(6))
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), GenerateOTP(0))
	assert.Len(t, GenerateOTP(8), 8)
}

func TestGenerateOrderID(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 5, 7, 0, time.UTC)
	assert.Regexp(t, regexp.MustCompile(`^BOOK-20260315-090507-\d{4}$`), GenerateOrderID(now))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 7, ParseInt("7", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 1, ParseInt("-3", 1))

	assert.Nil(t, ParseFloatPtr(""))
	assert.Nil(t, ParseFloatPtr("x"))
	if f := ParseFloatPtr("12.5"); assert.NotNil(t, f) {
		assert.Equal(t, 12.5, *f)
	}

	assert.Nil(t, ParseStringPtr("   "))
	if s := ParseStringPtr(" norte "); assert.NotNil(t, s) {
		assert.Equal(t, "norte", *s)
	}

	d, err := ParseDate("2026-12-24")
	require.NoError(t, err)
	assert.Equal(t, time.December, d.Month())
	_, err = ParseDate("24/12/2026")
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	page, perPage := NormalizePage(0, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, perPage)

	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
}

func TestValidateStruct(t *testing.T) {
	type signup struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=client provider"`
	}

	errs := ValidateStruct(signup{Email: "nope", Role: "admin"})
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Must be one of: client, provider", errs["role"])
	assert.Equal(t, "email: Invalid email format; role: Must be one of: client, provider", FormatValidationErrors(errs))

	assert.Empty(t, ValidateStruct(signup{Email: "ana@example.com", Role: "client"}))
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "venues")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAYMENT_ACCESS_TOKEN", "TEST-token")
	t.Setenv("PAYMENT_PUBLIC_KEY", "TEST-key")
	t.Setenv("APP_BASE_URL", "https://venues.example/")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CORS_ORIGINS", "https://app.example")
	t.Setenv("PAYMENT_SANDBOX", "")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://venues.example", config.App.BaseURL)
	assert.Equal(t, []string{"https://app.example"}, config.App.Origins)
	assert.Equal(t, 30*time.Second, config.Payment.Timeout)
	assert.False(t, config.Payment.Sandbox)
	assert.Equal(t, 85.0, config.Pricing.DefaultPricePerPerson)
	assert.Equal(t, 2500.0, config.Pricing.SecurityPrice)
	assert.Equal(t, 1800.0, config.Pricing.CleaningPrice)
	assert.Equal(t, "open", config.Availability.FailurePolicy)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.Events.Brokers)
}

func TestLoadConfig_SandboxOptIn(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYMENT_SANDBOX", "true")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, config.Payment.Sandbox)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
