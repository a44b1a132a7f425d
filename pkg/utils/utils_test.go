package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"09171234567", true},
		{"+639171234567", true},
		{"639171234567", true},
		{"9171234567", true},
		{"0917-123-4567", true},
		{"(0917) 123 4567", true},
		{"08171234567", false},
		{"0917123456", false},
		{"hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-06-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("June 1st")
	assert.Error(t, err)
}

func TestSplitLabels(t *testing.T) {
	assert.Equal(t, []string{"Tables", "Chairs"}, SplitLabels(" Tables \n\n Chairs\n"))
	assert.Empty(t, SplitLabels(""))
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp := GenerateOTP(6)
		require.Len(t, otp, 6)
		assert.NotEqual(t, byte('0'), otp[0])
		for _, c := range otp {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
	assert.Len(t, GenerateOTP(0), 6)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidateStruct(t *testing.T) {
	type signup struct {
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone" validate:"required,phone"`
	}

	errs := ValidateStruct(signup{Email: "nope", Phone: "123"})
	require.Len(t, errs, 2)
	assert.Equal(t, "Invalid email format", errs["Email"])
	assert.Contains(t, errs["Phone"], "phone number")
	assert.Equal(t, "Email: Invalid email format; Phone: "+errs["Phone"], FormatValidationErrors(errs))

	assert.Nil(t, ValidateStruct(signup{Email: "a@b.co", Phone: "09171234567"}))
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
}
