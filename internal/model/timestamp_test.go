package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalLayouts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-05-01T12:30:00Z"`, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"zoneless", `"2024-05-01T12:30:00"`, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"fractional", `"2024-05-01T12:30:00.25"`, time.Date(2024, 5, 1, 12, 30, 0, 250000000, time.UTC)},
		{"date only", `"2024-05-01"`, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", `""`, time.Time{}},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestamp_UnmarshalRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &ts))
}

func TestTimestamp_MarshalZeroValue(t *testing.T) {
	out, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `"0001-01-01T00:00:00"`, string(out))
}

func TestUser_IdentityHelpers(t *testing.T) {
	phone, hash, empty := "5551112222", "$2a$10$x", ""

	phoneUser := &User{PhoneNumber: &phone, PasswordHash: &hash}
	assert.True(t, phoneUser.HasPhone())
	assert.True(t, phoneUser.HasPassword())

	oauthUser := &User{PasswordHash: &empty}
	assert.False(t, oauthUser.HasPhone())
	assert.False(t, oauthUser.HasPassword())
}
