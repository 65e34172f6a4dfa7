package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "secret", want: "secret"},
		{in: `"secret"`, want: "secret"},
		{in: `'secret'`, want: "secret"},
		{in: `"secret`, want: "secret"},
		{in: `secret'`, want: "secret"},
		{in: `""secret""`, want: `"secret"`},
		{in: `"`, want: ""},
		{in: "", want: ""},
		{in: `se"cret`, want: `se"cret`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripQuotes(tt.in))
		})
	}
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		submitted string
		want      bool
	}{
		{name: "plain secret matches", secret: "secret", submitted: "secret", want: true},
		{name: "quoted secret matches", secret: `"secret"`, submitted: "secret", want: true},
		{name: "single-quoted secret matches", secret: `'secret'`, submitted: "secret", want: true},
		{name: "case mismatch fails", secret: "secret", submitted: "Secret", want: false},
		{name: "case mismatch fails with quoted secret", secret: `"secret"`, submitted: "Secret", want: false},
		{name: "empty submission fails", secret: "secret", submitted: "", want: false},
		{name: "quotes in submission are literal", secret: "secret", submitted: `"secret"`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := NewChecker(tt.secret, "").Check(tt.submitted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestChecker_NotConfiguredFailsClosed(t *testing.T) {
	for _, submitted := range []string{"", "anything", `""`} {
		ok, err := NewChecker("", "").Check(submitted)
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.False(t, ok)
	}

	// A secret consisting only of quotes is treated as absent.
	ok, err := NewChecker(`""`, "").Check("")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, ok)
}

func TestChecker_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	c := NewChecker("ignored", string(hash))
	require.True(t, c.Configured())

	ok, err := c.Check("hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Check("ignored")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChecker_MalformedHashErrors(t *testing.T) {
	ok, err := NewChecker("", "not-a-bcrypt-hash").Check("whatever")
	assert.Error(t, err)
	assert.False(t, ok)
}
