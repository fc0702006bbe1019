package accesscode_test

import (
	"regexp"
	"testing"

	"github.com/fmpulse/fmpulse/internal/accesscode"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	// The alphabet leaves out I, O, 0 and 1.
	codeShape := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4}$`)
	for range 100 {
		code, err := accesscode.New()
		require.NoError(t, err)
		require.Regexp(t, codeShape, code)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "already normalized", code: "A9X2", want: "A9X2"},
		{name: "lowercase", code: "a9x2", want: "A9X2"},
		{name: "surrounding whitespace", code: "  a9x2\n", want: "A9X2"},
		{name: "dashes stripped", code: "A9-X2", want: "A9X2"},
		{name: "empty", code: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, accesscode.Normalize(tt.code))
		})
	}
}

func TestValid(t *testing.T) {
	require.True(t, accesscode.Valid("a9x2"))
	require.False(t, accesscode.Valid("a9x"))
	require.False(t, accesscode.Valid("a9x22"))
	require.False(t, accesscode.Valid(""))
}
