package pin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		pin  string
		err  error
	}{
		{"valid", "7392", nil},
		{"valid with leading zero", "0672", nil},
		{"too short", "123", ErrInvalidFormat},
		{"too long", "12345", ErrInvalidFormat},
		{"letters", "12ab", ErrInvalidFormat},
		{"empty", "", ErrInvalidFormat},
		{"repeated digits", "1111", ErrWeakPin},
		{"all zeros", "0000", ErrWeakPin},
		{"ascending", "1234", ErrWeakPin},
		{"descending", "4321", ErrWeakPin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.pin)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.err))
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("7392")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, Verify("7392", hash))
	assert.False(t, Verify("7393", hash))
}

func TestHash_RejectsMalformed(t *testing.T) {
	_, err := Hash("12ab")
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	_, err = Hash("")
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestHash_Salted(t *testing.T) {
	first, err := Hash("7392")
	require.NoError(t, err)
	second, err := Hash("7392")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify_NeverPanics(t *testing.T) {
	hash, err := Hash("7392")
	require.NoError(t, err)

	assert.False(t, Verify("", hash))
	assert.False(t, Verify("12ab", hash))
	assert.False(t, Verify("7392", nil))
	assert.False(t, Verify("7392", []byte("not a bcrypt hash")))
}
