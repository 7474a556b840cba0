package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testHashers() map[string]Hasher {
	return map[string]Hasher{
		"argon2id": NewArgon2idHasher([]byte("test-pepper")),
		"bcrypt":   NewBcryptHasher(4),
	}
}

func TestHasherRoundTrip(t *testing.T) {
	secrets := []struct {
		name  string
		plain string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"otp code", "042917"},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for hname, h := range testHashers() {
		for _, s := range secrets {
			t.Run(hname+"/"+s.name, func(t *testing.T) {
				encoded, err := h.Hash(s.plain)
				require.NoError(t, err)
				require.NotEqual(t, s.plain, encoded)

				require.NoError(t, h.Verify(s.plain, encoded))
				require.ErrorIs(t, h.Verify(s.plain+"x", encoded), ErrMismatch)
			})
		}
	}
}

func TestHasherSaltsEachHash(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same")
			require.NoError(t, err)
			b, err := h.Hash("same")
			require.NoError(t, err)
			require.NotEqual(t, a, b)
		})
	}
}

func TestArgon2idFormat(t *testing.T) {
	h := NewArgon2idHasher(nil)
	encoded, err := h.Hash("password123")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))
	parts := strings.Split(encoded, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
}

func TestArgon2idPepperMatters(t *testing.T) {
	encoded, err := NewArgon2idHasher([]byte("pepper-a")).Hash("password123")
	require.NoError(t, err)

	err = NewArgon2idHasher([]byte("pepper-b")).Verify("password123", encoded)
	require.ErrorIs(t, err, ErrMismatch)
}

func TestArgon2idMalformed(t *testing.T) {
	h := NewArgon2idHasher(nil)
	tests := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	}
	for _, encoded := range tests {
		require.ErrorIs(t, h.Verify("x", encoded), ErrMalformedHash, encoded)
	}
}

func TestBcryptMalformed(t *testing.T) {
	err := NewBcryptHasher(4).Verify("x", "not-a-bcrypt-hash")
	require.ErrorIs(t, err, ErrMalformedHash)
}
