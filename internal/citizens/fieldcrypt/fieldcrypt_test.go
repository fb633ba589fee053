package fieldcrypt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSealer(t *testing.T) *Sealer {
	t.Helper()
	s, err := New(bytes.Repeat([]byte{7}, KeySize), []byte("hash-key"))
	require.NoError(t, err)
	return s
}

func TestSealOpen(t *testing.T) {
	s := newSealer(t)

	ct, err := s.Seal("GOMA800101HTCRRN09")
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "GOMA")

	plain, err := s.Open(ct)
	require.NoError(t, err)
	assert.Equal(t, "GOMA800101HTCRRN09", plain)

	again, err := s.Seal("GOMA800101HTCRRN09")
	require.NoError(t, err)
	assert.NotEqual(t, ct, again, "nonces must differ")

	ct[len(ct)-1] ^= 0xff
	_, err = s.Open(ct)
	assert.ErrorIs(t, err, ErrCiphertext)

	_, err = s.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrCiphertext)
}

func TestHashNormalizes(t *testing.T) {
	s := newSealer(t)
	assert.Equal(t, s.HashCURP("goma800101htcrrn09 "), s.HashCURP("GOMA800101HTCRRN09"))
	assert.Equal(t, s.HashEmail(" Ana@Example.com"), s.HashEmail("ana@example.com"))
	assert.NotEqual(t, s.HashEmail("ana@example.com"), s.HashEmail("ana@example.org"))

	other, err := New(bytes.Repeat([]byte{7}, KeySize), []byte("other-key"))
	require.NoError(t, err)
	assert.NotEqual(t, s.HashCURP("GOMA800101HTCRRN09"), other.HashCURP("GOMA800101HTCRRN09"))
}

func TestNewRejectsBadKeys(t *testing.T) {
	_, err := New([]byte("short"), []byte("k"))
	assert.Error(t, err)
	_, err = New(bytes.Repeat([]byte{1}, KeySize), nil)
	assert.Error(t, err)
	_, err = NewFromHex("zz", "k")
	assert.Error(t, err)
}
