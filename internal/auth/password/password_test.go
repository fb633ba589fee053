package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "portal/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, Verify("s3cret-pass", hash))

	err = Verify("wrong", hash)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestHash_Rejects(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = Hash(strings.Repeat("x", 80))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCheckStrength(t *testing.T) {
	err := CheckStrength("short")
	require.Error(t, err)
	assert.Contains(t, dErrors.FieldsOf(err), "password")

	assert.NoError(t, CheckStrength("long-enough"))
}

func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NoError(t, CheckStrength(a))
}
