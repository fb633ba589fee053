package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "portal/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseApplicationID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseApplicationID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseApplicationID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		got, err := ParseApplicationID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ApplicationID(valid), got)
		assert.Equal(t, valid.String(), got.String())
		assert.False(t, got.IsNil())
	})
}

// TestParseID_TrustBoundary validates that parsing rejects hostile input at
// API entry points.
func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE solicitudes;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequirementID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	parsers := map[string]func(string) error{
		"user":         func(s string) error { _, err := ParseUserID(s); return err },
		"citizen":      func(s string) error { _, err := ParseCitizenID(s); return err },
		"department":   func(s string) error { _, err := ParseDepartmentID(s); return err },
		"official":     func(s string) error { _, err := ParseOfficialID(s); return err },
		"procedure":    func(s string) error { _, err := ParseProcedureID(s); return err },
		"program":      func(s string) error { _, err := ParseProgramID(s); return err },
		"requirement":  func(s string) error { _, err := ParseRequirementID(s); return err },
		"locality":     func(s string) error { _, err := ParseLocalityID(s); return err },
		"application":  func(s string) error { _, err := ParseApplicationID(s); return err },
		"document":     func(s string) error { _, err := ParseDocumentID(s); return err },
		"assignment":   func(s string) error { _, err := ParseAssignmentID(s); return err },
		"notification": func(s string) error { _, err := ParseNotificationID(s); return err },
	}
	valid := uuid.NewString()

	for name, parse := range parsers {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, parse(valid))
			for _, input := range []string{"", "invalid", uuid.Nil.String()} {
				assert.Error(t, parse(input), "input %q", input)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []string{"ADMINISTRADOR", "FUNCIONARIO", "CIUDADANO"} {
		role, err := ParseRole(r)
		require.NoError(t, err)
		assert.Equal(t, r, role.String())
	}

	_, err := ParseRole("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	_, err = ParseRole("ciudadano")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	assert.True(t, RoleOfficial.IsStaff())
	assert.True(t, RoleAdministrator.IsStaff())
	assert.False(t, RoleCitizen.IsStaff())
}
