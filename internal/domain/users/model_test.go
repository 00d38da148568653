package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcheck-dashboard/internal/platform/validation"
)

func TestCreateInput_DefaultsRole(t *testing.T) {
	in, err := CreateInput{Email: "staff@clinic.com", Password: "secret"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, in.Role)
}

func TestCreateInput_Rejects(t *testing.T) {
	_, err := CreateInput{Email: "x", Password: "", Role: "owner"}.Validate()
	require.ErrorIs(t, err, validation.ErrInvalidInput)

	fields := validation.Fields(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
}
