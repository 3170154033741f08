package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	RoomID string  `json:"room_id" validate:"required"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Name   string  `json:"name" validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	bad := "not-an-email"

	err := ValidateStruct(sampleRequest{Email: &bad, Name: "too-long-name"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "room_id is required")
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "name must be at most 5")
}

func TestValidateStruct_Valid(t *testing.T) {
	good := "a@b.co"
	assert.NoError(t, ValidateStruct(sampleRequest{RoomID: "r1", Email: &good, Name: "Bo"}))
}
