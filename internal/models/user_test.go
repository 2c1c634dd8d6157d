package models_test

import (
	"testing"

	"resto/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRequestContext_HasRole(t *testing.T) {
	rc := models.RequestContext{UserID: "u1", Role: models.RoleManager}
	assert.True(t, rc.HasRole(models.RoleManager, models.RoleAdmin))
	assert.False(t, rc.HasRole(models.RoleAdmin))
	assert.False(t, models.RequestContext{}.HasRole(models.RoleStaff))
}
