package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("store: %w", NotFound("Solicitud", "abc"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, "store: Solicitud no encontrada: abc", wrapped.Error())

	assert.True(t, IsValidation(fmt.Errorf("x: %w", Validation("toPieceId", "igual"))))
	assert.True(t, IsConflict(Conflict("estado %s", "accepted")))
	assert.True(t, IsForbidden(Forbidden("solo propietario")))
}

func TestValidationErrorWithoutField(t *testing.T) {
	assert.Equal(t, "mensaje", Validation("", "mensaje").Error())
}
