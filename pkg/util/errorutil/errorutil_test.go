package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorMapsMissingRows(t *testing.T) {
	for _, err := range []error{pgx.ErrNoRows, ErrNotFound, fmt.Errorf("lookup: %w", pgx.ErrNoRows)} {
		de := ToDomainError(err)
		assert.Equal(t, CodeNotFound, de.Code)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	}
}

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	original := NewInvalidAssignee("user is not a provider", nil)
	wrapped := fmt.Errorf("assign: %w", original)

	de := ToDomainError(wrapped)
	assert.Same(t, original, de)
	assert.True(t, HasCode(wrapped, CodeInvalidAssignee))
	assert.False(t, HasCode(wrapped, CodeForbidden))
}

func TestToDomainErrorFallsBackToInternal(t *testing.T) {
	boom := errors.New("connection reset")
	de := ToDomainError(boom)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorIs(t, de, boom)
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestTenantErrorsAreForbidden(t *testing.T) {
	mismatch := ToDomainError(NewTenantMismatch(1, 2))
	assert.Equal(t, CodeTenantMismatch, mismatch.Code)
	assert.Equal(t, http.StatusForbidden, mismatch.HTTPStatus)
	assert.Equal(t, int64(2), mismatch.Details["target_tenant_id"])

	cross := ToDomainError(NewCrossTenant("cross-tenant assignment not allowed", nil))
	assert.Equal(t, CodeCrossTenant, cross.Code)
	assert.Equal(t, http.StatusForbidden, cross.HTTPStatus)
}
