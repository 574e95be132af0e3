package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     Kind
		expected int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindAuthentication, http.StatusUnauthorized},
		{KindUpload, http.StatusBadRequest},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindUpload, KindOf(fmt.Errorf("wrapped: %w", Upload("upload failed", cause))))
	assert.Equal(t, KindInternal, KindOf(cause), "unknown errors are internal")
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestError_UnwrapAndIs(t *testing.T) {
	t.Parallel()

	cause := errors.New("db down")
	err := Internal("something went wrong", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindInternal))
	assert.False(t, Is(err, KindNotFound))
	assert.Equal(t, "InternalError: something went wrong: db down", err.Error())
	assert.Equal(t, "NotFoundError: gone", NotFound("gone").Error())
}
