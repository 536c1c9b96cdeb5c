package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUpload, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestAs_ThroughWrapping(t *testing.T) {
	base := Conflict("Username already exists")
	wrapped := fmt.Errorf("registering user: %w", base)

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Same(t, base, e)
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("connection refused")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestWrap_HidesCauseFromMessage(t *testing.T) {
	cause := errors.New("multipart: NextPart: EOF")
	e := Wrap(KindUpload, "Error uploading file", cause)

	assert.Equal(t, "Error uploading file", e.Message)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "NextPart")
}
