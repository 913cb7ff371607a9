package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestNewDatabaseError(t *testing.T) {
	forbidden := NewForbiddenError("not yours")

	tests := []struct {
		name       string
		cause      error
		wantStatus int
		wantKind   func(error) bool
		wantMsg    string
	}{
		{"record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), http.StatusNotFound, IsNotFound, "project not found"},
		{"postgres unique violation", errors.New(`ERROR: duplicate key value violates unique constraint "idx_tags_name"`), http.StatusConflict, IsConflict, "project already exists"},
		{"sqlite unique violation", errors.New("UNIQUE constraint failed: tags.name"), http.StatusConflict, IsConflict, "project already exists"},
		{"api error passes through", forbidden, http.StatusForbidden, IsForbidden, "not yours"},
		{"anything else", errors.New("disk I/O error"), http.StatusInternalServerError, func(err error) bool { return errors.Is(err, ErrDatabaseQuery) }, "database query failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("update", "project", tt.cause)
			if err.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.wantStatus)
			}
			if !tt.wantKind(err) {
				t.Errorf("error %v does not match its kind", err)
			}
			if got := err.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}
