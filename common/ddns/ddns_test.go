package ddns

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	err := fmt.Errorf("[a.example.com] update record failure: %w", fmt.Errorf("%w: status code 403", ErrAuth))
	if Kind(err) != ErrAuth {
		t.Errorf("expected ErrAuth, got %v", Kind(err))
	}

	if Kind(errors.New("plain")) != nil {
		t.Error("expected nil kind for plain error")
	}
}
