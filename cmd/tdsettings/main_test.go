package main

import (
	"errors"
	"testing"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrMissingArgument.WithDetails("usage"), 2},
		{domain.ErrUnknownSetting.WithDetails("x"), 2},
		{domain.ErrInvalidSettingValue.WithDetails("7"), 2},
		{domain.ErrStorageError.WithCause(errors.New("disk")), 1},
		{errors.New("other"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
