//go:build !windows

package platform

import (
	"context"
	"time"
)

// FindWindow is only available on Windows.
func FindWindow(_ context.Context, _ string, _ Bindings, _ time.Duration) (Handle, error) {
	return nil, ErrUnsupported
}
