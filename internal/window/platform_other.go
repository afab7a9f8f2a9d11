//go:build !darwin && !windows

package window

import "log/slog"

// Native returns the backend for the running OS.
func Native(log *slog.Logger) (Platform, error) {
	return nil, ErrUnsupported
}
