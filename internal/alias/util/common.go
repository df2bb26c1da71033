package util

import (
	"errors"
	"io"
	"log/slog"
	"net"
)

// CloseQuietly closes c and only logs a failure. Closing an already closed
// network connection is not reported.
func CloseQuietly(c io.Closer, what string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		slog.Warn("close failed", "what", what, "err", err)
	}
}
