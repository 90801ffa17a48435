package server

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	apperrors "energy-forecast/internal/errors"
)

const (
	maxPort      = 65535
	dialTimeout  = 200 * time.Millisecond
)

// FindFreePort returns the first port at or above start on host that nothing
// answers on. A port counts as free when a connection attempt to it fails.
func FindFreePort(ctx context.Context, host string, start int) (int, error) {
	if start < 1 || start > maxPort {
		return 0, apperrors.Validation("start port out of range").WithDetails("port=%d", start)
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	for port := start; port <= maxPort; port++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			return port, nil
		}
		conn.Close()
	}

	return 0, apperrors.PortExhausted("no free port found").WithDetails("host=%s start=%d", host, start)
}

// Listen binds host on the first free port at or above start. If the port is
// taken between the dial check and the bind, the search resumes past it.
func Listen(ctx context.Context, host string, start int) (net.Listener, int, error) {
	var lc net.ListenConfig
	for port := start; port <= maxPort; port++ {
		free, err := FindFreePort(ctx, host, port)
		if err != nil {
			return nil, 0, err
		}

		ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(free)))
		if err == nil {
			return ln, free, nil
		}

		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, err
		}
		port = free
	}

	return nil, 0, apperrors.PortExhausted("no bindable port found").WithDetails("host=%s start=%d", host, start)
}
