// Package browser opens the generated dashboard in the user's default
// browser. A launch failure is reported but never stops the program: the
// URL is printed either way.
package browser

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/browser"
)

// Opener launches url in a browser.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// System opens URLs with the platform launcher (xdg-open, open, rundll32).
type System struct{}

func (System) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// The launcher's own chatter would interleave with the console prompt.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(url)
}

// Launch opens url with opener and logs a warning on failure. It reports
// whether the launch succeeded.
func Launch(ctx context.Context, opener Opener, url string, logger *slog.Logger) bool {
	if opener == nil {
		opener = System{}
	}
	if err := opener.Open(ctx, url); err != nil {
		logger.Warn("could not open browser", "url", url, "error", err)
		return false
	}
	logger.Info("opened dashboard in browser", "url", url)
	return true
}
