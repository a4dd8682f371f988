// Package http serves the admin endpoints of the planetlod host.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ListenAndServe runs the servers until ctx is done, then shuts them down
// within shutdownTimeout. It returns the first error of a server that stopped
// for another reason than a shutdown.
func ListenAndServe(ctx context.Context, shutdownTimeout time.Duration, servers ...*http.Server) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				logs.Warn(errors.New("admin server shutdown failed").
					WithTag("addr", s.Addr).
					WithTag("timeout", shutdownTimeout).
					Wrap(err))
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, s := range servers {
		wg.Add(1)

		go func(s *http.Server) {
			defer wg.Done()

			logs.WithTag("addr", s.Addr).Info("admin server listening")

			err := s.ListenAndServe()
			if err == nil || err == http.ErrServerClosed {
				logs.WithTag("addr", s.Addr).Info("admin server stopped")
				return
			}

			err = errors.New("admin server failed").
				WithTag("addr", s.Addr).
				Wrap(err)
			logs.Warn(err)

			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}(s)
	}

	wg.Wait()
	return firstErr
}

// MetricsPathFormatter returns a path formatter for metrics.HTTPHandler that
// only reports the given paths. A path ending with a slash also matches
// everything below it and is reported as the prefix. Unknown paths and
// 301, 400, 404 and 405 responses are reported as an empty path.
func MetricsPathFormatter(paths ...string) func(statusCode int, path string) string {
	return func(statusCode int, path string) string {
		switch statusCode {
		case http.StatusMovedPermanently,
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusMethodNotAllowed:
			return ""
		}

		for _, p := range paths {
			if path == p {
				return p
			}
			if strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) {
				return p
			}
		}
		return ""
	}
}
