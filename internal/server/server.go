// internal/server/server.go
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tagshelf/internal/builder"
	"tagshelf/internal/logfields"
)

// DebounceDuration is how long the watcher waits for changes to settle
// before rebuilding.
const DebounceDuration = 500 * time.Millisecond

// BuildFunc rebuilds the site.
type BuildFunc func(builder.BuildOptions) error

type Options struct {
	Port      int
	OutputDir string
	// WatchPaths are files and directories that trigger a rebuild. Directories
	// are watched recursively, files through their parent directory.
	WatchPaths []string
	Logger     *slog.Logger
}

// Run builds the site once with a clean destination, then serves the output
// directory with live reload until ctx is cancelled.
func Run(ctx context.Context, opts Options, build BuildFunc, buildOpts builder.BuildOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	buildOpts.CleanDestination = true
	if err := build(buildOpts); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, opts.WatchPaths, logger); err != nil {
		return err
	}

	buildOpts.CleanDestination = false
	rb := newRebuilder(DebounceDuration, func() {
		if err := build(buildOpts); err != nil {
			logger.Error("Error rebuilding site", logfields.Error(err))
			return
		}
		logger.Info("Site rebuilt, triggering reload")
		hub.broadcastMessage([]byte("reload"))
	})
	defer rb.stop()
	go watchForChanges(ctx, watcher, rb, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	mux.Handle("/", liveReloadWrapper(http.FileServer(http.Dir(opts.OutputDir))))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving site", slog.String("url", fmt.Sprintf("http://localhost:%d", opts.Port)))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func addWatches(watcher *fsnotify.Watcher, paths []string, logger *slog.Logger) error {
	watched := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			logger.Warn("Could not watch directory", logfields.Path(dir), logfields.Error(err))
			return
		}
		logger.Debug("Watching directory", logfields.Path(dir))
		watched[dir] = true
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", path, err)
		}

		if !info.IsDir() {
			// Watch the parent so editors that save by rename are still seen.
			addWatch(filepath.Dir(path))
			continue
		}
		if err := filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				addWatch(walkPath)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
	}
	return nil
}

func watchForChanges(ctx context.Context, watcher *fsnotify.Watcher, rb *rebuilder, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !triggersRebuild(event) {
				continue
			}
			logger.Debug("Change detected", logfields.Path(event.Name))
			rb.trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func triggersRebuild(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, "~") || strings.HasSuffix(event.Name, ".swp") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// rebuilder runs fn once changes have been quiet for the debounce delay.
// Triggers while fn runs, and for one delay after, are dropped: a build
// touches watched files itself (story output lands in content/).
type rebuilder struct {
	mu         sync.Mutex
	delay      time.Duration
	fn         func()
	timer      *time.Timer
	running    bool
	quietUntil time.Time
}

func newRebuilder(delay time.Duration, fn func()) *rebuilder {
	return &rebuilder{delay: delay, fn: fn}
}

func (r *rebuilder) trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || time.Now().Before(r.quietUntil) {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.run)
}

func (r *rebuilder) run() {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	r.fn()

	r.mu.Lock()
	r.running = false
	r.quietUntil = time.Now().Add(r.delay)
	r.mu.Unlock()
}

func (r *rebuilder) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
}

func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter()
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			if key == "Content-Length" {
				continue
			}
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		body := iw.body.Bytes()
		if iw.statusCode == http.StatusOK {
			body = bytes.Replace(body, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		w.WriteHeader(iw.statusCode)
		_, _ = w.Write(body)
	})
}

// interceptingWriter buffers a response so the body can be rewritten.
type interceptingWriter struct {
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter() *interceptingWriter {
	return &interceptingWriter{
		body:       new(bytes.Buffer),
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header {
	return iw.header
}

func (iw *interceptingWriter) Write(b []byte) (int, error) {
	return iw.body.Write(b)
}

func (iw *interceptingWriter) WriteHeader(statusCode int) {
	iw.statusCode = statusCode
}

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection error. Please restart 'tagshelf serve'.");
    };
  })();
</script>
`
