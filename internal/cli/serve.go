package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/noisering/pkg/buildinfo"
	"github.com/matzehuels/noisering/pkg/cache"
	"github.com/matzehuels/noisering/pkg/config"
	nerrors "github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/noise"
	"github.com/matzehuels/noisering/pkg/observability"
	"github.com/matzehuels/noisering/pkg/pipeline"
)

const (
	// headerRenderID carries the per-request ID on every response.
	headerRenderID = "X-Render-ID"

	shutdownTimeout = 5 * time.Second
)

// serveFlags are the flags of the serve command.
type serveFlags struct {
	addr         string
	cacheEntries int
	cacheTTL     time.Duration
	noCache      bool
}

// serveCommand creates the serve command for rendering frames over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		sketch sketchFlags
		opts   = serveFlags{addr: "127.0.0.1:8080", cacheEntries: cache.DefaultEntries, cacheTTL: cache.DefaultTTL}
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered frames over HTTP",
		Long: `Serve rendered frames over HTTP.

Routes:
  GET /frames/{t}        PNG image of frame t (?scale=2)
  GET /frames/{t}/ansi   half-block ANSI text of frame t (?cols=80&rows=40)
  GET /config            effective configuration as TOML
  GET /healthz           liveness probe

Every response carries an X-Render-ID header. Frames are cached in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &sketch, opts)
		},
	}

	sketch.bind(cmd)
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", opts.addr, "listen address")
	cmd.Flags().IntVar(&opts.cacheEntries, "cache-entries", opts.cacheEntries, "frames kept in the in-memory cache")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", opts.cacheTTL, "lifetime of cached frames")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render every request")
	return cmd
}

// runServe listens on opts.addr until ctx is cancelled, then shuts down.
func (c *CLI) runServe(ctx context.Context, sketch *sketchFlags, opts serveFlags) error {
	logger := loggerFromContext(ctx)
	cfg, err := sketch.resolve()
	if err != nil {
		return err
	}

	var store cache.Cache = cache.NewMemory(opts.cacheEntries, opts.cacheTTL)
	if opts.noCache {
		store = cache.NewNullCache()
	}
	defer store.Close()

	fs := newFrameServer(cfg, c.newRunner(), store, logger)
	srv := &http.Server{
		Handler:           fs.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.addr, err)
	}
	printSuccess(c.Out, "Serving frames")
	fmt.Fprintln(c.Out, "  "+StyleLink.Render("http://"+ln.Addr().String()+"/frames/"+strconv.Itoa(cfg.Animation.Start)))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Frame Server
// =============================================================================

// frameServer renders frames of one fixed configuration on demand.
type frameServer struct {
	cfg    config.Config
	runner *pipeline.Runner
	cache  cache.Cache
	noise  noise.Field
	ansi   *lipgloss.Renderer
	logger *log.Logger
}

func newFrameServer(cfg config.Config, runner *pipeline.Runner, store cache.Cache, logger *log.Logger) *frameServer {
	ansi := lipgloss.NewRenderer(io.Discard)
	ansi.SetColorProfile(termenv.TrueColor)
	return &frameServer{
		cfg:    cfg,
		runner: runner,
		cache:  store,
		noise:  noise.New(cfg.Noise),
		ansi:   ansi,
		logger: logger,
	}
}

func (s *frameServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.renderID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/config", s.handleConfig)
	r.Get("/frames/{frame}", s.handleFrame(pipeline.FormatPNG))
	r.Get("/frames/{frame}/ansi", s.handleFrame(pipeline.FormatANSI))
	return r
}

// renderID tags each request with a fresh UUID.
func (s *frameServer) renderID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(headerRenderID, id)
		w.Header().Set("Server", buildinfo.UserAgent())
		ctx := withLogger(r.Context(), s.logger.With("render_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// observe reports every request to the serve hooks.
func (s *frameServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Serve()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *frameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *frameServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.cfg.Encode(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.Write(buf.Bytes())
}

func (s *frameServer) handleFrame(format string) http.HandlerFunc {
	contentType := "image/png"
	if format == pipeline.FormatANSI {
		contentType = "text/plain; charset=utf-8"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.frameOptions(r, format)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		data, err := s.frame(r.Context(), opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		etag := `"` + cache.Hash(data) + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}
}

// frameOptions parses the frame counter and output query parameters.
func (s *frameServer) frameOptions(r *http.Request, format string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Config:       s.cfg,
		Format:       format,
		Noise:        s.noise,
		ANSIRenderer: s.ansi,
		Logger:       loggerFromContext(r.Context()),
	}

	frame, err := strconv.Atoi(chi.URLParam(r, "frame"))
	if err != nil {
		return opts, nerrors.New(nerrors.ErrCodeInvalidFrame, "frame must be an integer, got %q", chi.URLParam(r, "frame"))
	}
	opts.Frame = frame

	q := r.URL.Query()
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, nerrors.New(nerrors.ErrCodeInvalidInput, "scale must be a number, got %q", v)
		}
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"cols", &opts.Cols}, {"rows", &opts.Rows}} {
		if v := q.Get(p.name); v != "" {
			if *p.dst, err = strconv.Atoi(v); err != nil {
				return opts, nerrors.New(nerrors.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v)
			}
		}
	}
	return opts, opts.ValidateForFrame()
}

// frame returns the encoded frame, from the cache when possible.
func (s *frameServer) frame(ctx context.Context, opts pipeline.Options) ([]byte, error) {
	key, err := cache.FrameKey(opts.Config, opts.Frame, cache.FrameOpts{
		Format: opts.Format,
		Scale:  opts.Scale,
		Cols:   opts.Cols,
		Rows:   opts.Rows,
	})
	if err != nil {
		return nil, err
	}
	if data, ok, _ := s.cache.Get(ctx, key); ok {
		loggerFromContext(ctx).Debug("cache hit", "frame", opts.Frame, "format", opts.Format)
		return data, nil
	}

	result, err := s.runner.RenderFrame(ctx, opts)
	if err != nil {
		return nil, err
	}
	data := result.Artifacts[opts.Format]
	if err := s.cache.Set(ctx, key, data); err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "error", err)
	}
	return data, nil
}

// fail writes err as a plain-text response with a status derived from its code.
func (s *frameServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, nerrors.UserMessage(err), status)
}

// httpStatus maps error codes to HTTP status codes.
func httpStatus(err error) int {
	switch nerrors.GetCode(err) {
	case nerrors.ErrCodeInvalidInput, nerrors.ErrCodeInvalidConfig, nerrors.ErrCodeInvalidSides,
		nerrors.ErrCodeInvalidRadius, nerrors.ErrCodeInvalidFormat, nerrors.ErrCodeInvalidVariant,
		nerrors.ErrCodeInvalidFrame:
		return http.StatusBadRequest
	}
	if errors.Is(err, context.Canceled) {
		return 499
	}
	return http.StatusInternalServerError
}
