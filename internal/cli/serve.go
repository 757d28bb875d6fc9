package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quaverlabs/quaver/pkg/cache"
	qerrors "github.com/quaverlabs/quaver/pkg/errors"
	"github.com/quaverlabs/quaver/pkg/pattern"
	"github.com/quaverlabs/quaver/pkg/pipeline"
	"github.com/quaverlabs/quaver/pkg/seq"
	"github.com/quaverlabs/quaver/pkg/seq/transform"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisAddr string
	scope     string
	noCache   bool
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      c.Config.Serve.Addr,
		redisAddr: c.Config.Serve.RedisAddr,
		scope:     c.Config.Serve.Scope,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for compiling patterns over the network.

Endpoints:
  GET  /healthz       liveness probe
  GET  /v1/transforms list available transforms
  POST /v1/compile    compile a pattern to steps
  POST /v1/random     generate a random pattern
  POST /v1/transform  apply a transform to a compiled pattern

With --redis the compile cache is shared across instances; otherwise the
local file cache is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", opts.redisAddr, "Redis address for a shared cache")
	cmd.Flags().StringVar(&opts.scope, "scope", opts.scope, "cache key prefix isolating this deployment")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, serveKeyer(opts.scope), logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newServeMux(runner, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveKeyer namespaces cache keys by deployment scope. An empty scope
// leaves the runner on the default keyer.
func serveKeyer(scope string) cache.Keyer {
	if scope == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, scope+":")
}

// serveCache picks the cache backend for the server: Redis when configured,
// the local file cache otherwise.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		store, err := cache.NewRedisCache(ctx, opts.redisAddr)
		if err != nil {
			return nil, qerrors.Wrap(qerrors.ErrCodeCache, err, "connect redis %s", opts.redisAddr)
		}
		return store, nil
	}
	return c.newCache(false)
}

// =============================================================================
// Router
// =============================================================================

// newServeMux builds the chi router for the HTTP API.
func newServeMux(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Get("/v1/transforms", handleTransforms)
	r.Post("/v1/compile", handleCompile(runner))
	r.Post("/v1/random", handleRandom)
	r.Post("/v1/transform", handleTransform)

	return r
}

// requestIDMiddleware attaches a request ID to every response. Incoming
// X-Request-Id headers are honored so IDs survive proxies.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", ww.Header().Get("X-Request-Id"))
		})
	}
}

// =============================================================================
// Handlers
// =============================================================================

type compileResponse struct {
	Steps       seq.Sequence `json:"steps"`
	Pattern     string       `json:"pattern"`
	PatternHash string       `json:"pattern_hash,omitempty"`
	StepCount   int          `json:"step_count"`
	Cached      bool         `json:"cached"`
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleTransforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"transforms": transform.Names()})
}

func handleCompile(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts pipeline.Options
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeError(w, http.StatusBadRequest,
				qerrors.Wrap(qerrors.ErrCodeInvalidInput, err, "decode request"))
			return
		}

		steps, hit, err := runner.CompileWithCacheInfo(r.Context(), opts)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resp := compileResponse{
			Steps:     steps,
			Pattern:   opts.Pattern,
			StepCount: len(steps),
			Cached:    hit,
		}
		if data, err := json.Marshal(steps); err == nil {
			resp.PatternHash = cache.Hash(data)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type randomRequest struct {
	Length     int     `json:"length,omitempty"`
	MinValue   int     `json:"min_value,omitempty"`
	MaxValue   int     `json:"max_value,omitempty"`
	RestProb   float64 `json:"rest_prob,omitempty"`
	GroupProb  float64 `json:"group_prob,omitempty"`
	RepeatProb float64 `json:"repeat_prob,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`
}

type randomResponse struct {
	Pattern string       `json:"pattern"`
	Steps   seq.Sequence `json:"steps"`
}

func handleRandom(w http.ResponseWriter, r *http.Request) {
	req := randomRequest{
		Length:     seq.DefaultRandomLength,
		MinValue:   seq.DefaultMinValue,
		MaxValue:   seq.DefaultMaxValue,
		RestProb:   seq.DefaultRestProb,
		GroupProb:  seq.DefaultGroupProb,
		RepeatProb: seq.DefaultRepeatProb,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			qerrors.Wrap(qerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	rOpts := seq.RandomOptions{
		Length:     req.Length,
		MinValue:   req.MinValue,
		MaxValue:   req.MaxValue,
		RestProb:   req.RestProb,
		GroupProb:  req.GroupProb,
		RepeatProb: req.RepeatProb,
	}
	if req.Seed != 0 {
		rOpts.Rand = seq.NewRand(req.Seed)
	}

	steps := seq.Random(rOpts)
	writeJSON(w, http.StatusOK, randomResponse{
		Pattern: seq.Stringify(steps),
		Steps:   steps,
	})
}

type transformRequest struct {
	Name    string `json:"name"`
	Param   *int   `json:"param,omitempty"`
	Pattern string `json:"pattern"`
	Seed    uint64 `json:"seed,omitempty"`
}

func handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			qerrors.Wrap(qerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Pattern == "" {
		writeError(w, http.StatusBadRequest,
			qerrors.New(qerrors.ErrCodeInvalidInput, "pattern is required"))
		return
	}
	if !transform.Known(req.Name) {
		writeError(w, http.StatusBadRequest,
			qerrors.New(qerrors.ErrCodeUnknownTransform, "unknown transform: %q", req.Name))
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = pipeline.DefaultSeed
	}
	rng := seq.NewRand(seed)

	steps := pattern.Compile(req.Pattern, pattern.Options{Rand: rng})
	engine := transform.NewEngine(transform.WithRand(rng))

	param := transform.NoParam
	if req.Param != nil {
		param = transform.IntParam(*req.Param)
	}
	result := engine.Apply(req.Name, param, steps)

	writeJSON(w, http.StatusOK, compileResponse{
		Steps:     result,
		Pattern:   req.Pattern,
		StepCount: len(result),
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError serializes an error with its machine-readable code. Errors
// without a code report INTERNAL_ERROR.
func writeError(w http.ResponseWriter, status int, err error) {
	code := qerrors.GetCode(err)
	if code == "" {
		code = qerrors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Error: qerrors.UserMessage(err),
		Code:  string(code),
	})
}
