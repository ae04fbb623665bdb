package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/subcommands"
	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/date"
	"github.com/matkaise/openfolio-sub000/metrics"
	"github.com/matkaise/openfolio-sub000/service"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the reports as a JSON API" }
func (*serveCmd) Usage() string {
	return `folio serve [-addr <addr>]

  Serves the reports of the project as JSON, and Prometheus metrics on /metrics.

  GET /api/v1/history?range=1Y&granularity=daily&portfolios=a,b
  GET /api/v1/holdings?portfolios=a
  GET /api/v1/returns/{model}?range=YTD&dividends=true
  GET /api/v1/analysis?window=365
  GET /api/v1/benchmarks/{name}?range=MAX
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, $"+EnvAddr+" by default.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	addr := c.addr
	if addr == "" {
		addr = cfg.Addr
	}
	InitLogger(cfg.LogLevel, os.Stderr, true)

	svc, store, err := openService()
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(svc, cfg.RiskFreeRate),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("folio listening", "addr", addr, "project", cfg.Project)
		errc <- srv.ListenAndServe()
	}()

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail("Error serving: %v", err)
		}
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("shutting down")
	if err := srv.Shutdown(shutdown); err != nil {
		slog.Error("shutdown error", "err", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// NewRouter returns the HTTP API over svc.
func NewRouter(svc *service.Service, riskFreeRate float64) http.Handler {
	h := &api{svc: svc, riskFreeRate: riskFreeRate}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/history", h.history)
		r.Get("/holdings", h.holdings)
		r.Get("/returns/{model}", h.returns)
		r.Get("/analysis", h.analysis)
		r.Get("/benchmarks/{name}", h.benchmark)
	})
	return r
}

type api struct {
	svc          *service.Service
	riskFreeRate float64
}

// query reads the history selection from the url, with the same defaults as the CLI flags.
func (*api) query(r *http.Request) (service.Query, error) {
	v := r.URL.Query()
	q := queryFlags{rng: v.Get("range"), granularity: v.Get("granularity"), portfolios: v.Get("portfolios")}
	if q.granularity == "" {
		q.granularity = "weekly"
	}
	query, err := q.query()
	if err != nil {
		return query, err
	}
	if s := v.Get("now"); s != "" {
		if query.Now, err = date.Parse(s); err != nil {
			return query, err
		}
	}
	return query, nil
}

func (h *api) history(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	points, err := h.svc.History(r.Context(), q)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *api) holdings(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Holdings(r.Context(), splitList(r.URL.Query().Get("portfolios")), nil)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *api) returns(w http.ResponseWriter, r *http.Request) {
	kind, err := service.ParseReturnKind(chi.URLParam(r, "model"))
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	q, err := h.query(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	dividends, _ := strconv.ParseBool(r.URL.Query().Get("dividends"))
	series, err := h.svc.Returns(r.Context(), kind, q, dividends)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (h *api) analysis(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts := portfolio.AnalysisOptions{RiskFreeRate: h.riskFreeRate}
	if s := r.URL.Query().Get("window"); s != "" {
		if opts.WindowDays, err = strconv.Atoi(s); err != nil {
			writeError(w, "invalid window: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	m, err := h.svc.Analysis(r.Context(), q.Now, q.Portfolios, opts)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *api) benchmark(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	series, err := h.svc.Benchmark(r.Context(), chi.URLParam(r, "name"), q)
	switch {
	case errors.Is(err, service.ErrUnknownBenchmark):
		writeError(w, err.Error(), http.StatusNotFound)
	case err != nil:
		writeError(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, series)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
