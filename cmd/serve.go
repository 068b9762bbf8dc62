package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/geomath"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for lead searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p := newPipeline(cfg)
		session := &pipeline.Session{}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/v1/search", searchHandler(p, session))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type searchRequest struct {
	City       string   `json:"city"`
	Categories []string `json:"categories"`
	RadiusKm   float64  `json:"radius_km"`
	Reference  *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"reference"`
}

type searchResponse struct {
	Generation uint64       `json:"generation"`
	Stale      bool         `json:"stale"`
	Leads      []model.Lead `json:"leads"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// searchHandler runs the pipeline for one request. Each request takes a
// fresh generation from the server session; if a newer search started
// while this one was in flight, the response is marked stale so the
// consumer discards it instead of overwriting newer results.
func searchHandler(p *pipeline.Pipeline, session *pipeline.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "bad_request",
				Message: "invalid request body",
			})
			return
		}

		query := model.SearchQuery{
			City:       req.City,
			Categories: req.Categories,
			RadiusKm:   req.RadiusKm,
		}

		opts := pipeline.FindOptions{Generation: session.Next()}
		if req.Reference != nil {
			opts.Reference = &geomath.Point{Lat: req.Reference.Lat, Lng: req.Reference.Lng}
		}

		result, err := p.FindLeads(r.Context(), query, opts)
		if err != nil {
			kind := pipeline.KindOf(err)
			writeJSON(w, statusFor(kind), errorResponse{
				Error:   kind.String(),
				Message: kind.Message(),
			})
			return
		}

		writeJSON(w, http.StatusOK, searchResponse{
			Generation: uint64(result.Generation),
			Stale:      session.Stale(result.Generation),
			Leads:      result.Leads,
		})
	}
}

func statusFor(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindInvalidQuery, pipeline.KindInvalidArgument:
		return http.StatusBadRequest
	case pipeline.KindCredentialMissing:
		return http.StatusServiceUnavailable
	case pipeline.KindQuota:
		return http.StatusTooManyRequests
	case pipeline.KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
