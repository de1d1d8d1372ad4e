// Package server exposes diagnoses over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/aiready/internal/diagnosis"
	"github.com/abhisek/aiready/internal/report"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc *diagnosis.Service, exp *report.Exporter, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "server"))
	h := &handlers{svc: svc, exp: exp, log: log}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.GET("/healthz", healthCheck)
	router.GET("/catalog", h.getCatalog)

	d := router.Group("/diagnoses")
	{
		d.POST("", h.createDiagnosis)
		d.GET("", h.listDiagnoses)
		d.GET("/:id", h.getDiagnosis)
		d.DELETE("/:id", h.deleteDiagnosis)
		d.GET("/:id/export/:format", h.exportDiagnosis)
	}

	return router
}

// Serve runs the HTTP server on addr until ctx is cancelled, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
