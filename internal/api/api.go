// Package api assembles the API module with the evaluation domain and route registration.
package api

import (
	"net/http"

	"github.com/AndrewDilley/TenderEvaluation/internal/config"
	"github.com/AndrewDilley/TenderEvaluation/internal/infrastructure"
	"github.com/AndrewDilley/TenderEvaluation/pkg/middleware"
	"github.com/AndrewDilley/TenderEvaluation/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
