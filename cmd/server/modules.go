package main

import (
	"net/http"

	"github.com/AndrewDilley/TenderEvaluation/internal/api"
	"github.com/AndrewDilley/TenderEvaluation/internal/config"
	"github.com/AndrewDilley/TenderEvaluation/internal/infrastructure"
	"github.com/AndrewDilley/TenderEvaluation/pkg/handlers"
	"github.com/AndrewDilley/TenderEvaluation/pkg/middleware"
	"github.com/AndrewDilley/TenderEvaluation/pkg/module"
	"github.com/AndrewDilley/TenderEvaluation/web/app"
)

const appBasePath = "/app"

type Modules struct {
	API *module.Module
	App *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(appBasePath, cfg.API.BasePath)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API: apiModule,
		App: appModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", http.RedirectHandler(appBasePath+"/", http.StatusFound))

	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	router.HandleNative("GET /readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := infra.Lifecycle.Status()
		if !status.Ready {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, status)
	}))

	router.HandleNative("GET /metrics", infra.Metrics.Handler())

	return router
}
