package api

import (
	"net/http"

	"github.com/AndrewDilley/TenderEvaluation/internal/config"
	"github.com/AndrewDilley/TenderEvaluation/internal/evaluations"
	"github.com/AndrewDilley/TenderEvaluation/pkg/openapi"
	"github.com/AndrewDilley/TenderEvaluation/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	storageHandler := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.Storage.MaxListSize,
	)

	groups := []routes.Group{
		domain.Evaluations.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		storageHandler.routes(),
	}

	specBytes, err := describe(cfg, groups)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	patterns := routes.Register(mux, groups...)
	runtime.Logger.Info("routes registered", "base_path", cfg.API.BasePath, "routes", patterns)
	return nil
}

func describe(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(evaluations.Spec.Schemas)

	routes.Describe(spec, groups...)
	return openapi.MarshalJSON(spec)
}
