package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/linguahub/lingua-ui/config"
	"github.com/linguahub/lingua-ui/internal/adapters/learnapi"
	"github.com/linguahub/lingua-ui/internal/observability/audit"
	"github.com/linguahub/lingua-ui/internal/observability/statsd"
	"github.com/linguahub/lingua-ui/internal/ports"
	"github.com/linguahub/lingua-ui/internal/service"
	"github.com/linguahub/lingua-ui/internal/session"
)

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Verifier service.Verifier
	Codec    *session.Codec
	API      *learnapi.Client
	Auditor  ports.Auditor
	Metrics  *statsd.Client
}

// BuildServicesInput groups the connections BuildServices composes.
type BuildServicesInput struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  *redis.Client
	Logger *slog.Logger
}

// BuildServices wires adapters into the service layer from loaded config.
func BuildServices(ctx context.Context, in BuildServicesInput) (ServiceContainer, error) {
	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: in.Config.Observability.Metrics.IsEnabled(),
		Address: in.Config.Observability.Metrics.StatsdAddress,
		Prefix:  "lingua_ui",
		Logger:  in.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("statsd client: %w", err)
	}
	auditor := audit.NewRecorder(in.Logger, metrics)

	var api *learnapi.Client
	if in.Config.LearnAPI.Enabled() {
		api, err = learnapi.New(learnapi.Config{
			BaseURL:    in.Config.LearnAPI.BaseURL,
			Timeout:    in.Config.LearnAPI.Timeout,
			RetryCount: in.Config.LearnAPI.RetryCount,
		})
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("learning API client: %w", err)
		}
	}

	codec, err := BuildSessionCodec(in.Config)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("session codec: %w", err)
	}

	deps := AuthDeps{
		Config:  in.Config,
		DB:      in.DB,
		Redis:   in.Redis,
		API:     api,
		Auditor: auditor,
		Logger:  in.Logger,
	}

	authSvc, err := BuildAuthService(ctx, deps, codec)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("auth service: %w", err)
	}

	verifier, err := BuildVerifier(deps)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("verification: %w", err)
	}

	return ServiceContainer{
		Auth:     authSvc,
		Verifier: verifier,
		Codec:    codec,
		API:      api,
		Auditor:  auditor,
		Metrics:  metrics,
	}, nil
}
