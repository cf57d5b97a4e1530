package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/config"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const version = "1.0.0"

type Endpoints struct {
	Remote remote.Client
}

// Checks lists the health checks for the backends cfg actually selects.
func Checks(cfg *config.Config, endpoints *Endpoints) []health.Config {

	var checks []health.Config

	if cfg.Remote.Driver == "postgres" {
		checks = append(checks, health.Config{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		})
	}

	if cfg.Device.Driver == "redis" {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(
				healthRedis.Config{
					DSN: cfg.RedisConnect.GetDSN(),
				},
			),
		})
	}

	checks = append(checks, health.Config{
		Name:      "remote-store",
		Timeout:   5 * time.Second,
		SkipOnErr: false,
		Check: func(ctx context.Context) error {
			if endpoints == nil || endpoints.Remote == nil {
				return fmt.Errorf("remote store client is not initialized")
			}
			if err := endpoints.Remote.Ping(ctx); err != nil {
				return fmt.Errorf("failed to reach %s remote store: %w", cfg.Remote.Driver, err)
			}
			return nil
		},
	})

	return checks
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "uniform-storefront",
			Version: version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(Checks(cfg, endpoints)...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
