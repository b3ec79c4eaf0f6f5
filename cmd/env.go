package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sitescout/sitesim/internal/model"
	"github.com/sitescout/sitesim/internal/resolve"
	"github.com/sitescout/sitesim/internal/session"
	"github.com/sitescout/sitesim/internal/store"
	"github.com/sitescout/sitesim/pkg/siteapi"
)

// simEnv holds the initialized store, upstream client, resolver, and
// facility catalog shared by the serve/sites/inspect commands.
type simEnv struct {
	Store      store.Store
	Client     siteapi.Client
	Resolver   *resolve.Resolver
	Facilities []model.FacilitySpec
}

// Close releases resources held by the environment.
func (e *simEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// sessionConfig maps the loaded simulation config onto session tunables.
func sessionConfig() session.Config {
	return session.Config{
		StartingBudget: cfg.Simulation.StartingBudget,
		BuildDuration:  cfg.Simulation.BuildDays,
		HistorySize:    cfg.Simulation.HistorySize,
	}
}

// initEnv sets up the payload cache store, the upstream client, the detail
// resolver, and the facility catalog. Callers should defer env.Close().
func initEnv(ctx context.Context) (*simEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	cacheTTL := time.Duration(cfg.Upstream.CacheTTLHours) * time.Hour
	client := siteapi.NewClient(cfg.Upstream.BaseURL,
		siteapi.WithRateLimit(cfg.Upstream.RateLimitRPS),
		siteapi.WithCache(store.NewCache(st, cacheTTL)),
	)

	seed := cfg.Simulation.SynthesisSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	resolver := resolve.New(client, resolve.NewSynthesizer(seed))

	facilities, err := model.LoadFacilities(cfg.Simulation.FacilitiesPath)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	zap.L().Debug("environment initialized",
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("store", cfg.Store.Driver),
		zap.Int("facilities", len(facilities)),
	)

	return &simEnv{
		Store:      st,
		Client:     client,
		Resolver:   resolver,
		Facilities: facilities,
	}, nil
}

// initStore opens the configured payload cache backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
