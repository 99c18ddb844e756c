// Package app wires repositories, services and the HTTP router into a running host.
package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ArowuTest/fundme-backend/api/routes"
	"github.com/ArowuTest/fundme-backend/internal/config"
	"github.com/ArowuTest/fundme-backend/internal/handlers"
	"github.com/ArowuTest/fundme-backend/internal/metrics"
	"github.com/ArowuTest/fundme-backend/internal/pricefeed"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"github.com/ArowuTest/fundme-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/fundme-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ArowuTest/fundme-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Repositories is the storage the host runs on
type Repositories struct {
	Deployments   repositories.DeploymentRepository
	States        repositories.ContractStateRepository
	Contributions repositories.ContributionRepository
	Payouts       repositories.PayoutRepository
	Events        repositories.EventRepository
}

// MemoryRepositories returns process-local storage
func MemoryRepositories() Repositories {
	return Repositories{
		Deployments:   memory.NewDeploymentRepository(),
		States:        memory.NewContractStateRepository(),
		Contributions: memory.NewContributionRepository(),
		Payouts:       memory.NewPayoutRepository(),
		Events:        memory.NewEventRepository(),
	}
}

// MongoRepositories returns storage backed by db
func MongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Deployments:   mongorepo.NewDeploymentRepository(db),
		States:        mongorepo.NewContractStateRepository(db),
		Contributions: mongorepo.NewContributionRepository(db),
		Payouts:       mongorepo.NewPayoutRepository(db),
		Events:        mongorepo.NewEventRepository(db),
	}
}

// App is a wired host
type App struct {
	Router   *gin.Engine
	Host     *services.ContractHost
	Deployer *services.DeployService
	Auth     *services.AuthService
	Events   *services.EventService
	Registry *pricefeed.Registry
	Tokens   *jwt.TokenService
	Metrics  *prometheus.Registry
}

// New builds the host and restores every recorded deployment
func New(ctx context.Context, cfg *config.Config, repos Repositories, healthCheck func(context.Context) error, logger *zap.SugaredLogger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	minimumUSD, err := utils.ParseUnits(cfg.FundMe.MinimumUSD, 0)
	if err != nil {
		return nil, fmt.Errorf("fundme.minimumUsd: %w", err)
	}
	var entranceFee *big.Int
	if cfg.Raffle.EntranceFee != "" {
		if entranceFee, err = utils.ParseValue(cfg.Raffle.EntranceFee); err != nil {
			return nil, fmt.Errorf("raffle.entranceFee: %w", err)
		}
	}

	tokens, err := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	networks := services.NewHelperConfig()
	registry := pricefeed.NewRegistry()
	if cfg.Oracle.ServeNetworkFeeds {
		services.RegisterNetworkFeeds(registry, networks)
	}
	if err := services.RegisterStaticFeeds(registry, cfg.Oracle.StaticFeeds); err != nil {
		return nil, err
	}

	events := services.NewEventService(repos.Events, collector, logger)
	payouts := services.NewPayoutService(repos.Payouts, logger)
	host := services.NewContractHost()
	deployer := services.NewDeployService(services.DeployDeps{
		Deployments:   repos.Deployments,
		States:        repos.States,
		Contributions: repos.Contributions,
		Transferer:    payouts,
		Events:        events,
		Registry:      registry,
		Host:          host,
		Networks:      networks,
		Metrics:       collector,
		Logger:        logger,
	}, services.DeployDefaults{
		ChainID:     cfg.Chain.ChainID,
		MinimumUSD:  minimumUSD,
		EntranceFee: entranceFee,
	})
	if _, err := deployer.Restore(ctx); err != nil {
		return nil, err
	}

	auth, err := services.NewAuthService(ctx, tokens, time.Duration(cfg.Auth.ChallengeTTL)*time.Second, logger)
	if err != nil {
		return nil, err
	}

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		AuthHandler:          handlers.NewAuthHandler(auth),
		FundMeHandler:        handlers.NewFundMeHandler(host, payouts),
		RaffleHandler:        handlers.NewRaffleHandler(host),
		SimpleStorageHandler: handlers.NewSimpleStorageHandler(host),
		DeploymentHandler:    handlers.NewDeploymentHandler(deployer, host),
		EventHandler:         handlers.NewEventHandler(events),
		PriceFeedHandler:     handlers.NewPriceFeedHandler(registry, logger),
		Tokens:               tokens,
		Metrics:              collector,
		Gatherer:             reg,
		HealthCheck:          healthCheck,
		Logger:               logger,
	})

	return &App{
		Router:   router,
		Host:     host,
		Deployer: deployer,
		Auth:     auth,
		Events:   events,
		Registry: registry,
		Tokens:   tokens,
		Metrics:  reg,
	}, nil
}

// Close releases resources held by the app
func (a *App) Close() error {
	return a.Auth.Close()
}
