package main

import (
	"context"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openquest/zklogin/adapters/chain"
	"github.com/openquest/zklogin/adapters/events"
	"github.com/openquest/zklogin/adapters/provider"
	"github.com/openquest/zklogin/adapters/prover"
	"github.com/openquest/zklogin/adapters/store"
	"github.com/openquest/zklogin/config"
	"github.com/openquest/zklogin/service"
	transport "github.com/openquest/zklogin/transport/http"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse Redis URL")
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event publisher")
	}

	chainClient, err := chain.Dial(ctx, cfg.ChainRPCURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to chain RPC")
	}
	defer chainClient.Close()

	sessionStore := store.NewRedisStore(redisClient, logger)
	proverClient := prover.NewClient(cfg.ProverURL, logger)
	eventPub := events.NewWatermillPublisher(publisher)

	providerCfg := provider.Config{
		AuthorizationEndpoint: cfg.AuthorizeURL,
		ClientID:              cfg.ClientID,
		RedirectURI:           cfg.RedirectURI,
	}

	authService := service.NewAuthService(
		providerCfg,
		cfg.AccountSalt,
		cfg.CoinType,
		sessionStore,
		sessionStore,
		proverClient,
		chainClient,
		eventPub,
		logger,
	)
	txService := service.NewTxService(authService, chainClient, logger)

	// Pick up a session surviving a restart before serving traffic.
	if _, err := authService.RestoreSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("session restore failed")
	}

	router := transport.SetupRouter(authService, txService, logger)

	logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
