package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/NasaVasa/farewatch/internal/config"
	"github.com/NasaVasa/farewatch/internal/delivery/rest"
	"github.com/NasaVasa/farewatch/internal/delivery/telegram"
	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/NasaVasa/farewatch/internal/infra/amadeus"
	"github.com/NasaVasa/farewatch/internal/infra/cache"
	"github.com/NasaVasa/farewatch/internal/infra/db"
	"github.com/NasaVasa/farewatch/internal/infra/llm"
	"github.com/NasaVasa/farewatch/internal/infra/log"
	"github.com/NasaVasa/farewatch/internal/infra/metrics"
	"github.com/NasaVasa/farewatch/internal/infra/mockprovider"
	"github.com/NasaVasa/farewatch/internal/infra/notify"
	"github.com/NasaVasa/farewatch/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server    *http.Server
	scheduler *usecase.AlertScheduler
	bot       *telegram.Bot
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	var redisClient redis.UniversalClient
	searcher := newSearcher(cfg, m, logger)
	if cfg.CacheEnabled() {
		redisClient = cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, search cache will fall through", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		searcher = cache.NewSearchCache(searcher, redisClient, cfg.SearchCacheTTL, logger)
	}

	if cfg.LLMAPIKey == "" {
		logger.Warn("LLM_API_KEY is empty, free-text messages will fail to classify")
	}
	classifier := llm.NewClassifier(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)

	alertRepo := db.NewAlertRepository(dbConn)
	searchUC := usecase.NewSearchUsecase(searcher, nil, logger)
	alertUC := usecase.NewAlertUsecase(alertRepo)
	messageUC := usecase.NewMessageUsecase(classifier, searchUC, alertUC, nil, logger)
	evaluator := usecase.NewAlertEvaluator(alertRepo, searcher, logger)

	var notifier domain.Notifier = notify.NewLogNotifier(logger)
	var bot *telegram.Bot
	if cfg.TelegramBotToken != "" {
		api, err := telegram.NewAPI(cfg.TelegramBotToken)
		if err != nil {
			return nil, err
		}
		notifier = telegram.NewNotifier(api, logger)
		handlers := telegram.NewHandlers(searchUC, alertUC, messageUC, logger)
		bot = telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)
	} else {
		logger.Info("telegram disabled, notifications go to the log")
	}

	scheduler := usecase.NewAlertScheduler(evaluator, notifier, m, cfg.EvaluationInterval, nil, logger)

	health := func(ctx context.Context) error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	handler := rest.NewHandler(searchUC, alertUC, messageUC, scheduler, logger)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rest.NewRouter(handler, prometheus.DefaultGatherer, health, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	cleanup := func() error {
		var errs []error
		if redisClient != nil {
			errs = append(errs, redisClient.Close())
		}
		errs = append(errs, db.Close(dbConn))
		return errors.Join(errs...)
	}

	return &App{server: server, scheduler: scheduler, bot: bot, logger: logger, cleanupFn: cleanup}, nil
}

func newSearcher(cfg config.Config, m *metrics.Metrics, logger *zap.Logger) domain.FlightSearcher {
	if cfg.FlightProvider == config.ProviderMock {
		logger.Info("using mock flight provider")
		return mockprovider.NewSearcher(logger)
	}
	return amadeus.NewClient(amadeus.Options{
		BaseURL:   cfg.AmadeusBaseURL,
		APIKey:    cfg.AmadeusAPIKey,
		APISecret: cfg.AmadeusAPISecret,
		Timeout:   cfg.AmadeusTimeout,
		RateLimit: cfg.AmadeusRateLimit,
		Currency:  cfg.AmadeusCurrency,
		MaxOffers: cfg.AmadeusMaxOffers,
		Adults:    cfg.AmadeusAdults,
	}, m, logger)
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("farewatch service starting", zap.String("addr", a.server.Addr))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := a.scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if a.bot != nil {
		g.Go(func() error {
			return a.bot.Start(ctx)
		})
	}

	a.logger.Info("farewatch service started")
	return g.Wait()
}

func (a *App) Shutdown() {
	a.logger.Info("farewatch service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to release resources", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
