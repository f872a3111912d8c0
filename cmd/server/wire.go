package main

import (
	"context"
	"fmt"

	"rideadmin/internal/config"
	"rideadmin/internal/handlers"
	"rideadmin/internal/repositories/documents"
	"rideadmin/internal/services"
	"rideadmin/pkg/cache"
	"rideadmin/pkg/database"
	"rideadmin/pkg/docstore"
	"rideadmin/pkg/identity"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/notify"
	"rideadmin/pkg/storage"
	"rideadmin/pkg/websocket"
	"rideadmin/routes"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

type dependencies struct {
	handlers    *routes.Handlers
	authService services.AuthService
	hub         *websocket.Hub
}

func (d *dependencies) mount(r *gin.RouterGroup) {
	routes.SetupRoutes(r, d.handlers, d.authService)
}

// wire builds every dependency of the API. cleanup releases them in reverse
// order and must be called once the server has stopped.
func wire(ctx context.Context, cfg *config.Config, log *logger.Logger) (*dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*dependencies, func(), error) {
		cleanup()
		return nil, nil, err
	}

	firebaseApp, err := newFirebaseApp(ctx, cfg.Firebase)
	if err != nil {
		return fail(err)
	}

	store, err := newDocStore(ctx, cfg, firebaseApp, log)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close document store")
		}
	})

	sessionCache, err := newCache(ctx, cfg.Redis, log)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { sessionCache.Close() })

	provider, err := identity.NewFirebaseProvider(ctx, firebaseApp, cfg.Firebase.WebAPIKey)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize identity provider: %w", err))
	}

	notifier, err := newNotifier(ctx, cfg.Notification, firebaseApp, log)
	if err != nil {
		return fail(err)
	}

	objectStorage, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return fail(err)
	}
	if c, ok := objectStorage.(interface{ Close() error }); ok {
		closers = append(closers, func() { c.Close() })
	}

	accountRepo := documents.NewAccountRepository(store, log)
	bookingRepo := documents.NewBookingRepository(store, log)
	paymentRepo := documents.NewPaymentRepository(store, log)

	sessions := services.NewSessionStore(sessionCache, cfg.Security.SessionTTL)
	authService := services.NewAuthService(provider, accountRepo, sessions, cfg.Security.JWTSecret, log)
	navigationService := services.NewNavigationService(sessions, log)
	dashboardService := services.NewDashboardService(accountRepo, bookingRepo, paymentRepo, cfg.App.Currency, log)
	analyticsService := services.NewAnalyticsService(accountRepo, bookingRepo, paymentRepo, cfg.App.Currency, log)
	accountService := services.NewAccountService(accountRepo, bookingRepo, notifier, objectStorage, services.AccountServiceConfig{
		SearchDebounce: cfg.App.SearchDebounce,
		DocumentURLTTL: cfg.Storage.URLTTL,
	}, log)
	rideService := services.NewRideService(bookingRepo, accountRepo, log)
	reportService := services.NewReportService(services.SampleReports(), log)

	hubCtx, stopHub := context.WithCancel(ctx)
	closers = append(closers, stopHub)

	hub := websocket.NewHub(log)
	go hub.Run(hubCtx)

	revoked, stopRevocations, err := sessions.Revocations(hubCtx)
	if err != nil {
		return fail(fmt.Errorf("failed to subscribe to session revocations: %w", err))
	}
	closers = append(closers, stopRevocations)
	go hub.WatchRevocations(hubCtx, revoked)

	sockets := websocket.NewHandler(hub, websocket.HandlerConfig{
		ReadBufferSize:   cfg.WebSocket.ReadBufferSize,
		WriteBufferSize:  cfg.WebSocket.WriteBufferSize,
		HandshakeTimeout: cfg.WebSocket.HandshakeTimeout,
		MaxConnections:   cfg.WebSocket.MaxConnections,
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
	})

	return &dependencies{
		handlers: &routes.Handlers{
			Auth:     handlers.NewAuthHandler(authService, log),
			Shell:    handlers.NewShellHandler(navigationService),
			Overview: handlers.NewOverviewHandler(dashboardService, analyticsService, log),
			Accounts: handlers.NewAccountHandler(accountService, log),
			Rides:    handlers.NewRideHandler(rideService),
			Reports:  handlers.NewReportHandler(reportService),
			Live:     handlers.NewLiveHandler(dashboardService, analyticsService, accountService, sockets, log),
		},
		authService: authService,
		hub:         hub,
	}, cleanup, nil
}

func newFirebaseApp(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

func newDocStore(ctx context.Context, cfg *config.Config, app *firebase.App, log *logger.Logger) (docstore.Store, error) {
	switch cfg.DocStore.Provider {
	case config.DocStoreFirestore:
		store, err := docstore.NewFirestoreStoreFromApp(ctx, app)
		if err != nil {
			return nil, err
		}
		log.Info("Using Firestore document store")
		return store, nil

	case config.DocStoreMongoDB:
		db, err := database.NewMongoDB(ctx, &database.DatabaseConfig{
			URI:            cfg.Database.URI,
			Database:       cfg.Database.Database,
			MaxPoolSize:    cfg.Database.MaxPoolSize,
			MinPoolSize:    cfg.Database.MinPoolSize,
			ConnectTimeout: cfg.Database.ConnectTimeout,
			SocketTimeout:  cfg.Database.SocketTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := database.NewMigrator(db.Database, log).Up(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.WithField("database", cfg.Database.Database).Info("Using MongoDB document store")
		return &mongoDocStore{MongoStore: docstore.NewMongoStore(db.Database), db: db}, nil

	default:
		store := docstore.NewMemoryStore()
		if cfg.DocStore.SeedFile != "" {
			if err := store.LoadSeedFile(cfg.DocStore.SeedFile); err != nil {
				return nil, err
			}
		}
		log.WithField("seed_file", cfg.DocStore.SeedFile).Warn("Using in-memory document store")
		return store, nil
	}
}

// mongoDocStore also disconnects the client when the store is closed.
type mongoDocStore struct {
	*docstore.MongoStore
	db *database.MongoDB
}

func (s *mongoDocStore) Close() error {
	s.MongoStore.Close()
	return s.db.Close()
}

func newCache(ctx context.Context, cfg *config.RedisConfig, log *logger.Logger) (cache.Cache, error) {
	if !cfg.Enabled {
		log.Warn("Redis disabled, sessions are kept in process memory")
		return cache.NewMemoryCache(), nil
	}

	redisCache, err := cache.NewRedisCache(ctx, &cache.RedisConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		KeyPrefix:    cfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return redisCache, nil
}

func newNotifier(ctx context.Context, cfg *config.NotificationConfig, app *firebase.App, log *logger.Logger) (notify.Notifier, error) {
	notifiers := []notify.Notifier{notify.NewHTTPNotifier(cfg.Endpoint, cfg.Timeout)}

	if cfg.SNS.TopicARN != "" {
		sns, err := notify.NewSNSNotifier(ctx, cfg.SNS.Region, cfg.SNS.TopicARN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SNS notifier: %w", err)
		}
		notifiers = append(notifiers, sns)
	}

	if cfg.Twilio.Configured() {
		notifiers = append(notifiers, notify.NewTwilioNotifier(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber))
	}

	if cfg.FCM.Enabled {
		fcm, err := notify.NewFCMNotifier(ctx, app, cfg.FCM.TopicPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize FCM notifier: %w", err)
		}
		notifiers = append(notifiers, fcm)
	}

	return notify.NewFanout(log, notifiers...), nil
}

func newStorage(ctx context.Context, cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "aws":
		return storage.NewAWSS3Storage(ctx, cfg.AWS.Region, cfg.AWS.Bucket)
	case "gcp":
		return storage.NewGCPStorage(ctx, cfg.GCP.Bucket, cfg.GCP.CredentialsFile)
	default:
		return storage.NewLocalStorage(cfg.Local.BaseURL), nil
	}
}
