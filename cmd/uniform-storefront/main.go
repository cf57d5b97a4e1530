package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/auth"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/cache"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/config"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/events"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/health"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/identity"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote/firestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote/memory"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote/postgres"
	repository "github.com/aaravmahajanofficial/uniform-storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func openRemote(ctx context.Context, cfg *config.Config) (remote.Client, error) {
	switch cfg.Remote.Driver {
	case "postgres":
		return postgres.Open(ctx, &cfg.Database)
	case "memory":
		return memory.New(), nil
	default:
		return firestore.New(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	}
}

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	// Tracing
	shutdownTracing, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Remote store
	remoteClient, err := openRemote(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the remote store", slog.String("driver", cfg.Remote.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := remoteClient.Close(); err != nil {
			slog.Error("⚠️ Error closing remote store", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Remote store closed")
		}
	}()

	// Redis setup, local device store, catalog cache and login limiter
	var (
		redisClient  *redis.Client
		deviceStore  devicestore.Store
		catalogCache cache.Cache
		limiter      repository.RateLimitRepository
	)

	if cfg.Device.Driver == "redis" {
		redisClient, err = repository.NewRedisClient(cfg)
		if err != nil {
			slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()

		deviceStore = devicestore.NewRedisStore(redisClient, cfg.Device.TTL)
		catalogCache = cache.NewRedisCache(redisClient, &cfg.Cache)
		limiter = repository.NewRateLimitRepo(redisClient, cfg.RateConfig)
	} else {
		slog.Warn("Device store is in-memory, local carts are lost on restart")
		deviceStore = devicestore.NewMemoryStore()
	}

	// Auth provider
	var (
		verifier auth.TokenVerifier
		signer   auth.PasswordSigner
	)

	if cfg.Firebase.ProjectID != "" {
		firebaseVerifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			slog.Error("❌ Error initialising firebase auth", slog.String("error", err.Error()))
			os.Exit(1)
		}
		verifier = firebaseVerifier
	}

	if cfg.Firebase.APIKey != "" {
		passwordSigner, err := auth.NewIdentityToolkitSigner(ctx, cfg.Firebase.APIKey)
		if err != nil {
			slog.Error("❌ Error initialising password sign-in", slog.String("error", err.Error()))
			os.Exit(1)
		}
		signer = passwordSigner
	}

	// Change notifications
	bus := events.NewBus()
	bus.Subscribe(func(e events.Event) { metrics.ObserveChangeEvent(string(e.Topic)) })

	// Repositories and services
	resolver := identity.NewResolver(auth.ContextProvider{}, deviceStore)

	cartBackends := service.Backends[models.CartItem]{
		Schema: repository.CartSchema,
		Local:  repository.NewLocalRepo(deviceStore, repository.CartSchema, time.Now),
		Remote: repository.NewRemoteRepo(remoteClient, repository.CartSchema, cfg.Remote.Timeout),
	}
	wishlistBackends := service.Backends[models.WishlistItem]{
		Schema: repository.WishlistSchema,
		Local:  repository.NewLocalRepo(deviceStore, repository.WishlistSchema, time.Now),
		Remote: repository.NewRemoteRepo(remoteClient, repository.WishlistSchema, cfg.Remote.Timeout),
	}

	cartService := service.NewCartService(resolver, cartBackends, bus)
	wishlistService := service.NewWishlistService(resolver, wishlistBackends, bus)
	badgeService := service.NewBadgeService(cartService, wishlistService)
	reconciler := service.NewSyncReconciler(resolver, cartBackends, wishlistBackends, bus, cfg.Sync)
	authService := service.NewAuthService(signer, limiter, reconciler)
	catalogService := service.NewCatalogService(remoteClient, catalogCache, cfg.Cache.DefaultTTL, cfg.Remote.Timeout)

	cartHandler := handlers.NewCartHandler(cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	badgeHandler := handlers.NewBadgeHandler(badgeService, bus, resolver)
	authHandler := handlers.NewAuthHandler(authService, reconciler)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Remote: remoteClient})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authMiddleware := middleware.NewAuthMiddleware(verifier)
	deviceSession := middleware.NewDeviceSession([]byte(cfg.Security.JWTKey), cfg.Security.DeviceSessionTTL)

	// store routes act for the device partition, or the signed-in user when a bearer token is sent
	store := func(h http.HandlerFunc) http.Handler {
		return deviceSession.Handle(authMiddleware.Authenticate(h))
	}

	slog.Info("storage initialized",
		slog.String("env", cfg.Env),
		slog.String("remote", cfg.Remote.Driver),
		slog.String("device", cfg.Device.Driver),
		slog.String("version", "1.0.0"),
	)

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.Handle("POST /api/v1/auth/login", store(authHandler.Login()))
	routerMux.Handle("POST /api/v1/sync", store(authHandler.Sync()))
	routerMux.Handle("GET /api/v1/cart", store(cartHandler.GetCart()))
	routerMux.Handle("POST /api/v1/cart/items", store(cartHandler.AddItem()))
	routerMux.Handle("PATCH /api/v1/cart/items", store(cartHandler.UpdateQuantity()))
	routerMux.Handle("DELETE /api/v1/cart/items", store(cartHandler.RemoveItem()))
	routerMux.Handle("GET /api/v1/cart/contains", store(cartHandler.Contains()))
	routerMux.Handle("GET /api/v1/wishlist", store(wishlistHandler.GetWishlist()))
	routerMux.Handle("POST /api/v1/wishlist/items", store(wishlistHandler.AddItem()))
	routerMux.Handle("POST /api/v1/wishlist/toggle", store(wishlistHandler.Toggle()))
	routerMux.Handle("DELETE /api/v1/wishlist/items/{productId}", store(wishlistHandler.RemoveItem()))
	routerMux.Handle("GET /api/v1/wishlist/items/{productId}", store(wishlistHandler.Contains()))
	routerMux.Handle("GET /api/v1/badges", store(badgeHandler.GetBadges()))
	routerMux.Handle("GET /api/v1/events", store(badgeHandler.Events()))
	routerMux.HandleFunc("GET /api/v1/uniforms", catalogHandler.ListUniforms())
	routerMux.HandleFunc("GET /api/v1/uniforms/recent", catalogHandler.RecentUniforms())
	routerMux.HandleFunc("GET /api/v1/uniforms/top-rated", catalogHandler.TopRatedUniforms())
	routerMux.HandleFunc("GET /api/v1/uniforms/{id}", catalogHandler.GetUniform())
	routerMux.HandleFunc("GET /api/v1/schools", catalogHandler.ListSchools())
	routerMux.HandleFunc("GET /api/v1/schools/{id}", catalogHandler.GetSchool())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "uniform-storefront")

	// Open event streams end when the base context is cancelled on shutdown.
	baseCtx, cancelStreams := context.WithCancel(ctx)
	defer cancelStreams()

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelStreams)

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}

}
