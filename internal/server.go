package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/liftado/liftado/internal/auth"
	"github.com/liftado/liftado/internal/coaching"
	"github.com/liftado/liftado/internal/coaching/deload"
	"github.com/liftado/liftado/internal/coaching/fatigue"
	"github.com/liftado/liftado/internal/coaching/signals"
	"github.com/liftado/liftado/internal/coaching/suggest"
	"github.com/liftado/liftado/internal/config"
	"github.com/liftado/liftado/internal/db"
	"github.com/liftado/liftado/internal/metrics"
	"github.com/liftado/liftado/internal/middleware"
	"github.com/liftado/liftado/internal/training"
	"github.com/liftado/liftado/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// signal cache size in bytes, small on purpose, entries are tiny
const signalCacheSize = 10 * 1024 * 1024

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker

	trainingRepo *training.Repo
	aggregator   *signals.Aggregator
	fatigue      *fatigue.Scorer
	deloadPolicy *deload.Policy
	suggester    *suggest.Engine

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config        *config.Config
	VersionInfo   string
	RedisPassword string
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.DBHost,
		DBPort:         params.Config.DBPort,
		DBName:         params.Config.DBName,
		TracingEnabled: params.Config.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.DBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("liftado", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	sessionTTL := auth.DefaultTTL
	if params.Config.LoginSessionTTLMinutes > 0 {
		sessionTTL = time.Duration(params.Config.LoginSessionTTLMinutes) * time.Minute
	}

	trainingRepo := training.NewRepo(dbPool)

	signalsCfg := signals.DefaultConfig()
	if params.Config.DefaultTargetWeeklySessions > 0 {
		signalsCfg.DefaultTargetWeeklySessions = params.Config.DefaultTargetWeeklySessions
	}
	aggregator := signals.NewAggregator(trainingRepo, freecache.NewCache(signalCacheSize), signalsCfg)

	scorer := fatigue.NewScorer(aggregator, fatigue.DefaultConfig())

	deloadCfg := deload.DefaultConfig()
	if params.Config.DeloadCooldownDays > 0 {
		deloadCfg.CooldownDays = params.Config.DeloadCooldownDays
	}
	deloadPolicy := deload.NewPolicy(deload.NewRepo(dbPool), scorer, deloadCfg)

	suggester := suggest.NewEngine(trainingRepo, deloadPolicy, suggest.DefaultConfig())

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,

		redisClient:  rdb,
		loginChecker: auth.NewLoginChecker(sessionTTL, rdb),

		trainingRepo: trainingRepo,
		aggregator:   aggregator,
		fatigue:      scorer,
		deloadPolicy: deloadPolicy,
		suggester:    suggester,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("liftado-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "liftado backend")
	}).Methods("GET").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	trainingHandler := training.NewHandler(s.trainingRepo, s.metricsManager)
	trainingHandler.SetupRoutes(r)

	coachingHandler := coaching.NewHandler(
		s.aggregator,
		s.fatigue,
		s.deloadPolicy,
		s.suggester,
		s.metricsManager,
	)
	coachingHandler.SetupRoutes(r)

	// starting and ending deloads is cheap to abuse, rate limit it
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	rateLimit := middleware.RateLimit(
		reqRateLimiter,
		"deload",
		s.config.DeloadRateLimitAllowedPerMin,
		s.metricsManager,
	)
	for _, routeName := range []string{"start-deload", "end-deload"} {
		route := r.Get(routeName)
		if route == nil {
			continue
		}
		route.Handler(rateLimit(route.GetHandler()))
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}
