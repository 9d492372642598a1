package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"battle/internal/config"
	"battle/internal/database"
	"battle/internal/external"
	"battle/internal/handler"
	"battle/internal/middleware"
	"battle/internal/monitoring"
	"battle/internal/repository"
	"battle/internal/service"
)

// Version du service (à définir lors du build)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	initLogger()

	logrus.WithFields(logrus.Fields{
		"service":    "battle",
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("⚔️  Starting Battle Service...")

	// Chargement de la configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatal("Failed to load config: ", err)
	}

	// Connexion à la base de données
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	// Exécution des migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}

	// Initialisation des repositories
	battleRepo := repository.NewBattleRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	effectRepo := repository.NewEffectRepository(db)
	attackRepo := repository.NewAttackRepository(db)
	modifierRepo := repository.NewModifierRepository(db)
	resistanceRepo := repository.NewResistanceRepository(db)
	triggerRepo := repository.NewTriggerRepository(db)
	turnRepo := repository.NewTurnRepository(db)
	logRepo := repository.NewLogRepository(db)

	// Clients externes
	playerClient := external.NewPlayerClient(cfg)

	// Générateur aléatoire des jets de résistance
	seed := cfg.Battle.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Infrastructure partagée des services
	hub := service.NewHub()
	locks := service.NewBattleLockRegistry()

	// Initialisation des services
	calculator := service.NewDamageCalculator(characterRepo, modifierRepo, resistanceRepo, turnRepo, playerClient, rng)
	effectService := service.NewEffectService(battleRepo, characterRepo, effectRepo, calculator, logRepo, hub, locks, cfg.Battle)
	attackService := service.NewAttackService(battleRepo, characterRepo, attackRepo, effectService, calculator, logRepo, hub, locks)
	triggerService := service.NewTriggerService(battleRepo, characterRepo, triggerRepo, effectService, logRepo, hub, locks, cfg.Battle)
	turnService := service.NewTurnService(battleRepo, characterRepo, turnRepo, effectService, triggerService, locks)
	battleService := service.NewBattleService(battleRepo, characterRepo, effectRepo, attackRepo, modifierRepo, resistanceRepo, logRepo, triggerService, locks)

	// Initialisation des handlers
	battleHandler := handler.NewBattleHandler(battleService)
	attackHandler := handler.NewAttackHandler(attackService)
	effectHandler := handler.NewEffectHandler(effectService)
	triggerHandler := handler.NewTriggerHandler(triggerService)
	turnHandler := handler.NewTurnHandler(turnService)
	healthHandler := handler.NewHealthHandler(db)
	wsHandler := handler.NewWebSocketHandler(hub)

	// Configuration du mode Gin
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics()
	router := setupRoutes(cfg, metrics, battleHandler, attackHandler, effectHandler, triggerHandler, turnHandler, healthHandler, wsHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
			"env":  cfg.Server.Environment,
		}).Info("⚔️  Battle Service started successfully")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	gracefulShutdown(server)
}

// setupRoutes configure toutes les routes du service Battle
func setupRoutes(
	cfg *config.Config,
	metrics *monitoring.Metrics,
	battleHandler *handler.BattleHandler,
	attackHandler *handler.AttackHandler,
	effectHandler *handler.EffectHandler,
	triggerHandler *handler.TriggerHandler,
	turnHandler *handler.TurnHandler,
	healthHandler *handler.HealthHandler,
	wsHandler *handler.WebSocketHandler,
) *gin.Engine {
	router := gin.New()

	// Middleware globaux
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(metrics.Middleware())

	if cfg.RateLimit.RequestsPerMinute > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	// Routes de santé et monitoring (sans auth)
	router.GET(cfg.Monitoring.HealthPath, healthHandler.HealthCheck)
	router.GET(cfg.Monitoring.MetricsPath, gin.WrapH(metrics.Handler()))

	// Flux temps réel du journal d'audit
	router.GET("/ws/battles/:battleId", wsHandler.Serve)

	// Routes API protégées
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		// Cycle de vie des batailles
		api.POST("/battles", battleHandler.CreateBattle)
		api.GET("/battles/:battleId", battleHandler.GetBattle)
		api.POST("/battles/:battleId/end", battleHandler.EndBattle)
		api.GET("/battles/:battleId/logs", battleHandler.GetLogs)

		// Roster
		api.POST("/battles/:battleId/characters", battleHandler.AddCharacter)
		api.GET("/characters/:characterId", battleHandler.GetCharacter)

		// Pipeline d'attaque
		api.POST("/attacks", attackHandler.DeclareAttack)
		api.GET("/attacks/:attackId", attackHandler.GetAttack)
		api.POST("/attacks/:attackId/resolve", attackHandler.ResolveAttack)
		api.GET("/battles/:battleId/attacks", attackHandler.GetBattleAttacks)
		api.GET("/battles/:battleId/attacks/pending", attackHandler.GetPendingAttacks)
		api.POST("/battles/:battleId/allow-counters", attackHandler.AllowCounters)

		// Grand livre des statuts
		api.POST("/effects", effectHandler.ApplyEffect)
		api.POST("/effects/resolve", effectHandler.ResolveEffect)
		api.GET("/characters/:characterId/effects", effectHandler.GetCharacterEffects)

		// Modificateurs, résistances, immunités
		api.POST("/modifiers", battleHandler.AddModifier)
		api.DELETE("/modifiers/:modifierId", battleHandler.RemoveModifier)
		api.GET("/characters/:characterId/modifiers", battleHandler.GetCharacterModifiers)
		api.POST("/resistances", battleHandler.SetResistance)
		api.POST("/immunities", battleHandler.SetImmunity)

		// Suivi picto
		api.POST("/triggers/events", triggerHandler.HandleEvent)
		api.POST("/battles/:battleId/triggers/reset", triggerHandler.ResetTurn)
		api.GET("/battles/:battleId/triggers", triggerHandler.GetBattleTriggers)

		// Ordonnanceur de tours
		api.POST("/initiatives", turnHandler.RollInitiative)
		api.POST("/turns", turnHandler.TakeTurn)
		api.GET("/battles/:battleId/turn-order", turnHandler.GetTurnOrder)
		api.GET("/battles/:battleId/turns", turnHandler.GetHistory)
	}

	return router
}

// initLogger initialise le logger structuré
func initLogger() {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if os.Getenv("LOG_FORMAT") == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}
}

// gracefulShutdown arrête le serveur proprement
func gracefulShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down Battle Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	logrus.Info("Battle Service stopped")
}
