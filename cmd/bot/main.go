// Package main is the entry point for the PancyMod Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/internal/events"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/metrics"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/settings"
	"github.com/PancyStudios/PancyModGo/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// status adapts the database and lifecycle to the /utils status command
type status struct {
	db        *database.Database
	lifecycle *moderation.Lifecycle
}

func (s status) Database() (string, bool) { return s.db.GetStatus() }

func (s status) PendingSanctions() int { return s.lifecycle.Pending() }

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando PancyMod Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				logger.Error(fmt.Sprintf("Error cerrando sesión: %v", err), "Main")
			}
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		logger.Debug(fmt.Sprintf("Error connecting to database: %v", cfg.MongoDBURL), "Main")
		// Continue without database- it will attempt to reconnect
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := db.EnsureIndexes(ctx); err != nil {
			logger.Warn(fmt.Sprintf("Error creando índices: %v", err), "Main")
		}
		cancel()
	}
	defer func() {
		if err := db.Disconnect(); err != nil {
			logger.Error(fmt.Sprintf("Error desconectando la base de datos: %v", err), "Main")
		}
	}()

	settingsRepo := database.NewSettingsRepository(db)
	sanctionRepo := database.NewSanctionRepository(db)
	guildRepo := database.NewGuildRepository(db)

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	platform := discord.NewSessionPlatform(discordClient.Session)

	store := settings.NewStore(settingsRepo, settings.DefaultTable(cfg.DefaultPrefix),
		settings.WithChannels(platform),
		settings.WithRoles(platform),
	)
	policy := moderation.NewPolicy(cfg.OperatorIDs)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	counters := metrics.New(registry)

	// Initialize MQTT
	mqttClientID := "pancymod"
	if !cfg.IsProd() {
		mqttClientID = "pancymod_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	observers := moderation.Observers{counters, mqtt.NewSanctionPublisher(mqttClient)}

	// Sanction lifecycle
	lifecycle := moderation.NewLifecycle(sanctionRepo, platform, moderation.SystemClock{}, moderation.LifecycleOptions{
		Observer: observers,
	})
	defer lifecycle.Stop()

	orchestrator := moderation.NewOrchestrator(platform, sanctionRepo, store, lifecycle, policy, moderation.OrchestratorOptions{
		Observer: observers,
		Guilds:   guildRepo,
	})

	if db.Connected() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if res, err := lifecycle.Recover(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error recuperando sanciones pendientes: %v", err), "Main")
		} else {
			logger.Info(fmt.Sprintf("Sanciones recuperadas: %d programadas, %d revertidas, %d fallidas", res.Scheduled, res.Reversed, res.Failed), "Main")
		}
		cancel()
	}

	sweeper := moderation.NewSweeper(lifecycle, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	metrics.RegisterPending(registry, lifecycle.Pending)

	mqttClient.On("sanctions/pending", func(map[string]interface{}) (interface{}, error) {
		return map[string]int{"pending": lifecycle.Pending()}, nil
	})

	// Initialize web server
	webServer := web.Init(cfg.LogsWebServerHook, cfg.AllowedHosts)
	web.SetupAPIRoutes(webServer, &web.API{
		Database:  db,
		Bot:       discordClient,
		Guilds:    guildRepo,
		Settings:  store,
		Sanctions: sanctionRepo,
		Pending:   lifecycle.Pending,
		Gatherer:  registry,
	})
	webServer.StartAsync(cfg.Port)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := webServer.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error apagando el servidor web: %v", err), "Main")
		}
	}()

	discordClient.IsOperator = policy.IsOperator
	discordClient.DatabaseReady = db.Connected
	discordClient.OnCommand = counters.CommandHandled

	// Register commands using the commands package
	commands.RegisterAll(discordClient, commands.Services{
		Moderator: orchestrator,
		Settings:  store,
		Sweeper:   sweeper,
		Status:    status{db: db, lifecycle: lifecycle},
		SetDebug:  logger.SetDebug,
	})

	// Register events using the events package
	events.RegisterAll(discordClient, events.Services{
		Guilds:   guildRepo,
		Mutes:    orchestrator,
		Prefixes: store,
	})

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Error(fmt.Sprintf("Error cerrando sesión: %v", err), "Main")
		}
	}()

	logger.Success("PancyMod Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyMod Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
