package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roofleads_backend/internal/agent"
	"roofleads_backend/internal/config"
	"roofleads_backend/internal/export"
	apphttp "roofleads_backend/internal/http"
	"roofleads_backend/internal/http/router"
	"roofleads_backend/internal/leads"
	leadshandler "roofleads_backend/internal/leads/handler"
	"roofleads_backend/internal/leads/scoring"
	leadsservice "roofleads_backend/internal/leads/service"
	"roofleads_backend/internal/outreach"
	"roofleads_backend/internal/providers/geocode"
	"roofleads_backend/internal/providers/opendata"
	"roofleads_backend/internal/providers/skiptrace"
	"roofleads_backend/internal/providers/weather"
	"roofleads_backend/internal/tools"
	"roofleads_backend/platform/logger"
	"roofleads_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	val := validator.New()

	// ========================================================================
	// Providers
	// ========================================================================

	geocoder := geocode.New(log)
	weatherClient := weather.New(log)
	socrata := opendata.NewClient(log)
	tracer := skiptrace.NewService(cfg, log)
	bulk := opendata.NewBulkSearcher(tracer, cfg.OutputDir, log)
	writer := export.NewWriter(cfg.OutputDir, log)

	if !tracer.Configured() {
		log.Warn("no skip trace vendor configured; traces will return configured=false")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	scorer := scoring.New(scoring.DefaultRubric)
	leadsSvc := leadsservice.New(scorer, writer, tracer.Configured, log)
	leadsModule := leads.NewModule(leadshandler.New(leadsSvc, val))

	toolsModule := tools.NewModule(tools.NewHandler(
		geocoder, weatherClient, socrata, bulk, tracer, val,
		cfg.DefaultYearThreshold, cfg.DefaultLeadCount,
	))

	var sender *outreach.SMTPSender
	if cfg.OutreachEnabled() {
		sender = outreach.NewSMTPSender(
			cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword,
			cfg.OutreachFromAddr, cfg.OutreachFromName,
		)
		log.Info("outreach delivery enabled", "host", cfg.SMTPHost)
	}
	outreachModule := outreach.NewModule(outreach.NewHandler(sender, val, log))

	modules := []apphttp.Module{
		toolsModule,
		leadsModule,
		outreachModule,
	}

	if cfg.AgentEnabled() {
		researcher, err := agent.NewResearcher(agent.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, &agent.ToolDependencies{
			Geocoder:             geocoder,
			Weather:              weatherClient,
			Socrata:              socrata,
			Bulk:                 bulk,
			Tracer:               tracer,
			Writer:               writer,
			DefaultYearThreshold: cfg.DefaultYearThreshold,
			DefaultLeadCount:     cfg.DefaultLeadCount,
		}, log)
		if err != nil {
			log.Error("failed to initialize research agent", "error", err)
			panic("failed to initialize research agent: " + err.Error())
		}
		modules = append(modules, agent.NewModule(agent.NewHandler(researcher, val)))
		log.Info("research agent enabled", "model", cfg.OpenAIModel)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Env:          cfg.Env,
		CORSAllowAll: cfg.CORSAllowAll,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       log,
		Modules:      modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
