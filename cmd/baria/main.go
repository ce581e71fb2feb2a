package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/baria-bot/baria/internal/api"
	"github.com/baria-bot/baria/internal/dialog"
	"github.com/baria-bot/baria/internal/genai"
	"github.com/baria-bot/baria/internal/messaging"
	"github.com/baria-bot/baria/internal/scheduler"
	"github.com/baria-bot/baria/internal/session"
	"github.com/baria-bot/baria/internal/store"
	"github.com/baria-bot/baria/internal/telegram"
	"github.com/baria-bot/baria/internal/twiliowhatsapp"
	"github.com/baria-bot/baria/internal/util"
	"github.com/baria-bot/baria/internal/whatsapp"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for BarIA state data
	DefaultStateDir = "/var/lib/baria"
	// DefaultDBFileName is the default SQLite database filename for reports
	DefaultDBFileName = "baria.db"
	// DefaultWhatsmeowDBFileName is the default SQLite database for the
	// whatsmeow session store
	DefaultWhatsmeowDBFileName = "whatsmeow.db"
	// DefaultTransport is used when no transport is configured
	DefaultTransport = "telegram"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	slog.Info("Bootstrapping BarIA", "transport", *flags.transport)
	if err := run(flags); err != nil {
		slog.Error("BarIA failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("BarIA exited successfully")
}

// Config holds environment configuration
type Config struct {
	Transport        string
	StateDir         string
	DatabaseURL      string
	WhatsAppDSN      string
	TelegramToken    string
	OpenAIKey        string
	APIAddr          string
	SessionRetention string
}

// Flags holds command line flag values
type Flags struct {
	transport        *string
	qrOutput         *string
	numeric          *bool
	stateDir         *string
	dbDSN            *string
	whatsappDSN      *string
	telegramToken    *string
	openaiKey        *string
	apiAddr          *string
	sessionRetention *string
}

// initializeLogger sets up structured logging; BARIA_DEBUG enables debug level
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("BARIA_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		Transport:        os.Getenv("BARIA_TRANSPORT"),
		StateDir:         os.Getenv("BARIA_STATE_DIR"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		WhatsAppDSN:      os.Getenv("WHATSAPP_DB_DSN"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		APIAddr:          os.Getenv("API_ADDR"),
		SessionRetention: os.Getenv("SESSION_RETENTION"),
	}

	if config.Transport == "" {
		config.Transport = DefaultTransport
		slog.Debug("No BARIA_TRANSPORT set, using default", "transport", config.Transport)
	}
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No BARIA_STATE_DIR set, using default", "state_dir", config.StateDir)
	}

	// Default report storage to SQLite in the state directory.
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No DATABASE_URL provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}
	// The whatsmeow session store gets its own database unless configured.
	if config.WhatsAppDSN == "" {
		config.WhatsAppDSN = filepath.Join(config.StateDir, DefaultWhatsmeowDBFileName)
	}

	slog.Debug("environment variables loaded",
		"BARIA_TRANSPORT", config.Transport,
		"BARIA_STATE_DIR", config.StateDir,
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"WHATSAPP_DB_DSN_SET", config.WhatsAppDSN != "",
		"TELEGRAM_BOT_TOKEN_SET", config.TelegramToken != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"SESSION_RETENTION", config.SessionRetention)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		transport:        flag.String("transport", config.Transport, "message transport: telegram, whatsapp or twilio (overrides $BARIA_TRANSPORT)"),
		qrOutput:         flag.String("qr-output", "", "path to write WhatsApp login QR code"),
		numeric:          flag.Bool("numeric-code", false, "use numeric WhatsApp login code instead of QR code"),
		stateDir:         flag.String("state-dir", config.StateDir, "state directory for BarIA data (overrides $BARIA_STATE_DIR)"),
		dbDSN:            flag.String("db-dsn", config.DatabaseURL, "database DSN for intake reports (overrides $DATABASE_URL)"),
		whatsappDSN:      flag.String("whatsapp-db-dsn", config.WhatsAppDSN, "database DSN for the whatsmeow session store (overrides $WHATSAPP_DB_DSN)"),
		telegramToken:    flag.String("telegram-token", config.TelegramToken, "Telegram bot token (overrides $TELEGRAM_BOT_TOKEN)"),
		openaiKey:        flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key for the Answer Service (overrides $OPENAI_API_KEY)"),
		apiAddr:          flag.String("api-addr", config.APIAddr, "operator API server address (overrides $API_ADDR)"),
		sessionRetention: flag.String("session-retention", config.SessionRetention, "idle session retention, e.g. 24h (overrides $SESSION_RETENTION)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"transport", *flags.transport,
		"qrOutput", *flags.qrOutput,
		"numeric", *flags.numeric,
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"whatsappDSN_set", *flags.whatsappDSN != "",
		"telegramTokenSet", *flags.telegramToken != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"sessionRetention", *flags.sessionRetention)

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	for _, dsn := range []string{*flags.dbDSN, *flags.whatsappDSN} {
		if dsn == "" || store.DetectDSNType(dsn) == "postgres" {
			continue
		}
		dir := filepath.Dir(dsn)
		slog.Debug("Creating state directory for file-based database", "state_dir", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory %s: %w", dir, err)
		}
	}
	return nil
}

// buildSessionOptions constructs session store configuration options
func buildSessionOptions(flags Flags) ([]session.Option, error) {
	var opts []session.Option
	if *flags.sessionRetention != "" {
		d, err := time.ParseDuration(*flags.sessionRetention)
		if err != nil {
			return nil, fmt.Errorf("invalid session retention %q: %w", *flags.sessionRetention, err)
		}
		opts = append(opts, session.WithRetention(d))
	}
	return opts, nil
}

// buildEngineOptions constructs dialogue engine configuration options
func buildEngineOptions(flags Flags, reports store.Store) []dialog.Option {
	opts := []dialog.Option{dialog.WithReportStore(reports)}
	if *flags.openaiKey != "" {
		answerer, err := genai.NewClient(genai.WithAPIKey(*flags.openaiKey))
		if err != nil {
			slog.Warn("Answer Service unavailable, canned answers only", "error", err)
		} else {
			opts = append(opts, dialog.WithAnswerer(answerer))
		}
	} else {
		slog.Info("No OpenAI API key configured, canned answers only")
	}
	return opts
}

// buildWhatsAppOptions constructs WhatsApp client configuration options
func buildWhatsAppOptions(flags Flags) []whatsapp.Option {
	var opts []whatsapp.Option
	if *flags.qrOutput != "" {
		opts = append(opts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
	}
	if *flags.numeric {
		opts = append(opts, whatsapp.WithNumericCode())
	}
	if *flags.whatsappDSN != "" {
		opts = append(opts, whatsapp.WithDBDSN(*flags.whatsappDSN))
	}
	return opts
}

// buildTransport creates the configured messaging service. The returned
// handler is non-nil only for transports that receive inbound messages over
// HTTP (Twilio).
func buildTransport(flags Flags) (messaging.Service, http.HandlerFunc, error) {
	switch strings.ToLower(*flags.transport) {
	case "telegram":
		bot, err := telegram.NewClient(telegram.WithToken(*flags.telegramToken))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Telegram client: %w", err)
		}
		return messaging.NewTelegramService(bot), nil, nil
	case "whatsapp":
		client, err := whatsapp.NewClient(buildWhatsAppOptions(flags)...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		return messaging.NewWhatsAppService(client), nil, nil
	case "twilio":
		client, err := twiliowhatsapp.NewClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Twilio client: %w", err)
		}
		svc := messaging.NewTwilioService(client)
		return svc, svc.WebhookHandler, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport %q (expected telegram, whatsapp or twilio)", *flags.transport)
	}
}

// run wires the modules together and blocks until shutdown.
func run(flags Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionOpts, err := buildSessionOptions(flags)
	if err != nil {
		return err
	}
	sessions := session.NewStore(sessionOpts...)

	reports, err := store.NewFromDSN(*flags.dbDSN)
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}
	defer reports.Close()

	engine := dialog.NewEngine(sessions, buildEngineOptions(flags, reports)...)

	svc, twilioWebhook, err := buildTransport(flags)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	defer svc.Stop()

	dispatcher := messaging.NewDispatcher(svc, engine)
	go dispatcher.Run(ctx)
	defer dispatcher.Wait()

	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if err := sched.AddEvery(scheduler.DefaultSweepInterval, func() { sessions.Sweep() }); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	apiOpts := []api.Option{
		api.WithSessionStore(sessions),
		api.WithReportStore(reports),
	}
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if twilioWebhook != nil {
		apiOpts = append(apiOpts, api.WithTwilioWebhook(twilioWebhook))
	}
	server, err := api.NewServer(apiOpts...)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	return server.Run(ctx)
}
