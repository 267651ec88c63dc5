package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/latinum-ai/mercator/internal/catalog"
	"github.com/latinum-ai/mercator/internal/checkout"
	"github.com/latinum-ai/mercator/internal/config"
	"github.com/latinum-ai/mercator/internal/facilitator"
	"github.com/latinum-ai/mercator/internal/flights"
	"github.com/latinum-ai/mercator/internal/http_api"
	"github.com/latinum-ai/mercator/internal/notificator"
	"github.com/latinum-ai/mercator/internal/repository"
	"github.com/latinum-ai/mercator/internal/tools"
	"github.com/latinum-ai/mercator/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "mercator",
		Usage: "Mercator is an agent commerce tool server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "facilitator-url", Aliases: []string{"f"}, Usage: "Payment facilitator URL"},
			&cli.StringFlag{Name: "seller-wallet", Aliases: []string{"s"}, Usage: "Seller wallet address"},
			&cli.StringFlag{Name: "wallet-uuid", Aliases: []string{"w"}, Usage: "Buyer wallet UUID"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "API port"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("facilitator-url") {
		cfg.FacilitatorURL = c.String("facilitator-url")
	}
	if c.IsSet("seller-wallet") {
		cfg.SellerWallet = c.String("seller-wallet")
	}
	if c.IsSet("wallet-uuid") {
		cfg.WalletUUID = c.String("wallet-uuid")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize facilitator client
	facilitatorClient := facilitator.NewClient(cfg.FacilitatorURL, cfg.HTTPTimeout, log)

	// Initialize notificator (Telegram admin alerts are optional)
	var telegramNotificator *notificator.TelegramNotificator
	if cfg.TelegramBotToken != "" {
		telegramNotificator, err = notificator.NewTelegramNotificator(log, cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notificator: %v", err)
		}
	}
	notif := notificator.NewNotificator(log, cfg.AdminEmails, telegramNotificator, cfg.TelegramAdminChatID)

	// Initialize outbox dispatcher
	emailSender := notificator.NewEmailNotificator(log, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender)
	dispatcher := notificator.NewOutboxDispatcher(db, emailSender, log, notificator.DispatchInterval)

	// Create services
	checkoutService := checkout.NewCheckout(db, facilitatorClient, notif, log, cfg)
	catalogService := catalog.NewCatalog(db, cfg.HTTPTimeout, log)
	flightClient := flights.NewClient(cfg.FlightAPIURL, cfg.HTTPTimeout, log)

	// Register tools
	registry := tools.NewRegistry(
		tools.NewFindProductsTool(catalogService, cfg.SellerWallet),
		tools.NewBuyProductsTool(checkoutService),
		tools.NewFindFlightsTool(flightClient),
	)

	apiServer := http_api.NewHTTPServer(registry, cfg.APIPort, log)

	dispatcher.Start()
	defer dispatcher.Stop()

	// Start the server
	apiServer.Start()

	return nil
}
