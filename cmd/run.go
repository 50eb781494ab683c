package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"timeclock/bot"
	"timeclock/config"
	"timeclock/database"
	"timeclock/events"
	"timeclock/payment"
	"timeclock/repository"
	"timeclock/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting timeclock bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// The Discord session is created before the bot so the role provider can
	// share it with the rate service.
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Initialize services
	log.Println("Initializing services...")
	locks := service.NewMemberLocks()
	roleProvider := bot.NewRoleProvider(dg)
	paymentClient := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentTimeout)

	rateService := service.NewRateService(uowFactory, roleProvider)
	ledgerService := service.NewLedgerService(uowFactory, rateService, locks)
	sessionService := service.NewSessionService(uowFactory, rateService, locks)
	claimService := service.NewClaimService(uowFactory, paymentClient, locks)
	guildConfigService := service.NewGuildConfigService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token: cfg.DiscordToken,
	}
	discordBot, err := bot.New(botConfig, dg, ledgerService, sessionService, claimService, rateService, guildConfigService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start the stale session sweeper
	sweeper := service.NewSweeper(uowFactory, sessionService, cfg.SweepInterval, cfg.StaleSessionAge)
	stopSweeper := sweeper.Start(ctx)

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	stopSweeper()

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
