package bootstrap

import (
	"context"
	"log"

	"creative-flow-be/internal/config"
	"creative-flow-be/internal/controller"
	"creative-flow-be/internal/pkg/logger"
	"creative-flow-be/internal/pkg/mailer"
	"creative-flow-be/internal/repository/unitofwork"
	"creative-flow-be/internal/service"

	pktNats "creative-flow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const inviteTopic = "waitlist.invites"

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	BillingController  controller.IBillingController
	WaitlistController controller.IWaitlistController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 3. Services
	publisherService := service.NewPublisherService(inviteTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, inviteTopic, emailService)

	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	capacityService := service.NewCapacityService(uowFactory, rdb, cfg.Billing.MaxPaidUsers)
	waitlistService := service.NewWaitlistService(uowFactory, eventPublisher, sysLogger)
	billingService := service.NewBillingService(
		uowFactory,
		capacityService,
		waitlistService,
		emailService,
		eventPublisher,
		cfg.Billing,
		sysLogger,
	)
	notifierService := service.NewNotifierService(
		uowFactory,
		capacityService,
		publisherService,
		eventPublisher,
		sysLogger,
	)
	authService := service.NewAuthService(uowFactory, cfg.Auth.JWTSecret)
	adminService := service.NewAdminService(uowFactory, capacityService)

	// 4. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		BillingController:  controller.NewBillingController(billingService, cfg.Billing, sysLogger),
		WaitlistController: controller.NewWaitlistController(waitlistService, capacityService),
		AdminController: controller.NewAdminController(
			adminService,
			waitlistService,
			notifierService,
			cfg.Billing.WaitlistNotifyWindowDays,
		),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
