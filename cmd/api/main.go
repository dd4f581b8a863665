package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"

	"github.com/digireceipt/digireceipt-go/internal/analysis"
	"github.com/digireceipt/digireceipt-go/internal/config"
	"github.com/digireceipt/digireceipt-go/internal/crypto"
	"github.com/digireceipt/digireceipt-go/internal/handler"
	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/notify"
	"github.com/digireceipt/digireceipt-go/internal/oauth"
	"github.com/digireceipt/digireceipt-go/internal/ocr"
	"github.com/digireceipt/digireceipt-go/internal/otp"
	"github.com/digireceipt/digireceipt-go/internal/repository"
	"github.com/digireceipt/digireceipt-go/internal/service"
	"github.com/digireceipt/digireceipt-go/internal/storage"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	log := logging.New(os.Stdout, cfg.IsProduction())
	ctx := context.Background()
	if envErr != nil {
		log.Warn(ctx, "no .env file found, using environment variables")
	}
	if err != nil {
		log.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		log.Error(ctx, "database migration failed", "error", err)
		os.Exit(1)
	}

	codes, closeCodes := newOTPStore(cfg)
	defer closeCodes()

	var sms notify.SMSVerifier
	if cfg.TwilioConfigured() {
		sms = notify.NewTwilioVerifier(notify.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			ServiceSID: cfg.TwilioServiceSID,
			Timeout:    cfg.ProviderTimeout,
		})
	} else {
		log.Warn(ctx, "twilio not configured, SMS codes are logged")
		sms = notify.NewLocalVerifier(codes, log)
	}

	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			SSL:      cfg.SMTPSSL,
			Timeout:  cfg.ProviderTimeout,
		})
	} else {
		log.Warn(ctx, "smtp not configured, email codes are logged")
		mailer = notify.NewLogMailer(log)
	}

	opts := service.ReceiptOptions{StrictOwnership: cfg.StrictReceiptOwnership}

	var ai *openai.Client
	if cfg.OpenAIAPIKey != "" {
		ai = openai.NewClient(cfg.OpenAIAPIKey)
		opts.Analyzer = analysis.NewOpenAIAnalyzer(ai, cfg.OpenAIModel, cfg.ProviderTimeout)
	} else {
		log.Warn(ctx, "openai not configured, receipt analysis disabled")
	}

	opts.Extractor = newExtractor(ctx, cfg, ai, log)

	if cfg.S3Bucket != "" {
		archive, err := storage.NewS3Archive(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Timeout:   cfg.ProviderTimeout,
		})
		if err != nil {
			log.Error(ctx, "s3 archive setup failed", "error", err)
			os.Exit(1)
		}
		opts.Archive = archive
	}

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(
		userRepo,
		codes,
		sms,
		mailer,
		oauth.NewGoogleClient(cfg.GoogleUserInfoURL, cfg.ProviderTimeout),
		crypto.TokenConfig{
			Key:      cfg.JWTKey,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			Expiry:   cfg.JWTExpiry(),
		},
		log,
	)
	profileService := service.NewProfileService(repository.NewProfileRepository(db), log)
	receiptService := service.NewReceiptService(repository.NewReceiptRepository(db), opts, log)

	r := handler.NewRouter(handler.Handlers{
		Auth:    handler.NewAuthHandler(authService, log),
		Profile: handler.NewProfileHandler(profileService, authService, log),
		Receipt: handler.NewReceiptHandler(receiptService, log),
		Authn:   authService,
		Log:     log,

		TrustProxy: cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info(ctx, "server stopped")
}

// newExtractor picks the OCR backend named by OCR_PROVIDER. The OpenAI
// backend needs a client; without one the stub is used.
func newExtractor(ctx context.Context, cfg config.Config, ai *openai.Client, log logging.Logger) ocr.Extractor {
	if cfg.OCRProvider == "openai" {
		if ai != nil {
			return ocr.NewOpenAIExtractor(ai, cfg.OpenAIModel, cfg.ProviderTimeout)
		}
		log.Warn(ctx, "OCR_PROVIDER is openai but OPENAI_API_KEY is empty, receipts are faked by the stub extractor")
	}
	return ocr.NewStubExtractor(uint64(time.Now().UnixNano()))
}

// newOTPStore picks the code store named by OTP_STORE.
func newOTPStore(cfg config.Config) (otp.Store, func()) {
	if cfg.OTPStore != "redis" {
		return otp.NewMemoryStore(cfg.OTPTTL), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return otp.NewRedisStore(client, cfg.OTPTTL), func() { client.Close() }
}
