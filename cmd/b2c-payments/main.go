package main

import (
	// Go Internal Packages
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Local Packages
	config "mpesa-b2c/config"
	daraja "mpesa-b2c/daraja"
	errors "mpesa-b2c/errors"
	helpers "mpesa-b2c/helpers"
	models "mpesa-b2c/models"
	mongodb "mpesa-b2c/repositories/mongodb"
	redis "mpesa-b2c/repositories/redis"
	batch "mpesa-b2c/services/batch"
	payments "mpesa-b2c/services/payments"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var (
	configPath = kingpin.Flag("config", "Path to the application config file").Short('c').Default("config.yml").String()
	payment    = kingpin.Flag("payment", "Payment record to operate on").Required().String()
	create     = kingpin.Flag("create", "Create the payment as a draft before running the other operations").Bool()
	command    = kingpin.Flag("command", "Command id for a new payment").Default(string(models.SalaryPayment)).String()
	amount     = kingpin.Flag("amount", "Disbursement amount for a new payment").Float64()
	doctype    = kingpin.Flag("doctype", "Source doctype to rebuild the batch from").String()
	fromDate   = kingpin.Flag("from", "Date window start, exclusive (YYYY-MM-DD)").String()
	toDate     = kingpin.Flag("to", "Date window end, inclusive (YYYY-MM-DD)").String()
	party      = kingpin.Flag("party", "Beneficiary to resolve onto the payment").String()
	commit     = kingpin.Flag("commit", "Validate and commit the payment").Bool()
	initiate   = kingpin.Flag("initiate", "Submit the payment to the gateway").Bool()
)

// LoadSecrets Loads the secret variables and overrides the config
func LoadSecrets(k config.Config) config.Config {
	MongoURI := os.Getenv("MONGO_URI")
	if MongoURI != "" {
		k.Mongo.URI = MongoURI
	}

	RedisURI := os.Getenv("REDIS_URI")
	if RedisURI != "" {
		k.Redis.URI = RedisURI
	}

	ConsumerKey := os.Getenv("DARAJA_CONSUMER_KEY")
	if ConsumerKey != "" {
		k.Daraja.ConsumerKey = ConsumerKey
	}

	ConsumerSecret := os.Getenv("DARAJA_CONSUMER_SECRET")
	if ConsumerSecret != "" {
		k.Daraja.ConsumerSecret = ConsumerSecret
	}

	IsProdMode := os.Getenv("IS_PROD_MODE")
	if IsProdMode != "" {
		k.IsProdMode = IsProdMode == "true"
	}
	return k
}

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag
func LoadConfig() *koanf.Koanf {
	kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k
}

func main() {
	k := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Update and Validate config before running
	updatedKonf := LoadSecrets(appKonf)
	if err = updatedKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = updatedKonf.Application
	cfg.OutputPaths = []string{"stdout"}
	logger, _ := cfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, updatedKonf.Mongo.URI)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}

	// Redis Connection
	redisClient, err := redis.Connect(ctx, updatedKonf.Redis.URI, updatedKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}

	paymentsRepo := mongodb.NewPaymentsRepository(mongoClient, updatedKonf.Mongo.Database)
	sourceRepo := mongodb.NewSourceRepository(mongoClient, updatedKonf.Mongo.Database)
	tokenRepo := redis.NewTokenRepository(redisClient)

	authenticator := daraja.NewAuthenticator(updatedKonf.Daraja, updatedKonf.Payments.SettingName, tokenRepo, logger)
	gateway := daraja.NewClient(updatedKonf.Daraja, authenticator, logger)

	builder := batch.NewBuilder(logger, sourceRepo, paymentsRepo)
	stateMachine := payments.NewService(logger, paymentsRepo, gateway, updatedKonf.Payments.MinAmount)

	if *create {
		partyType, ok := models.PartyTypeFor(models.CommandID(*command))
		if !ok {
			logger.Fatal("unknown command id", zap.String("command", *command))
		}
		draft := &models.B2CPayment{
			Name:      *payment,
			CommandID: models.CommandID(*command),
			PartyType: partyType,
			Amount:    *amount,
		}
		if err = paymentsRepo.Create(ctx, draft); err != nil {
			logger.Fatal("cannot create payment", zap.String("payment", *payment), zap.Error(err))
		}
	}

	record, err := paymentsRepo.Get(ctx, *payment)
	if err != nil {
		logger.Fatal("cannot load payment", zap.String("payment", *payment), zap.Error(err))
	}

	if *doctype != "" {
		start, end := parseWindow(logger)
		err = builder.Rebuild(ctx, record, models.SourceDocType(*doctype), start, end)
		if err != nil {
			if errors.IsKind(err, errors.NotFound) {
				logger.Warn("no records fetched for the date filters specified",
					zap.String("doctype", *doctype))
			} else {
				logger.Fatal("cannot rebuild batch", zap.Error(err))
			}
		}
	}

	if *party != "" {
		if err = builder.SetPartyFromSelection(ctx, record, *party); err != nil {
			logger.Fatal("cannot resolve party", zap.String("party", *party), zap.Error(err))
		}
	}

	if *commit {
		if record, err = stateMachine.Commit(ctx, *payment); err != nil {
			logger.Fatal("cannot commit payment", zap.Error(err))
		}
	}

	if *initiate {
		if record, err = stateMachine.Initiate(ctx, *payment); err != nil {
			logger.Fatal("cannot initiate payment", zap.Error(err))
		}
		logger.Info("payment submitted",
			zap.String("payment", record.Name),
			zap.String("status", string(record.Status)))
	}

	if !updatedKonf.IsProdMode {
		helpers.PrintStruct(record)
	}
}

func parseWindow(logger *zap.Logger) (time.Time, time.Time) {
	start, err := time.Parse(dateLayout, *fromDate)
	if err != nil {
		logger.Fatal("invalid --from date", zap.Error(err))
	}
	end, err := time.Parse(dateLayout, *toDate)
	if err != nil {
		logger.Fatal("invalid --to date", zap.Error(err))
	}
	// The window is exclusive at the start and inclusive at the end; the
	// end date itself counts until end of day.
	return start, end.Add(24*time.Hour - time.Nanosecond)
}
