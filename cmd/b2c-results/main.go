package main

import (
	// Go Internal Packages
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	// Local Packages
	config "mpesa-b2c/config"
	kafka "mpesa-b2c/kafka"
	mongodb "mpesa-b2c/repositories/mongodb"
	redis "mpesa-b2c/repositories/redis"
	results "mpesa-b2c/services/results"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
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

	KafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if KafkaBrokers != "" {
		k.Kafka.Brokers = []string{KafkaBrokers}
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
	configPathMsg := "Path to the application config file"
	configPath := kingpin.Flag("config", configPathMsg).Short('c').Default("config.yml").String()

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

	// Update and Validate config before starting the consumer
	updatedKonf := LoadSecrets(appKonf)
	if err = updatedKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !updatedKonf.IsProdMode {
		k.Print()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = "b2c-results"
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
	transactionsRepo := mongodb.NewTransactionsRepository(mongoClient, updatedKonf.Mongo.Database)
	dlQueue := redis.NewDeadLetterQueue(redisClient, logger)
	processor := results.NewProcessor(logger, paymentsRepo, transactionsRepo)

	metrics := kprom.NewMetrics("b2c")
	conf := &kafka.ConsumerConfig{
		Brokers:        updatedKonf.Kafka.Brokers,
		Name:           updatedKonf.Kafka.ConsumerName,
		ResultsTopic:   updatedKonf.Kafka.ResultsTopic,
		TimeoutsTopic:  updatedKonf.Kafka.TimeoutsTopic,
		RecordsPerPoll: updatedKonf.Kafka.RecordsPerPoll,
	}

	consumer, err := kafka.NewResultsConsumer(conf, logger, processor, dlQueue, metrics)
	if err != nil {
		logger.Fatal("cannot create results consumer", zap.Error(err))
	}

	err = consumer.Poll(ctx)
	if err != nil {
		logger.Fatal("cannot poll records from topic", zap.Error(err))
	}
}
