package config

import (
	// Local Packages
	errors "mpesa-b2c/errors"
)

var DefaultConfig = []byte(`
application: "b2c-payments"

logger:
  level: "debug"

is_prod_mode: false

mongo:
  uri: "mongodb://localhost:27017"
  database: "mpesa_b2c"

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  brokers:
    - "localhost:9092"
  results_topic: "b2c-results"
  timeouts_topic: "b2c-timeouts"
  records_per_poll: 100
  consumer_name: "b2c-results-consumer"

daraja:
  base_url: "https://sandbox.safaricom.co.ke"
  consumer_key: ""
  consumer_secret: ""
  initiator_name: ""
  security_credential: ""
  business_shortcode: ""
  queue_timeout_url: ""
  result_url: ""
  timeout_seconds: 120

payments:
  setting_name: "sandbox"
  min_amount: 10
`)

type Config struct {
	Application string   `koanf:"application"`
	Logger      Logger   `koanf:"logger"`
	IsProdMode  bool     `koanf:"is_prod_mode"`
	Mongo       Mongo    `koanf:"mongo"`
	Redis       Redis    `koanf:"redis"`
	Kafka       Kafka    `koanf:"kafka"`
	Daraja      Daraja   `koanf:"daraja"`
	Payments    Payments `koanf:"payments"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Brokers        []string `koanf:"brokers"`
	ResultsTopic   string   `koanf:"results_topic"`
	TimeoutsTopic  string   `koanf:"timeouts_topic"`
	RecordsPerPoll int      `koanf:"records_per_poll"`
	ConsumerName   string   `koanf:"consumer_name"`
}

type Daraja struct {
	BaseURL            string `koanf:"base_url"`
	ConsumerKey        string `koanf:"consumer_key"`
	ConsumerSecret     string `koanf:"consumer_secret"`
	InitiatorName      string `koanf:"initiator_name"`
	SecurityCredential string `koanf:"security_credential"`
	BusinessShortcode  string `koanf:"business_shortcode"`
	QueueTimeoutURL    string `koanf:"queue_timeout_url"`
	ResultURL          string `koanf:"result_url"`
	TimeoutSeconds     int    `koanf:"timeout_seconds"`
}

type Payments struct {
	SettingName string  `koanf:"setting_name"`
	MinAmount   float64 `koanf:"min_amount"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Mongo.Database == "" {
		ve.Add("mongo.database", "cannot be empty")
	}
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if len(c.Kafka.Brokers) == 0 {
		ve.Add("kafka.brokers", "cannot be empty")
	}
	if c.Kafka.ResultsTopic == "" {
		ve.Add("kafka.results_topic", "cannot be empty")
	}
	if c.Daraja.BaseURL == "" {
		ve.Add("daraja.base_url", "cannot be empty")
	}
	if c.Payments.MinAmount <= 0 {
		ve.Add("payments.min_amount", "must be positive")
	}

	return ve.Err()
}
