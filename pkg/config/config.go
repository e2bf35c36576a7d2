package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// APIConfig configures the subscription-api service.
type APIConfig struct {
	Port        string
	DBDSN       string
	RedisAddr   string
	RMQURL      string
	Queue       string
	ServiceName string
	CacheTTL    time.Duration
	Token       string
}

// WorkerConfig configures the email-worker service.
type WorkerConfig struct {
	RMQURL      string
	Queue       string
	ServiceName string
	Concurrency int

	SMTPAddr string
	SMTPUser string
	SMTPPass string
	From     string
}

// PublicConfig configures the public-api gateway.
type PublicConfig struct {
	Port            string
	SubscriptionURL string
	Token           string
	RequestTimeout  time.Duration
	MaxRetries      int
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("required env %s is not set", k)
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s is not a number: %v", k, err)
	}
	return n
}

func MustLoadAPI() APIConfig {
	return APIConfig{
		Port:        getenv("PORT", "8080"),
		DBDSN:       mustEnv("DB_DSN"),
		RedisAddr:   mustEnv("REDIS_ADDR"),
		RMQURL:      mustEnv("RMQ_URL"),
		Queue:       getenv("QUEUE", "email_queue"),
		ServiceName: getenv("SERVICE_NAME", "subscription"),
		CacheTTL:    time.Duration(getenvInt("CACHE_TTL_MS", 60000)) * time.Millisecond,
		Token:       mustEnv("TOKEN"),
	}
}

func MustLoadWorker() WorkerConfig {
	return WorkerConfig{
		RMQURL:      mustEnv("RMQ_URL"),
		Queue:       getenv("QUEUE", "email_queue"),
		ServiceName: getenv("SERVICE_NAME", "subscription"),
		Concurrency: getenvInt("CONCURRENCY", 2),
		SMTPAddr:    getenv("SMTP_ADDR", ""),
		SMTPUser:    getenv("SMTP_USER", ""),
		SMTPPass:    getenv("SMTP_PASS", ""),
		From:        getenv("MAIL_FROM", "no-reply@newsletter.local"),
	}
}

func MustLoadPublic() PublicConfig {
	return PublicConfig{
		Port:            getenv("PORT", "8081"),
		SubscriptionURL: mustEnv("SUBSCRIPTION_URL"),
		Token:           mustEnv("SUBSCRIPTION_TOKEN"),
		RequestTimeout:  time.Duration(getenvInt("REQUEST_TIMEOUT_MS", 5000)) * time.Millisecond,
		MaxRetries:      getenvInt("MAX_RETRIES", 2),
	}
}
