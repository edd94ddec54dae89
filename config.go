package main

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port              string
	MongoURI          string
	MongoDBName       string
	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string
	RedisURL          string // optional; product cache disabled when empty
	SMTPHost          string
	SMTPPort          string
	SMTPUser          string
	SMTPPass          string
	FromEmail         string
	KafkaBrokers      []string // optional; event publishing disabled when empty
	KafkaTopic        string
	AllowedOrigins    []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "5174"),
		MongoURI:          os.Getenv("MONGODB_URI"),
		MongoDBName:       getEnv("MONGODB_DB", "shop"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		Currency:          getEnv("CURRENCY", "INR"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          getEnv("SMTP_PORT", "465"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		FromEmail:         os.Getenv("FROM_EMAIL"),
		KafkaTopic:        getEnv("ORDER_EVENTS_TOPIC", "order.events"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}

	origins := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	cfg.AllowedOrigins = splitAndTrim(origins)

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
