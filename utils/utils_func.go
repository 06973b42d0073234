package utils

import (
	"fmt"
	"os"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("WARNING: JWT_SECRET environment variable not set.")
		return []byte("default-insecure-secret-only-for-development")
	}
	return []byte(secret)
}

func GetWebhookSecret() []byte {
	secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	if secret == "" {
		fmt.Println("WARNING: PAYMENT_WEBHOOK_SECRET environment variable not set.")
		return []byte("default-insecure-webhook-secret")
	}
	return []byte(secret)
}
