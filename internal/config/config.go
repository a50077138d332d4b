package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port string

	// Checkout pricing knobs. A single flat shipping fee and flat tax rate
	// are applied to every order; tax-jurisdiction logic is out of scope.
	ShippingFee decimal.Decimal
	TaxRate     decimal.Decimal

	LowStockThreshold int
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "3000"),
		ShippingFee:       getEnvDecimal("SHIPPING_FEE", decimal.NewFromInt(10)),
		TaxRate:           getEnvDecimal("TAX_RATE", decimal.NewFromFloat(0.10)),
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
