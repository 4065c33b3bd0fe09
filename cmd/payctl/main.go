package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"payroute.backend/internal/config"
	"payroute.backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Env)

	if err := newRootCmd(newServices(cfg)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
