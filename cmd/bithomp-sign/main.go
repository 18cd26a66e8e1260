package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Bithomp/xrpl-walletkit/pkg/cli"
)

func main() {
	// optional .env for local development
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
