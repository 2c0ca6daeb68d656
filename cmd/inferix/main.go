package main

import (
	"github.com/joho/godotenv"

	"github.com/aalvaropc/inferix/internal/cli"
)

func main() {
	// A .env next to the binary can supply variables referenced by task
	// files. Missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
