package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"canchas-backend/internal/cli"
)

func main() {
	_ = godotenv.Load()

	root := cli.NewRootCommand(os.Stdout, cli.OpenFromConfig)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
