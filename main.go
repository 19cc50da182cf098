package main

import (
	"fmt"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/dice-backend/internal"
	"github.com/rocketscienceinc/dice-backend/internal/config"
	"github.com/rocketscienceinc/dice-backend/internal/logger"
)

const configPathEnv = "CONFIG_PATH"

// main - is the entry point of the dice server. It loads the configuration, builds the logger and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(configPath())
	log := logger.NewJSON(os.Stdout, conf.LogLevel)

	if err := app.RunApp(log, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// configPath - CONFIG_PATH if set, otherwise config.yml in the working directory.
func configPath() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return filepath.Join(baseDir, "config.yml")
}
