package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yukikurage/meeting-scheduler-api/internal/config"
)

func main() {
	// A missing .env is fine outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "meeting-scheduler",
		Short: "Meeting scheduling API",
		Long:  "Schedules, updates and cancels meetings, checks attendee conflicts and logs meeting time.",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML file overriding environment settings")

	loadConfig := func() (*config.Config, error) {
		return config.LoadFile(configFile)
	}

	rootCmd.AddCommand(newServeCmd(loadConfig))
	rootCmd.AddCommand(newMigrateCmd(loadConfig))

	return rootCmd
}
