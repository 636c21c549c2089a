package main

import (
	"log"

	"github.com/unilinkup/bot/app"
	corecmd "github.com/unilinkup/bot/core/cmd"
	coreconfig "github.com/unilinkup/bot/core/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        coreconfig.Load,
		Bootstrap: func(cfg *coreconfig.Config) (corecmd.TelegramApp, error) {
			return app.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("unilinkup: %v", err)
	}
}
