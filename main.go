package main

import (
	"fmt"
	"log"
	"os"

	"expirytrack/pkg/inventory"
	"expirytrack/pkg/llm"

	"github.com/gin-gonic/gin"
)

var cfg *Config
var jwtSecret []byte

func main() {
	cfg = loadConfig()
	jwtSecret = []byte(cfg.JWTSecret)

	// Support a lightweight migrate command: `./expirytrack migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration completed")
		return
	}

	initDB()

	gen = llm.NewClient(cfg.LLMBaseURL, cfg.LLMModel)

	stop, err := inventory.WatchDir(cfg.DataDir)
	if err != nil {
		log.Printf("inventory watcher disabled: %v", err)
	} else {
		defer stop()
	}

	r := gin.Default()

	setupRoutes(r)

	r.Run(":" + cfg.Port)
}
