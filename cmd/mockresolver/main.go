package main

import (
	"os"
	"strconv"
	"time"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/api"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/constants"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/engine"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/logging"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/version"
	"github.com/gin-gonic/gin"
)

// mockresolver serves the resolver contract from an in-memory arena so
// the client can be exercised end to end without the real chain.
func main() {
	addr := os.Getenv(constants.EnvMockAddr)
	if addr == "" {
		addr = ":8080"
	}
	seed := time.Now().UnixNano()
	if s := os.Getenv(constants.EnvMockSeed); s != "" {
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			logging.Fatal("Invalid mock resolver seed", err, logging.Fields{"seed": s})
		}
		seed = parsed
	}

	arena := engine.NewArena(seed)
	handler := api.NewBattleHandler(arena)

	router := gin.Default()
	handler.Register(router)

	logging.Info("Mock resolver started", logging.Fields{
		constants.LogFieldAddr: addr,
		"version":              version.Version,
	})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start mock resolver", err, nil)
	}
}
