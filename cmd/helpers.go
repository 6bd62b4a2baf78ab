package cmd

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/ziadkadry99/magic8ball/internal/archive"
	"github.com/ziadkadry99/magic8ball/internal/config"
	"github.com/ziadkadry99/magic8ball/internal/db"
)

// loadConfig resolves the config file, logging every fallback it had to take.
func loadConfig() *config.Resolved {
	resolved := config.Resolve(cfgFile)
	for _, w := range resolved.Warnings {
		logger.Warn("configuration problem", zap.String("config", cfgFile), zap.Error(w))
	}
	return resolved
}

// openArchive opens the session archive configured in cfg. A nil store with
// a no-op close is returned when the archive is disabled or unavailable.
func openArchive(cfg *config.Config) (*archive.Store, func()) {
	if cfg.ArchivePath == "" {
		return nil, func() {}
	}
	database, err := db.Open(cfg.ArchivePath)
	if err != nil {
		logger.Warn("session archive unavailable", zap.String("path", cfg.ArchivePath), zap.Error(err))
		return nil, func() {}
	}
	return archive.NewStore(database), func() { database.Close() }
}

// newRand returns a random source seeded by --seed when given, otherwise
// from the runtime's entropy.
func newRand(seeded bool, stream uint64) *rand.Rand {
	if seeded {
		return rand.New(rand.NewPCG(seed, stream))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
