package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziadkadry99/magic8ball/internal/archive"
	"github.com/ziadkadry99/magic8ball/internal/record"
)

// StorePersister writes the transcript file and, when an archive is
// configured, indexes it there too. Archive failures are logged only.
type StorePersister struct {
	store   *record.Store
	archive *archive.Store
	logger  *zap.Logger
}

// NewStorePersister creates a persister. arch may be nil.
func NewStorePersister(store *record.Store, arch *archive.Store, logger *zap.Logger) *StorePersister {
	return &StorePersister{store: store, archive: arch, logger: logger}
}

func (p *StorePersister) Persist(ctx context.Context, rec *record.Record) (string, error) {
	path, err := p.store.Save(rec)
	if err != nil {
		return "", err
	}

	if p.archive != nil {
		if err := p.archive.Add(ctx, rec, path); err != nil {
			p.logger.Warn("archiving session failed", zap.String("session_id", rec.SessionID), zap.Error(err))
		}
	}
	return path, nil
}
