package providers

import (
	"context"
	"errors"
	"time"

	"github.com/samber/do/v2"

	"github.com/lifediary/lifediary-server/internal/config"
	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/id"
	"github.com/lifediary/lifediary-server/internal/logger"
	"github.com/lifediary/lifediary-server/internal/store"
	"github.com/lifediary/lifediary-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// Bootstrap holds the result of startup data seeding.
type Bootstrap struct {
	DefaultTags []*domain.Tag
}

// defaultTagSeed is the shared tag set every fresh database starts with.
// The unclassified bucket is intentionally absent: it is synthetic and
// only ever appears in aggregation output.
var defaultTagSeed = []struct {
	Name  string
	Color string
}{
	{domain.SleepTagName, "#5C6BC0"},
	{domain.RestTagName, "#81C784"},
	{domain.WakeUpTagName, "#FFB74D"},
	{"식사", "#E57373"},
	{"운동", "#4DB6AC"},
	{"공부", "#64B5F6"},
	{"이동", "#A1887F"},
}

// ProvideBootstrap seeds the default tags on first startup.
// Seeding is idempotent: tags that already exist are left untouched.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx := context.Background()
	boot := &Bootstrap{}
	created := 0

	for _, seed := range defaultTagSeed {
		tag, err := storeHandle.GetTagByName(ctx, domain.DefaultOwnership(), seed.Name)
		if err == nil {
			boot.DefaultTags = append(boot.DefaultTags, tag)
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		tagID, err := id.Generate("tag")
		if err != nil {
			return nil, err
		}

		now := time.Now()
		tag = &domain.Tag{
			ID:        tagID,
			Name:      seed.Name,
			Color:     seed.Color,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := storeHandle.CreateTag(ctx, tag); err != nil {
			return nil, err
		}

		boot.DefaultTags = append(boot.DefaultTags, tag)
		created++
	}

	if created > 0 {
		log.Info("Default tags seeded", "created", created)
	}

	return boot, nil
}
