// Package di wires the application together using samber/do.
package di

import (
	"github.com/samber/do/v2"

	"github.com/lifediary/lifediary-server/internal/di/providers"
)

// NewContainer creates the dependency injection container with all providers
// registered. Nothing is constructed until Bootstrap (or a direct invoke)
// asks for it.
func NewContainer() *do.RootScope {
	injector := do.New()

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideBootstrap)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideSlotService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideFeedbackService)
	do.Provide(injector, providers.ProvideSessionCleanupJob)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap eagerly constructs the long-running pieces of the application:
// the HTTP server and the background jobs. Everything they depend on is
// built transitively.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*providers.SessionCleanupJob](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
