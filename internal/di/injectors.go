//go:build wireinject
// +build wireinject

package di

import (
	"chatsync/internal"
	"chatsync/internal/controllers"
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"chatsync/internal/services"
	"chatsync/internal/structures"
	"chatsync/internal/syncstate"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewLogNotifier,
		providers.NewHostState,
		wire.Bind(new(providers.HostInterface), new(*providers.HostState)),

		models.NewFingerprintSet,
		models.NewOfflineQueue,

		syncstate.NewZstdCompressor,
		syncstate.NewStateManager,
		syncstate.NewScheduler,

		services.NewSettingsService,
		services.NewDedupService,
		services.NewDeliveryService,
		services.NewIdleAggregator,
		services.NewSyncService,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
