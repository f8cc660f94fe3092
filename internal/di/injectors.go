//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"adlens/internal"
	"adlens/internal/controllers"
	"adlens/internal/providers"
	"adlens/internal/scrape"
	"adlens/internal/services"
	"adlens/internal/store"
	"adlens/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewStore,
		scrape.NewApifyInvoker,
		services.NewAdService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
