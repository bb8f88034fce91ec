//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"topfived/internal"
	"topfived/internal/controllers"
	"topfived/internal/ledger"
	"topfived/internal/providers"
	"topfived/internal/services"
	"topfived/internal/storage"
	"topfived/internal/structures"
	"topfived/internal/voting"
)

var ledgerSet = wire.NewSet(
	ledger.NewKVStore,
	ledger.NewZstdCompressor,
	ledger.NewFileManagerProvider,
	ledger.NewScheduler,
	wire.Bind(new(voting.KeyValueStore), new(*ledger.KVStore)),
	wire.Bind(new(providers.LedgerSizer), new(*ledger.KVStore)),
)

var storageSet = wire.NewSet(
	storage.NewStoreProvider,
	wire.Bind(new(services.ContentRepository), new(*storage.SQLiteStore)),
	wire.Bind(new(services.GroupRepository), new(*storage.SQLiteStore)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewClockProvider,

		ledgerSet,
		storageSet,
		services.NewRankingService,
		services.NewVoteService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitRanking(cfg *structures.CliFlags) (services.RankingServiceInterface, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewClockProvider,
		storageSet,
		services.NewRankingService,
	)

	return nil, nil, nil
}
