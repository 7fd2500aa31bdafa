//go:build wireinject
// +build wireinject

package di

import (
	"FutScan/pkg/config"
	"FutScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideHTTPClient,
		ProvideMetrics,

		// Market data and feeds
		ProvideMarketData,
		ProvideLiquidationFeed,

		// Signal pipeline
		ProvideSignalConfig,
		ProvideCalculator,
		ProvideTechnicalEvaluator,
		ProvideFundingEvaluator,
		ProvideLiquidationEvaluator,
		ProvideAggregator,
		ProvideRanker,

		// Delivery
		ProvideCache,
		ProvideEventPublisher,
		ProvideNotifier,
		ProvideAlertGate,
		ProvideSummaryStore,

		// Use cases
		ProvideScanUseCase,
		ProvideNotifyUseCase,

		// HTTP and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
