//go:build wireinject
// +build wireinject

package di

import (
	"FluxFeed/pkg/config"
	"FluxFeed/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,

		// Infrastructure clients
		ProvideResponseCache,
		ProvideNewsProvider,
		ProvideClassifier,
		ProvideCandleProvider,
		ProvidePriceSeries,

		// Use cases
		ProvideSentimentResolver,
		ProvidePriceFeatureExtractor,
		ProvideSignalEngine,
		ProvideNewsFeed,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
