//go:build wireinject
// +build wireinject

// Regenerate wire_gen.go with `wire gen ./cmd/api` after changing a provider.

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appcatalog "github.com/xiebiao/dvdrental/internal/application/catalog"
	appcustomer "github.com/xiebiao/dvdrental/internal/application/customer"
	apprental "github.com/xiebiao/dvdrental/internal/application/rental"
	appreport "github.com/xiebiao/dvdrental/internal/application/report"
	"github.com/xiebiao/dvdrental/internal/infrastructure/config"
	"github.com/xiebiao/dvdrental/internal/infrastructure/messaging"
	"github.com/xiebiao/dvdrental/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/dvdrental/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/dvdrental/internal/interface/http/handler"
	"github.com/xiebiao/dvdrental/internal/interface/http/server"
)

// infrastructureSet opens the database, Redis and the event publisher.
var infrastructureSet = wire.NewSet(
	sqlstore.NewDB,
	redis.NewClient,
	messaging.NewPublisher,
)

var repositorySet = wire.NewSet(
	sqlstore.NewTxManager,
	wire.Bind(new(apprental.TxRunner), new(*sqlstore.TxManager)),
	sqlstore.NewRentalRepository,
	sqlstore.NewPaymentRepository,
	sqlstore.NewCatalogRepository,
	sqlstore.NewCustomerRepository,
	sqlstore.NewReportRepository,
)

var applicationSet = wire.NewSet(
	provideNow,
	provideClock,
	apprental.NewCreateRentalUseCase,
	apprental.NewReturnRentalUseCase,
	apprental.NewCancelRentalUseCase,
	apprental.NewQueryRentalsUseCase,
	appcatalog.NewFilmQueriesUseCase,
	appcustomer.NewCustomerQueriesUseCase,
	appreport.NewReportsUseCase,
)

var middlewareSet = wire.NewSet(
	provideIdempotency,
)

var handlerSet = wire.NewSet(
	handler.NewRentalHandler,
	handler.NewFilmHandler,
	handler.NewCustomerHandler,
	handler.NewReportHandler,
	provideHealth,
	wire.Struct(new(server.Handlers), "*"),
)

// InitializeApp builds the HTTP engine and returns the cleanup that closes
// every connection it opened.
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideRouter,
	)
	return nil, nil, nil
}
