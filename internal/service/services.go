package service

import (
	"github.com/propflow/maintgo/internal/authz"
	redisx "github.com/propflow/maintgo/internal/redis"
	postgresrepo "github.com/propflow/maintgo/internal/repository/postgres"
	redisrepo "github.com/propflow/maintgo/internal/repository/redis"
	"github.com/propflow/maintgo/internal/service/billing"
	"github.com/propflow/maintgo/internal/service/lifecycle"
	"github.com/propflow/maintgo/internal/service/query"
	"github.com/propflow/maintgo/internal/service/scheduling"
)

// Services bundles the application services for transport wiring.
type Services struct {
	Lifecycle  *lifecycle.Service
	Scheduling *scheduling.Service
	Billing    *billing.Service
	Query      *query.Service
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.NotificationsPubSub,
) *Services {
	auth := authz.New(store)

	return &Services{
		Lifecycle:  lifecycle.New(store, cache, pubsub, auth),
		Scheduling: scheduling.New(store, cache, pubsub, auth),
		Billing:    billing.New(store, cache, pubsub, auth),
		Query:      query.New(store, cache),
	}
}
