// Package svcctx carries the pipeline's service dependencies through a
// context.Context, so operation handlers and orchestrator stages take
// ctx alone rather than a long, ever-growing parameter list.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/bluecalif/bookforge/internal/bookstore"
	"github.com/bluecalif/bookforge/internal/cachestore"
	"github.com/bluecalif/bookforge/internal/config"
	"github.com/bluecalif/bookforge/internal/digitization"
	"github.com/bluecalif/bookforge/internal/home"
	"github.com/bluecalif/bookforge/internal/providers"
)

type contextKey struct{}

// Services bundles every dependency an operation handler may need.
type Services struct {
	Logger *slog.Logger
	Home   *home.Dir

	ConfigStore config.Store
	CacheStore  *cachestore.Store

	DigitizationClient *digitization.Client
	LLMClient          providers.LLMClient

	BookStore bookstore.Store
}

// WithServices returns a new context carrying svc.
func WithServices(ctx context.Context, svc *Services) context.Context {
	return context.WithValue(ctx, contextKey{}, svc)
}

// ServicesFrom returns the Services bundle carried by ctx. Panics if ctx
// was not derived from WithServices; every operation handler runs inside
// a request path that calls WithServices first, so an absent bundle is a
// wiring bug, not a runtime condition to handle gracefully.
func ServicesFrom(ctx context.Context) *Services {
	svc, ok := ctx.Value(contextKey{}).(*Services)
	if !ok || svc == nil {
		panic("svcctx: no Services in context")
	}
	return svc
}

// LoggerFrom returns the logger carried by ctx.
func LoggerFrom(ctx context.Context) *slog.Logger {
	return ServicesFrom(ctx).Logger
}

// HomeFrom returns the home directory carried by ctx.
func HomeFrom(ctx context.Context) *home.Dir {
	return ServicesFrom(ctx).Home
}

// ConfigStoreFrom returns the config override store carried by ctx.
func ConfigStoreFrom(ctx context.Context) config.Store {
	return ServicesFrom(ctx).ConfigStore
}

// CacheStoreFrom returns the content-addressed cache carried by ctx.
func CacheStoreFrom(ctx context.Context) *cachestore.Store {
	return ServicesFrom(ctx).CacheStore
}

// DigitizationClientFrom returns the digitization client carried by ctx.
func DigitizationClientFrom(ctx context.Context) *digitization.Client {
	return ServicesFrom(ctx).DigitizationClient
}

// LLMClientFrom returns the LLM client carried by ctx.
func LLMClientFrom(ctx context.Context) providers.LLMClient {
	return ServicesFrom(ctx).LLMClient
}

// BookStoreFrom returns the book store carried by ctx.
func BookStoreFrom(ctx context.Context) bookstore.Store {
	return ServicesFrom(ctx).BookStore
}
