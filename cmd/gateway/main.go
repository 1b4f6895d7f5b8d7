// Command gateway bootstraps the predicate/filter registries, the routes
// data client, and the rate limiter backend, then starts the proxy and
// metrics HTTP servers.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/skygate/gateway/config"
	"github.com/skygate/gateway/eskip"
	"github.com/skygate/gateway/expr"
	"github.com/skygate/gateway/factory"
	filterbuiltin "github.com/skygate/gateway/filters/builtin"
	filterratelimit "github.com/skygate/gateway/filters/ratelimit"
	"github.com/skygate/gateway/metrics"
	predicatebuiltin "github.com/skygate/gateway/predicates/builtin"
	"github.com/skygate/gateway/proxy"
	"github.com/skygate/gateway/ratelimit"
	"github.com/skygate/gateway/routing"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Getenv("GATEWAY_CONFIG_FILE"))
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	predicates := make(factory.PredicateRegistry)
	predicates.Register(predicatebuiltin.Path{})
	predicates.Register(predicatebuiltin.Host{})
	predicates.Register(predicatebuiltin.Method{})
	predicates.Register(predicatebuiltin.Header{})

	var store ratelimit.Store
	if cfg.RedisAddress != "" {
		store = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddress}))
	} else {
		store = ratelimit.NewMemoryStore()
	}

	filters := make(factory.FilterRegistry)
	filters.Register(filterbuiltin.RewritePath{})
	filters.Register(filterbuiltin.PrefixPath{})
	filters.Register(filterbuiltin.AddRequestHeader{})
	filters.Register(filterratelimit.Factory{Store: store, Key: filterratelimit.RemoteAddrKey})

	dc, err := eskip.NewWatchingDataClient(cfg.RoutesFile)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open routes file")
	}
	defer dc.Close()

	table := routing.NewTable()
	go func() {
		if err := routing.Run(ctx, table, dc, predicates, filters, expr.Default{}); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("routing table refresh loop stopped")
		}
	}()

	p := proxy.New(&http.Client{Timeout: cfg.ResponseTimeout}, cfg.ResponseTimeout, nil)
	m := metrics.New(prometheus.DefaultRegisterer)
	handler := &routing.Handler{Table: table, Global: p.Filters(), Metrics: m}

	proxyServer := &http.Server{Addr: cfg.Address, Handler: handler}
	metricsServer := &http.Server{Addr: cfg.MetricsAddress, Handler: metrics.Handler()}

	go func() {
		logrus.WithField("address", cfg.MetricsAddress).Info("serving metrics")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("metrics server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		proxyServer.Shutdown(shutdownCtx)
		metricsServer.Shutdown(shutdownCtx)
	}()

	logrus.WithField("address", cfg.Address).Info("serving proxy traffic")
	if err := proxyServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("proxy server stopped")
	}
}
