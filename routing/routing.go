// Package routing implements route compilation and the routing table:
// turning parsed eskip route definitions into predicate-and-filter-chain
// Routes, keeping a concurrently-readable table of them refreshed
// wholesale whenever the backing eskip.DataClient reports a change, and
// matching incoming exchanges against that table in ascending route
// order.
package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/eskip"
	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/expr"
	"github.com/skygate/gateway/factory"
	"github.com/skygate/gateway/metrics"
	"github.com/skygate/gateway/predicate"
	"github.com/skygate/gateway/proxy"
)

// Route is a compiled route: a predicate that decides whether
// the route matches an exchange, and the filter chain to run when it does.
type Route struct {
	Id        string
	URI       string
	Order     int
	Def       *eskip.RouteDefinition
	Predicate predicate.Predicate
	Filters   []chain.OrderedFilter
}

// Compile builds a Route from a parsed definition, binding each predicate
// and filter definition to its registered factory and combining the
// predicates with non-short-circuiting conjunction into a single route
// predicate.
func Compile(def *eskip.RouteDefinition, predicates factory.PredicateRegistry, filters factory.FilterRegistry, eval expr.Evaluator, env map[string]interface{}) (*Route, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	preds := make([]predicate.Predicate, 0, len(def.Predicates))
	for _, pd := range def.Predicates {
		p, err := factory.BuildPredicate(predicates, pd, eval, env)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", def.Id, err)
		}
		preds = append(preds, p)
	}

	ordered := make([]chain.OrderedFilter, 0, len(def.Filters))
	for i, fd := range def.Filters {
		f, err := factory.BuildFilter(filters, fd, eval, env)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", def.Id, err)
		}
		ordered = append(ordered, chain.OrderedFilter{Order: i + 1, Name: fd.Name, Filter: f})
	}

	return &Route{
		Id:        def.Id,
		URI:       def.URI,
		Order:     def.Order,
		Def:       def,
		Predicate: predicate.All(preds...),
		Filters:   ordered,
	}, nil
}

// CompileAll compiles every definition. Failure to compile any route is
// surfaced to the caller via the returned error rather than dropped
// silently; CompileAll still returns every route that did compile, so a
// caller may choose to keep serving them while reporting the failure.
func CompileAll(defs []*eskip.RouteDefinition, predicates factory.PredicateRegistry, filters factory.FilterRegistry, eval expr.Evaluator) ([]*Route, error) {
	routes := make([]*Route, 0, len(defs))
	var errs []error
	for _, def := range defs {
		r, err := Compile(def, predicates, filters, eval, nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("route %q: %w", def.Id, err))
			continue
		}
		routes = append(routes, r)
	}
	sort.SliceStable(routes, func(i, j int) bool { return routes[i].Order < routes[j].Order })
	return routes, errors.Join(errs...)
}

// Table is the atomically-swapped, concurrently-readable set of compiled
// routes.
type Table struct {
	current atomic.Pointer[[]*Route]
}

func NewTable() *Table {
	t := &Table{}
	empty := make([]*Route, 0)
	t.current.Store(&empty)
	return t
}

// Set replaces the table's routes with a copy of routes, stable-sorted by
// ascending Order.
func (t *Table) Set(routes []*Route) {
	sorted := append([]*Route(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	t.current.Store(&sorted)
}

func (t *Table) Routes() []*Route { return *t.current.Load() }

// Run subscribes to dc's Events and recompiles the whole table on every
// refresh signal, until ctx is done.
func Run(ctx context.Context, t *Table, dc eskip.DataClient, predicates factory.PredicateRegistry, filters factory.FilterRegistry, eval expr.Evaluator) error {
	refresh := func() error {
		defs, err := dc.LoadAll()
		if err != nil {
			logrus.WithError(err).Error("failed to load route definitions")
			return err
		}
		routes, err := CompileAll(defs, predicates, filters, eval)
		t.Set(routes)
		if err != nil {
			logrus.WithError(err).Error("one or more routes failed to compile")
		}
		return nil
	}

	if err := refresh(); err != nil {
		return fmt.Errorf("initial route table load: %w", err)
	}

	events := dc.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			refresh()
		}
	}
}

// RouteFromExchange reads back the GATEWAY_ROUTE attribute set by Handler,
// typed, closing the loop on the untyped storage exchange.Exchange uses to
// avoid importing this package.
func RouteFromExchange(ex *exchange.Exchange) (*Route, bool) {
	r, ok := ex.Route().(*Route)
	return r, ok
}

// requestURLForRoute builds the GATEWAY_REQUEST_URL value for the matched
// route: its backend uri, carrying over the inbound request's path and query exactly
// as the terminal filters expect to find them.
func requestURLForRoute(route *Route, r *http.Request) (*url.URL, error) {
	target, err := url.Parse(route.URI)
	if err != nil {
		return nil, fmt.Errorf("route %q: invalid uri %q: %w", route.Id, route.URI, err)
	}
	target.Path = r.URL.Path
	target.RawPath = r.URL.RawPath
	target.RawQuery = r.URL.RawQuery
	return target, nil
}

// Match finds the first route, in ascending order, whose predicate
// evaluates true for ex. It returns a nil Route and a nil error when none
// match.
func Match(ctx context.Context, t *Table, ex *exchange.Exchange) (*Route, error) {
	for _, r := range t.Routes() {
		ok, err := predicate.Eval(ctx, r.Predicate, ex)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", r.Id, err)
		}
		if ok {
			return r, nil
		}
	}
	return nil, nil
}

// Handler is the C6 routing handler: it matches the exchange against the
// table, responds 404 when nothing matches, and otherwise runs the
// matched route's filter chain wrapped by the global filters and the
// response-writer tail. A chain error on an exchange not yet served is
// answered with the status proxy.StatusForError maps it to.
type Handler struct {
	Table   *Table
	Global  []chain.OrderedFilter
	Metrics *metrics.Metrics
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ex := exchange.New(w, r)

	route, err := Match(ctx, h.Table, ex)
	if err != nil {
		logrus.WithError(err).Error("route matching failed")
		http.Error(w, "internal gateway error", http.StatusInternalServerError)
		return
	}
	if route == nil {
		if h.Metrics != nil {
			h.Metrics.RoutedRequests.WithLabelValues("", "no_route").Inc()
		}
		http.Error(w, "no matching route", http.StatusNotFound)
		return
	}
	ex.SetRoute(route)

	target, err := requestURLForRoute(route, ex.Request)
	if err != nil {
		logrus.WithError(err).WithField("route", route.Id).Error("invalid route backend URI")
		http.Error(w, "internal gateway error", http.StatusInternalServerError)
		return
	}
	ex.SetRequestURL(target)

	filters := chain.Build(h.Global, route.Filters)
	filters = append(filters, chain.AsOrdered())

	start := time.Now()
	err = chain.Run(ctx, filters, ex)
	if h.Metrics != nil {
		h.Metrics.ChainDuration.WithLabelValues(route.Id).Observe(time.Since(start).Seconds())
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		logrus.WithError(err).WithField("route", route.Id).Error("filter chain failed")
		if !ex.Served() {
			http.Error(w, "gateway error", proxy.StatusForError(err))
		}
	}
	if h.Metrics != nil {
		h.Metrics.RoutedRequests.WithLabelValues(route.Id, outcome).Inc()
	}
}
