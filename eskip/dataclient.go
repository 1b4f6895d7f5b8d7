package eskip

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DataClient is the external routes source collaborator: a lazy stream of
// RouteDefinition, (re-)read on startup and on refresh events.
type DataClient interface {
	// LoadAll returns the full current set of route definitions.
	LoadAll() ([]*RouteDefinition, error)

	// Events returns a channel on which a RoutesRefreshed notification is
	// sent every time the underlying source changes; callers should call
	// LoadAll again after every receive. Neither StaticDataClient nor
	// WatchingDataClient closes the channel, not even on Close.
	Events() <-chan RoutesRefreshed
}

// RoutesRefreshed is the event published by a DataClient when its routes
// should be reloaded.
type RoutesRefreshed struct{}

// StaticDataClient is a DataClient over an in-memory slice of route
// definitions, replaced wholesale by Update. Used for tests and for static
// configuration.
type StaticDataClient struct {
	mu     sync.RWMutex
	routes []*RouteDefinition
	events chan RoutesRefreshed
}

// NewStaticDataClient wraps routes as a DataClient.
func NewStaticDataClient(routes []*RouteDefinition) *StaticDataClient {
	return &StaticDataClient{routes: CopyRoutes(routes), events: make(chan RoutesRefreshed, 1)}
}

func (c *StaticDataClient) LoadAll() ([]*RouteDefinition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CopyRoutes(c.routes), nil
}

func (c *StaticDataClient) Events() <-chan RoutesRefreshed { return c.events }

// Update replaces the route set and publishes a RoutesRefreshed event,
// non-blockingly: the event waits in a one-slot buffer until a subscriber
// receives it, and an Update made while one is already pending adds none.
func (c *StaticDataClient) Update(routes []*RouteDefinition) {
	c.mu.Lock()
	c.routes = CopyRoutes(routes)
	c.mu.Unlock()

	select {
	case c.events <- RoutesRefreshed{}:
	default:
	}
}

// WatchingDataClient wraps a routes document file on disk, re-parsing it
// and publishing RoutesRefreshed whenever fsnotify reports a change: a
// filesystem-backed source with live reload.
type WatchingDataClient struct {
	path    string
	watcher *fsnotify.Watcher
	events  chan RoutesRefreshed
	closed  chan struct{}
}

// NewWatchingDataClient starts watching path for changes. The caller must
// call Close when done.
func NewWatchingDataClient(path string) (*WatchingDataClient, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	c := &WatchingDataClient{
		path:    path,
		watcher: w,
		events:  make(chan RoutesRefreshed),
		closed:  make(chan struct{}),
	}
	go c.run()
	return c, nil
}

func (c *WatchingDataClient) run() {
	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case c.events <- RoutesRefreshed{}:
			case <-c.closed:
				return
			}
		case _, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *WatchingDataClient) LoadAll() ([]*RouteDefinition, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(string(data))
}

func (c *WatchingDataClient) Events() <-chan RoutesRefreshed { return c.events }

// Close stops the filesystem watch.
func (c *WatchingDataClient) Close() error {
	close(c.closed)
	return c.watcher.Close()
}
