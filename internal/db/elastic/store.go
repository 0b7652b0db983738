// Package elastic implements db.Store on top of the official Elasticsearch
// client. All operations are synchronous, blocking calls against a shared
// handle; connection loss is recoverable and surfaces as db.ErrNotConnected
// rather than a panic or a fatal error.
package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Config holds connection settings for the Elasticsearch store.
type Config struct {
	Addrs      []string
	Username   string
	Password   string
	MaxRetries int           // connect attempts (default 5)
	BaseDelay  time.Duration // first retry delay (default 500ms)
	MaxDelay   time.Duration // backoff ceiling (default 10s)
	Transport  http.RoundTripper
	Logger     *zap.Logger
}

func (c *Config) applyDefaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Store owns the handle to the Elasticsearch cluster. The handle is read
// concurrently by request handlers while reconnects swap it, so access goes
// through an atomic pointer; redial itself is serialized.
type Store struct {
	cfg    Config
	logger *zap.Logger
	es     atomic.Pointer[elasticsearch.Client]
	redial sync.Mutex

	sleep func(time.Duration) // replaced in tests
}

var _ db.Store = (*Store)(nil)

// NewStore creates a disconnected store; call Connect before use.
func NewStore(cfg Config) *Store {
	cfg.applyDefaults()
	return &Store{
		cfg:    cfg,
		logger: cfg.Logger,
		sleep:  time.Sleep,
	}
}

// Connect establishes the engine connection with increasing backoff:
// up to MaxRetries attempts, delay multiplied by 1.5 each time and capped at
// MaxDelay. Exhausting all attempts leaves the store disconnected with the
// handle cleared.
func (s *Store) Connect(ctx context.Context) error {
	delay := s.cfg.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		es, err := s.dial()
		if err == nil {
			err = ping(ctx, es)
		}
		if err == nil {
			s.es.Store(es)
			s.logEngineInfo(ctx, es)
			return nil
		}

		lastErr = err
		s.logger.Warn("engine connect attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.cfg.MaxRetries),
			zap.Duration("next_delay", delay),
			zap.Error(err),
		)

		if attempt < s.cfg.MaxRetries {
			s.sleep(delay)
			delay = time.Duration(float64(delay) * 1.5)
			if delay > s.cfg.MaxDelay {
				delay = s.cfg.MaxDelay
			}
		}
	}

	s.es.Store(nil)
	return &db.Error{Op: db.OpPing, Err: fmt.Errorf("%w: %v", db.ErrNotConnected, lastErr)}
}

// Ping performs a lightweight liveness probe.
func (s *Store) Ping(ctx context.Context) error {
	es := s.es.Load()
	if es == nil {
		return db.ErrNotConnected
	}
	if err := ping(ctx, es); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// EnsureConnected re-establishes the connection if it was previously lost.
// A single dial+probe is attempted here; the full backoff loop is reserved
// for startup, so a down engine fails requests fast instead of queueing them.
func (s *Store) EnsureConnected(ctx context.Context) error {
	_, err := s.client(ctx)
	return err
}

// client returns a live handle, redialing once when the connection was
// lost. Concurrent redials are serialized and piggyback on the first
// successful one.
func (s *Store) client(ctx context.Context) (*elasticsearch.Client, error) {
	if es := s.es.Load(); es != nil && ping(ctx, es) == nil {
		return es, nil
	}

	s.redial.Lock()
	defer s.redial.Unlock()
	if es := s.es.Load(); es != nil && ping(ctx, es) == nil {
		return es, nil
	}

	es, err := s.dial()
	if err == nil {
		err = ping(ctx, es)
	}
	if err != nil {
		s.es.Store(nil)
		return nil, fmt.Errorf("%w: %v", db.ErrNotConnected, err)
	}

	s.logger.Info("engine connection re-established")
	s.es.Store(es)
	return es, nil
}

// Close drops the engine handle. The underlying client has no explicit close.
func (s *Store) Close() {
	s.es.Store(nil)
}

func (s *Store) dial() (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: s.cfg.Addrs,
		Username:  s.cfg.Username,
		Password:  s.cfg.Password,
		Transport: s.cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return es, nil
}

func ping(ctx context.Context, es *elasticsearch.Client) error {
	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping: engine returned %s", res.Status())
	}
	return nil
}

// logEngineInfo logs the cluster version once after a successful connect.
func (s *Store) logEngineInfo(ctx context.Context, es *elasticsearch.Client) {
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		s.logger.Info("connected to engine (version unknown)", zap.Error(err))
		return
	}
	defer res.Body.Close()

	var info struct {
		Version struct {
			Number string `json:"number"`
		} `json:"version"`
		ClusterName string `json:"cluster_name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		s.logger.Info("connected to engine (version unknown)")
		return
	}
	s.logger.Info("connected to engine",
		zap.String("version", info.Version.Number),
		zap.String("cluster", info.ClusterName),
	)
}

// readBody drains and returns the response body, mapping engine-level error
// statuses to db sentinels where the operation defines one.
func readBody(op string, res *esapi.Response, err error, notFound error) ([]byte, error) {
	if err != nil {
		// Transport-level fault: the engine is unreachable.
		return nil, &db.Error{Op: op, Err: fmt.Errorf("%w: %v", db.ErrNotConnected, err)}
	}
	defer res.Body.Close()

	body, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, &db.Error{Op: op, Err: readErr}
	}

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound && notFound != nil {
			return nil, notFound
		}
		return nil, &db.Error{Op: op, Err: fmt.Errorf("engine error [%s]: %s", res.Status(), snippet(body))}
	}
	return body, nil
}

// snippet bounds diagnostic payloads copied into error text.
func snippet(body []byte) string {
	const maxLen = 512
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
