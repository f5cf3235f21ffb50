package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB is the production Database implementation. It speaks the
// driver's WebSocket protocol and keeps the driver handle private; all
// access from the repositories goes through the Database interface.
type SurrealDB struct {
	conn *surrealdb.DB
	cfg  Config
}

// NewSurrealDB creates an unconnected instance; call Connect before use
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{cfg: cfg}
}

// Connect dials the server, signs in as the configured root user, and
// selects the namespace/database pair. A partial failure closes the
// half-open connection before returning.
func (s *SurrealDB) Connect(ctx context.Context) error {
	conn, err := surrealdb.FromEndpointURLString(ctx, fmt.Sprintf("ws://%s:%s", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if _, err := conn.SignIn(ctx, &surrealdb.Auth{
		Username: s.cfg.User,
		Password: s.cfg.Password,
	}); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := conn.Use(ctx, s.cfg.Namespace, s.cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.conn = conn
	return nil
}

// Close releases the connection. Safe to call on an unconnected instance.
func (s *SurrealDB) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(context.Background())
}

// Ping verifies the connection by asking the server for its version
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.conn == nil {
		return ErrConnection
	}
	if _, err := s.conn.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs a statement and returns one {status, result} wrapper per
// statement in the request. The repository helpers flatten these
// wrappers; a non-OK status anywhere fails the whole call.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.conn == nil {
		return nil, ErrConnection
	}

	raw, err := surrealdb.Query[interface{}](ctx, s.conn, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if raw == nil {
		return nil, nil
	}

	wrapped := make([]interface{}, 0, len(*raw))
	for _, r := range *raw {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		wrapped = append(wrapped, map[string]interface{}{
			"status": r.Status,
			"result": r.Result,
		})
	}

	return wrapped, nil
}

// QueryOne runs a statement expected to yield a single record and
// unwraps it. An empty result set is ErrNotFound; repositories that
// treat absence as a normal miss translate it back to nil.
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	head, ok := results[0].(map[string]interface{})
	if !ok {
		return results[0], nil
	}
	if status, ok := head["status"].(string); !ok || status != "OK" {
		return results[0], nil
	}

	rows, ok := head["result"].([]interface{})
	if !ok {
		// Scalar result (count aggregates and the like)
		return head["result"], nil
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Execute runs a statement and discards its result
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}
