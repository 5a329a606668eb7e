// Package session persists generated plan state between invocations.
//
// The engines are stateless and [report.Generate] returns the next
// [report.State] to its caller; this package is where callers keep it.
// Implementations for different backends:
//   - memory: in-process storage for tests and a single server instance
//   - redis: shared storage for multi-instance server deployments
//   - file: JSON files for the CLI
//
// # Usage
//
//	// CLI
//	store, err := session.NewFileStore("")  // Uses ~/.config/cortex/plans/
//
//	// Server
//	store, err := session.NewRedisStore(ctx, session.RedisConfig{
//	    Addr: "localhost:6379",
//	})
//
//	st, plan, err := report.Generate(cat, prev, sel)
//	if err != nil {
//	    return err
//	}
//	err = store.Set(ctx, st)
//
// A missing plan is reported as an [errors.ErrCodePlanNotFound] error.
//
// [errors.ErrCodePlanNotFound]: github.com/matzehuels/cortex/pkg/errors
package session

import (
	"context"
	"time"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/report"
)

// Store is the interface for plan state backends. Implementations are safe
// for concurrent use.
type Store interface {
	// Get retrieves a plan state by ID.
	Get(ctx context.Context, id string) (report.State, error)

	// Latest returns the most recently stored plan state.
	Latest(ctx context.Context) (report.State, error)

	// Set stores a plan state under its ID, replacing any previous one.
	Set(ctx context.Context, st report.State) error

	// Delete removes a plan state. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long shared backends keep a plan.
const DefaultTTL = 7 * 24 * time.Hour

func notFound(id string) error {
	if id == "" {
		return errors.New(errors.ErrCodePlanNotFound, "no saved plan")
	}
	return errors.New(errors.ErrCodePlanNotFound, "plan %q not found", id)
}

func checkState(st report.State) error {
	if err := errors.ValidatePlanID(st.ID); err != nil {
		return err
	}
	if st.GeneratedAt.IsZero() {
		return errors.New(errors.ErrCodeInvalidInput, "plan %q has no generation time", st.ID)
	}
	return nil
}

// Backend names the storage backend of s for logs and metrics.
func Backend(s Store) string {
	switch s.(type) {
	case *MemoryStore:
		return "memory"
	case *FileStore:
		return "file"
	case *RedisStore:
		return "redis"
	default:
		return "custom"
	}
}
