// Package testutil provides shared test helpers for building services.
package testutil

import (
	"context"
	"testing"

	"github.com/starford/jotpad/internal/idgen"
	"github.com/starford/jotpad/internal/noteservice"
	"github.com/starford/jotpad/internal/notestore"
)

// TestStore opens a store for driver that is closed when the test ends.
func TestStore(t *testing.T, driver string) notestore.Store {
	t.Helper()
	store, err := notestore.Open(context.Background(), driver)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestService returns a service over an in-memory store whose ids start at 1.
func TestService(t *testing.T, opts ...noteservice.Option) *noteservice.Service {
	t.Helper()
	opts = append([]noteservice.Option{noteservice.WithIDGenerator(idgen.NewSequence(1))}, opts...)
	return noteservice.NewService(TestStore(t, notestore.DriverMemory), opts...)
}
