package notestore

import (
	"context"
	"fmt"
)

// Open returns the Store backend named by driver.
func Open(ctx context.Context, driver string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("notestore: unknown driver %q", driver)
}
