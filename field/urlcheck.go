package field

import (
	"context"
	"sync"

	"github.com/reoring/modelkit/internal/netcheck"
)

// URLChecker verifies that a URL exists. It is only consulted by URL fields
// configured with VerifyExists.
type URLChecker interface {
	Check(ctx context.Context, url string) error
}

var (
	checkerMu      sync.RWMutex
	defaultChecker URLChecker = netcheck.New(netcheck.Options{})
)

// SetDefaultURLChecker replaces the checker used by URL fields that carry
// none; nil restores the built-in HTTP checker.
func SetDefaultURLChecker(c URLChecker) {
	checkerMu.Lock()
	defer checkerMu.Unlock()
	if c == nil {
		defaultChecker = netcheck.New(netcheck.Options{})
		return
	}
	defaultChecker = c
}

// DefaultURLChecker returns the package default checker.
func DefaultURLChecker() URLChecker {
	checkerMu.RLock()
	defer checkerMu.RUnlock()
	return defaultChecker
}
