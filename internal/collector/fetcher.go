package collector

import (
	"context"
	"errors"

	"TankSentinel/internal/model"
)

var (
	// ErrInvalidAuth is returned when the vendor rejects the credentials.
	ErrInvalidAuth = errors.New("invalid credentials")
	// ErrCannotConnect covers transport failures, timeouts, non-2xx
	// responses and undecodable bodies.
	ErrCannotConnect = errors.New("cannot connect to tank service")
)

// Fetcher defines the interface for fetching tank telemetry and pricing pages.
type Fetcher interface {
	// FetchTanks returns every device on the account. An account with no
	// devices yields an empty slice and a nil error.
	FetchTanks(ctx context.Context) ([]model.TankRecord, error)
	// FetchPriceHTML fetches a pricing page. It never fails loudly:
	// any problem is reported as ok=false.
	FetchPriceHTML(ctx context.Context, url string) (html string, ok bool)
	Name() string
}
