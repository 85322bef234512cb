package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"TankSentinel/internal/model"
)

// maxPriceBody bounds how much of a pricing page is read.
const maxPriceBody = 4 << 20

// NeevoFetcher implements Fetcher against the Otodata Nee-Vo data service.
type NeevoFetcher struct {
	APIURL   string
	Username string
	Password string
	Client   *http.Client
	Logger   *zap.Logger
}

// NewNeevoFetcher creates a fetcher with the given request timeout and optional proxy support.
func NewNeevoFetcher(apiURL, username, password string, timeout time.Duration, proxyURL string, logger *zap.Logger) *NeevoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NeevoFetcher{
		APIURL:   apiURL,
		Username: username,
		Password: password,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Logger: logger.Named("neevo"),
	}
}

func (f *NeevoFetcher) Name() string { return "neevo" }

func (f *NeevoFetcher) FetchTanks(ctx context.Context) ([]model.TankRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(f.Username, f.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotConnect, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidAuth
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrCannotConnect, resp.StatusCode, string(body))
	}

	var tanks []model.TankRecord
	if err := json.NewDecoder(resp.Body).Decode(&tanks); err != nil {
		return nil, fmt.Errorf("%w: decode tanks: %w", ErrCannotConnect, err)
	}
	if tanks == nil {
		tanks = []model.TankRecord{}
	}
	f.Logger.Debug("fetched tanks", zap.Int("count", len(tanks)))
	return tanks, nil
}
