package collector

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// FetchPriceHTML downloads a public pricing page. No credentials are sent.
func (f *NeevoFetcher) FetchPriceHTML(ctx context.Context, pageURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		f.Logger.Warn("could not build price request", zap.String("url", pageURL), zap.Error(err))
		return "", false
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		f.Logger.Warn("could not fetch propane price", zap.String("url", pageURL), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.Logger.Warn("pricing page returned non-success status", zap.String("url", pageURL), zap.Int("status", resp.StatusCode))
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPriceBody))
	if err != nil {
		f.Logger.Warn("could not read pricing page", zap.String("url", pageURL), zap.Error(err))
		return "", false
	}
	return string(body), true
}
