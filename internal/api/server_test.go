package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"TankSentinel/internal/collector"
	"TankSentinel/internal/coordinator"
	"TankSentinel/internal/model"
	"TankSentinel/internal/sensor"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, fetcher *collector.MockFetcher, token string) (*Server, *coordinator.Coordinator) {
	t.Helper()
	coord := coordinator.New(fetcher, coordinator.Options{}, zap.NewNop())
	t.Cleanup(coord.Close)
	if err := coord.FirstRefresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	reg := sensor.NewRegistry(sensor.Build(coord, "e"))
	return New(Options{Token: token}, coord, reg, nil, zap.NewNop()), coord
}

func do(s *Server, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Tanks: collector.DemoTanks()}, "secret")
	if rr := do(s, http.MethodGet, "/healthz", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestListSensors(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Tanks: collector.DemoTanks()}, "")
	rr := do(s, http.MethodGet, "/sensors", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Count   int            `json:"count"`
		Sensors []sensor.State `json:"sensors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// two demo tanks, one with pressure, no pricing
	if body.Count != 7 || len(body.Sensors) != 7 {
		t.Fatalf("expected 7 sensors, got %d", body.Count)
	}
	if body.Sensors[0].UniqueID != "e_tank_demo-1" || !body.Sensors[0].Available {
		t.Errorf("unexpected first sensor %+v", body.Sensors[0])
	}
}

func TestGetSensor(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Tanks: collector.DemoTanks()}, "")

	rr := do(s, http.MethodGet, "/sensors/e_liters_demo-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var st sensor.State
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Value == nil || *st.Value != 1173.5 || st.Unit != "L" {
		t.Errorf("unexpected liters state %+v", st)
	}

	if rr := do(s, http.MethodGet, "/sensors/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestStatus(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Tanks: collector.DemoTanks()}, "")
	rr := do(s, http.MethodGet, "/status", nil)
	var st coordinator.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.State != model.StateIdle || st.LastResult != model.StateSuccess || st.TankCount != 2 {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestRefresh(t *testing.T) {
	fetcher := &collector.MockFetcher{Tanks: collector.DemoTanks()}
	s, _ := newTestServer(t, fetcher, "")

	if rr := do(s, http.MethodPost, "/refresh", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if fetcher.TankCalls() != 2 {
		t.Errorf("expected a second fetch, got %d", fetcher.TankCalls())
	}

	fetcher.SetTanks(nil, collector.ErrCannotConnect)
	if rr := do(s, http.MethodPost, "/refresh", nil); rr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rr.Code)
	}
}

func TestRefresh_SurvivesClientDisconnect(t *testing.T) {
	fetcher := &collector.MockFetcher{}
	var hangUp context.CancelFunc
	fetcher.TanksFunc = func(ctx context.Context) ([]model.TankRecord, error) {
		if hangUp != nil {
			hangUp()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
		}
		return collector.DemoTanks(), nil
	}
	s, coord := newTestServer(t, fetcher, "")

	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hangUp = cancel
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil).WithContext(reqCtx)
	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !coord.LastRefreshSuccess() {
		t.Errorf("expected refresh to succeed after client hang-up, last error: %v", coord.LastError())
	}
}

func TestRefresh_ConflictWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var blocking bool
	fetcher := &collector.MockFetcher{}
	fetcher.TanksFunc = func(ctx context.Context) ([]model.TankRecord, error) {
		if blocking {
			started <- struct{}{}
			<-release
		}
		return collector.DemoTanks(), nil
	}
	s, coord := newTestServer(t, fetcher, "")

	blocking = true
	done := make(chan error, 1)
	go func() { done <- coord.Refresh(context.Background(), model.TriggerScheduled) }()
	<-started

	if rr := do(s, http.MethodPost, "/refresh", nil); rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("background refresh: %v", err)
	}
}

func TestRefreshLog_InvalidLimit(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Tanks: collector.DemoTanks()}, "")
	if rr := do(s, http.MethodGet, "/refreshes?limit=0", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	rr := do(s, http.MethodGet, "/refreshes", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Count != 0 {
		t.Errorf("expected empty log from noop recorder, got %d", body.Count)
	}
}

func TestBearerAuth(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Tanks: collector.DemoTanks()}, "secret")

	if rr := do(s, http.MethodGet, "/sensors", nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rr.Code)
	}
	if rr := do(s, http.MethodGet, "/sensors", map[string]string{"Authorization": "Bearer wrong"}); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", rr.Code)
	}
	if rr := do(s, http.MethodGet, "/sensors", map[string]string{"Authorization": "Bearer secret"}); rr.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", rr.Code)
	}
}
