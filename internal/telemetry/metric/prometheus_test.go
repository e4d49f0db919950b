package metric

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.registry == nil {
		t.Fatal("registry field is nil")
	}
	if r.OpsTotal == nil || r.OpDuration == nil || r.Enumerations == nil || r.ContainerSize == nil {
		t.Error("metrics not initialised")
	}
}

func TestGlobal(t *testing.T) {
	if Global() != Global() {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler(t *testing.T) {
	body := scrape(t, Handler())

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestOpMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordOp("cow", "list", "add", nil)
	r.RecordOp("cow", "list", "add", nil)
	r.RecordOp("locked", "map", "get", errors.New("missing"))
	r.ObserveOpDuration("cow", "list", "add", 0.000002)
	r.IncEnumerations("cow", "list")

	body := scrape(t, r.Handler())

	wants := []string{
		`collstress_ops_total{op="add",result="ok",shape="list",variant="cow"} 2`,
		`collstress_ops_total{op="get",result="error",shape="map",variant="locked"} 1`,
		`collstress_op_duration_seconds_count{op="add",shape="list",variant="cow"} 1`,
		`collstress_enumerations_total{shape="list",variant="cow"} 1`,
	}
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestCollector_Track(t *testing.T) {
	r := NewRegistry()

	size := 3
	r.ContainerSize.Track("locked", "map", func() (int, error) { return size, nil })
	r.ContainerSize.Track("cow", "list", func() (int, error) { return 0, errors.New("disposed") })

	body := scrape(t, r.Handler())
	if !strings.Contains(body, `collstress_container_items{shape="map",variant="locked"} 3`) {
		t.Errorf("expected container_items 3, got:\n%s", body)
	}
	if strings.Contains(body, `collstress_container_items{shape="list",variant="cow"}`) {
		t.Error("failing sources should be skipped")
	}

	size = 7
	body = scrape(t, r.Handler())
	if !strings.Contains(body, `collstress_container_items{shape="map",variant="locked"} 7`) {
		t.Error("collector should sample the size at scrape time")
	}

	r.ContainerSize.Untrack("locked", "map")
	body = scrape(t, r.Handler())
	if strings.Contains(body, "collstress_container_items{") {
		t.Error("untracked source still exported")
	}
}

func TestRegistry_Isolated(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.RecordOp("cow", "map", "set", nil)

	if strings.Contains(scrape(t, b.Handler()), `collstress_ops_total{op="set"`) {
		t.Error("registries should not share collectors")
	}
}
