package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/pipeline"
	"github.com/matzehuels/cortex/pkg/report"
	"github.com/matzehuels/cortex/pkg/session"
)

func newTestServer(t *testing.T) (*Server, *session.MemoryStore) {
	t.Helper()
	logger := log.NewWithOptions(&strings.Builder{}, log.Options{})
	store := session.NewMemoryStore()
	runner := pipeline.NewRunner(nil, store, logger)
	cfg := Config{MaxBodyBytes: 1 << 20}
	return New(cfg, runner, logger), store
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decodeBody[healthResponse](t, rec)
	if got.Status != "ok" || got.Store != "memory" || got.CatalogVersion == "" {
		t.Errorf("health = %+v", got)
	}
}

func TestCatalog(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got struct {
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Categories) != 5 || got.Categories[1].Name != "Growth" {
		t.Errorf("categories = %+v", got.Categories)
	}
}

func TestMindmap(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("json", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/mindmap?objective=Growth", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}
		g := decodeBody[mindmap.Graph](t, rec)
		if g.Focus != "Growth" {
			t.Errorf("Focus = %q, want Growth", g.Focus)
		}
		if got := len(g.Tier(mindmap.TierSub)); got != 4 {
			t.Errorf("sub nodes = %d, want 4", got)
		}
		if len(g.Edges) != len(g.Nodes)-1 {
			t.Errorf("edges = %d, nodes = %d, want a tree", len(g.Edges), len(g.Nodes))
		}
	})

	t.Run("unknown objective", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/mindmap?objective=Nope", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		g := decodeBody[mindmap.Graph](t, rec)
		if got := len(g.Nodes); got != 6 {
			t.Errorf("nodes = %d, want 6 (center + 5 main)", got)
		}
	})

	t.Run("dot", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/mindmap?objective=Growth&format=dot", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
			t.Errorf("Content-Type = %q", ct)
		}
		if !strings.HasPrefix(rec.Body.String(), "graph G {") {
			t.Errorf("body does not start with graph header: %q", rec.Body.String()[:20])
		}
	})

	t.Run("bad format", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/mindmap?objective=Growth&format=png", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if got := decodeBody[errorResponse](t, rec); got.Code != errors.ErrCodeInvalidFormat {
			t.Errorf("code = %s, want %s", got.Code, errors.ErrCodeInvalidFormat)
		}
	})
}

func TestAllocation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
		code   errors.Code
	}{
		{"ok", "/api/allocation?vertical=Tech&objective=Growth", http.StatusOK, ""},
		{"with budget", "/api/allocation?vertical=Tech&objective=Growth&budget=%24100K-%24250K", http.StatusOK, ""},
		{"missing vertical", "/api/allocation?objective=Growth", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown vertical", "/api/allocation?vertical=Mining&objective=Growth", http.StatusBadRequest, errors.ErrCodeConfiguration},
		{"unknown objective", "/api/allocation?vertical=Tech&objective=Nope", http.StatusBadRequest, errors.ErrCodeConfiguration},
		{"bad chart", "/api/allocation?vertical=Tech&objective=Growth&chart=bar", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if tt.code != "" {
				if got := decodeBody[errorResponse](t, rec); got.Code != tt.code {
					t.Errorf("code = %s, want %s", got.Code, tt.code)
				}
			}
		})
	}

	rec := do(t, s, http.MethodGet, "/api/allocation?vertical=Tech&objective=Growth&budget=%24100K-%24250K", "")
	got := decodeBody[pipeline.Allocation](t, rec)
	var sum float64
	for _, v := range got.Table {
		sum += v
	}
	if sum < 100-1e-6 || sum > 100+1e-6 {
		t.Errorf("allocation sums to %v, want 100", sum)
	}
	if len(got.Budget) != len(got.Table) {
		t.Errorf("budget has %d channels, want %d", len(got.Budget), len(got.Table))
	}
}

func TestAllocationChart(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/allocation?vertical=Tech&objective=Growth&chart=pie", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentSVG {
		t.Errorf("Content-Type = %q, want %q", ct, contentSVG)
	}
	if !strings.Contains(rec.Body.String(), `class="slice"`) {
		t.Error("pie chart has no slices")
	}
}

const growthBody = `{"objective":"Growth","vertical":"Tech","stage":"Growing","budget":"$100K-$250K","priorities":["Increase sales volume"]}`

func TestPlanLifecycle(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/plans", growthBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body)
	}
	created := decodeBody[planResponse](t, rec)
	if created.State.ID == "" {
		t.Fatal("created plan has no id")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
	if !strings.Contains(created.State.FinalPlan, "Leverage performance marketing") {
		t.Errorf("final plan missing recommendation:\n%s", created.State.FinalPlan)
	}

	rec = do(t, s, http.MethodGet, "/api/plans/"+created.State.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	got := decodeBody[report.State](t, rec)
	if diff := cmp.Diff(created.State.Selections, got.Selections); diff != "" {
		t.Errorf("selections mismatch (-created +got):\n%s", diff)
	}
	if !got.GeneratedAt.Equal(created.State.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, created.State.GeneratedAt)
	}

	rec = do(t, s, http.MethodGet, "/api/plans/"+created.State.ID+"/report.txt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != created.State.FinalPlan {
		t.Errorf("report body differs from saved final plan")
	}

	regen := `{"plan_id":"` + created.State.ID + `","objective":"Awareness","vertical":"CPG","stage":"New","budget":"Under $50K"}`
	rec = do(t, s, http.MethodPost, "/api/plans", regen)
	if rec.Code != http.StatusOK {
		t.Fatalf("regenerate status = %d, want 200: %s", rec.Code, rec.Body)
	}
	updated := decodeBody[planResponse](t, rec)
	if updated.State.ID != created.State.ID {
		t.Errorf("regenerated id = %q, want %q", updated.State.ID, created.State.ID)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() after regenerate = %d, want 1", store.Len())
	}

	rec = do(t, s, http.MethodDelete, "/api/plans/"+created.State.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/plans/"+created.State.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
	if got := decodeBody[errorResponse](t, rec); got.Code != errors.ErrCodePlanNotFound {
		t.Errorf("code = %s, want %s", got.Code, errors.ErrCodePlanNotFound)
	}
}

func TestCreatePlanErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed", `{"objective":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"objective":"Growth","colour":"red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing budget", `{"objective":"Growth","vertical":"Tech"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown stage", `{"objective":"Growth","vertical":"Tech","stage":"Dormant","budget":"$100K-$250K"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown vertical", `{"objective":"Growth","vertical":"Mining","budget":"$100K-$250K"}`, http.StatusBadRequest, errors.ErrCodeConfiguration},
		{"missing plan", `{"plan_id":"nope","objective":"Growth","vertical":"Tech","budget":"$100K-$250K"}`, http.StatusNotFound, errors.ErrCodePlanNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/plans", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if got := decodeBody[errorResponse](t, rec); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeBody[errorResponse](t, rec); got.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %s, want %s", got.Code, errors.ErrCodeNotFound)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Configuration("bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidFormat, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodePlanNotFound, "gone"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "no"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "boom"), http.StatusInternalServerError},
		{http.ErrHandlerTimeout, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CORTEX_ADDR", ":9090")
	t.Setenv("CORTEX_REDIS_ADDR", "localhost:6379")
	t.Setenv("CORTEX_PLAN_TTL", "1h")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := Config{
		Addr:              ":9090",
		RedisAddr:         "localhost:6379",
		PlanTTL:           time.Hour,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxBodyBytes:      1 << 20,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("CORTEX_PLAN_TTL", "forever")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with bad duration returned nil error")
	}
}
