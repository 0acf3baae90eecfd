package metrics_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/airsim/doxysearch/internal/metrics"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.CacheHitsTotal.Inc()
	m.LookupsTotal.WithLabelValues("hit").Add(2)
	m.TableEntries.Set(4)

	if got := testutil.ToFloat64(m.CacheHitsTotal); got != 1 {
		t.Errorf("cache_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LookupsTotal.WithLabelValues("hit")); got != 2 {
		t.Errorf("lookups_total{hit} = %v, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"doxysearch_cache_hits_total", "doxysearch_lookups_total", "doxysearch_table_entries"} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	// two services in one process must not collide
	metrics.New(prometheus.NewRegistry())
	metrics.New(prometheus.NewRegistry())
}

func TestStartServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ReloadsTotal.WithLabelValues("success").Inc()

	addr, shutdown, err := metrics.StartServer("127.0.0.1:0", reg)
	if err != nil {
		t.Fatalf("StartServer() failed: %v", err)
	}
	defer shutdown(context.Background())

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `doxysearch_reloads_total{status="success"} 1`) {
		t.Errorf("scrape output missing reload counter:\n%s", body)
	}
}
