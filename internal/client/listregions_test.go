package client_test

import (
	"context"
	"net/http"
	"testing"

	"bamroute/internal/client"
	"bamroute/internal/latency"
	"bamroute/internal/regions"
	"bamroute/internal/router"
)

func TestListRegions(t *testing.T) {
	table := []regions.Region{
		{Code: "a", BamURL: "http://a.example.com"},
		{Code: "b", BamURL: "http://b.example.com"},
		{Code: "c", BamURL: "http://c.example.com"},
	}
	// a unreachable, b 80ms, c 40ms.
	r := router.New(router.Config{
		Prober: latency.NewProber(latency.ProberConfig{
			Count: 3,
			Strategy: &fakeStrategy{latencies: map[string]float64{
				"http://b.example.com": 80,
				"http://c.example.com": 40,
			}},
		}),
		Table: table,
	})

	c := client.New(client.Config{
		Router:     r,
		HTTPClient: &http.Client{},
		Logf:       func(string, ...any) {},
	})

	infos := c.ListRegions(context.Background(), nil)
	if len(infos) != 3 {
		t.Fatalf("got %d regions, want 3", len(infos))
	}

	byCode := map[string]client.RegionInfo{}
	for _, info := range infos {
		byCode[info.Region] = info
	}

	if byCode["a"].AvgMS != nil {
		t.Errorf("region a average = %v, want undefined", *byCode["a"].AvgMS)
	}
	if byCode["a"].Fastest {
		t.Error("unreachable region a must not be marked fastest")
	}
	if avg := byCode["b"].AvgMS; avg == nil || *avg != 80 {
		t.Errorf("region b average = %v, want 80", avg)
	}
	if !byCode["c"].Fastest {
		t.Error("region c should be marked fastest")
	}
	if avg := byCode["c"].AvgMS; avg == nil || *avg != 40 {
		t.Errorf("region c average = %v, want 40", avg)
	}
	if len(byCode["c"].SamplesMS) != 3 {
		t.Errorf("region c has %d samples, want 3", len(byCode["c"].SamplesMS))
	}

	// Regions without their own tx endpoint list the shared fallback.
	if byCode["a"].TxURL != regions.FallbackTxURL {
		t.Errorf("region a tx url = %q, want fallback", byCode["a"].TxURL)
	}
}
