package regions_test

import (
	"errors"
	"testing"

	"bamroute/internal/regions"
	pkgerrors "bamroute/pkg/errors"
)

func TestLookup(t *testing.T) {
	r, err := regions.Lookup("ny")
	if err != nil {
		t.Fatalf("Lookup(ny) failed: %v", err)
	}
	if r.Code != "ny" {
		t.Errorf("Lookup(ny) returned region %q", r.Code)
	}
	if !r.HasTxURL() {
		t.Error("ny should have its own tx endpoint")
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := regions.Lookup("does-not-exist")
	if err == nil {
		t.Fatal("Lookup of unknown code should fail")
	}
	if !errors.Is(err, pkgerrors.ErrUnknownRegion) {
		t.Errorf("expected ErrUnknownRegion, got %v", err)
	}
	var re *pkgerrors.RegionError
	if !errors.As(err, &re) || re.Code != "does-not-exist" {
		t.Errorf("expected RegionError carrying the code, got %v", err)
	}
}

func TestDefault(t *testing.T) {
	if got := regions.Default().Code; got != regions.DefaultCode {
		t.Errorf("Default() = %q, want %q", got, regions.DefaultCode)
	}
}

func TestTxEndpointFor(t *testing.T) {
	ny, _ := regions.Lookup("ny")
	if got := regions.TxEndpointFor(ny); got != ny.TxURL {
		t.Errorf("TxEndpointFor(ny) = %q, want its own tx url", got)
	}

	slc, _ := regions.Lookup("slc")
	if slc.HasTxURL() {
		t.Fatal("test assumes slc has no tx endpoint")
	}
	if got := regions.TxEndpointFor(slc); got != regions.FallbackTxURL {
		t.Errorf("TxEndpointFor(slc) = %q, want fallback %q", got, regions.FallbackTxURL)
	}
}

func TestProbeURL(t *testing.T) {
	tests := []struct {
		name   string
		region regions.Region
		want   string
	}{
		{
			name:   "tx url preferred over bam url",
			region: regions.Region{Code: "a", BamURL: "http://bam.example.com", TxURL: "https://tx.example.com/api/v1/transactions"},
			want:   "https://tx.example.com/api/v1/transactions",
		},
		{
			name:   "bam url when no tx endpoint",
			region: regions.Region{Code: "b", BamURL: "http://b.example.com"},
			want:   "http://b.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := regions.ProbeURL(tt.region); got != tt.want {
				t.Errorf("ProbeURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProbeURLKeepsScheme(t *testing.T) {
	// Every region with its own tx endpoint is probed at that https
	// URL; reducing it to host:port would lose the TLS requirement.
	for _, r := range regions.Regions {
		target := regions.ProbeURL(r)
		if r.HasTxURL() && target != r.TxURL {
			t.Errorf("region %s probed at %q, want its tx url", r.Code, target)
		}
		if !r.HasTxURL() && target != r.BamURL {
			t.Errorf("region %s probed at %q, want its bam url", r.Code, target)
		}
	}
}

func TestCodesOrder(t *testing.T) {
	codes := regions.Codes()
	if len(codes) != len(regions.Regions) {
		t.Fatalf("Codes() returned %d entries, want %d", len(codes), len(regions.Regions))
	}
	for i, r := range regions.Regions {
		if codes[i] != r.Code {
			t.Errorf("Codes()[%d] = %q, want %q", i, codes[i], r.Code)
		}
	}
}
