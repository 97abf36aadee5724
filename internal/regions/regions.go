package regions

import (
	pkgerrors "bamroute/pkg/errors"
)

// Region is one known BAM deployment. BamURL is the scheduler endpoint
// used for latency probing; TxURL is the transaction submission endpoint
// and may be empty when the region does not expose one yet.
type Region struct {
	Code   string
	BamURL string
	TxURL  string
}

// HasTxURL reports whether the region exposes its own submission
// endpoint. Regions without one submit through FallbackTxURL.
func (r Region) HasTxURL() bool {
	return r.TxURL != ""
}

// DefaultCode is the region used when no probe succeeds anywhere.
const DefaultCode = "ny"

// FallbackTxURL is the catch-all testnet endpoint used when a region
// defines no submission URL of its own.
const FallbackTxURL = "https://testnet.block-engine.jito.wtf/api/v1/transactions"

// Regions is the canonical region table, in priority order. Earlier
// entries win latency ties.
var Regions = []Region{
	{
		Code:   "ny",
		BamURL: "http://ny.testnet.bam.jito.wtf",
		TxURL:  "https://ny.testnet.block-engine.jito.wtf/api/v1/transactions",
	},
	{
		Code:   "dallas",
		BamURL: "http://dallas.testnet.bam.jito.wtf",
		TxURL:  "https://dallas.testnet.block-engine.jito.wtf/api/v1/transactions",
	},
	{
		Code:   "slc",
		BamURL: "http://slc.testnet.bam.jito.wtf",
		// No dedicated TX endpoint exposed yet; submissions fall back.
	},
}

// Default returns the fallback region used when every probe fails.
func Default() Region {
	for _, r := range Regions {
		if r.Code == DefaultCode {
			return r
		}
	}
	return Regions[0]
}

// Lookup finds a region by exact code match.
func Lookup(code string) (Region, error) {
	for _, r := range Regions {
		if r.Code == code {
			return r, nil
		}
	}
	return Region{}, &pkgerrors.RegionError{Code: code, Err: pkgerrors.ErrUnknownRegion}
}

// Codes returns the region codes in table order.
func Codes() []string {
	codes := make([]string, len(Regions))
	for i, r := range Regions {
		codes[i] = r.Code
	}
	return codes
}

// TxEndpointFor resolves the submission URL for a region, falling back
// to the shared testnet endpoint when the region defines none.
func TxEndpointFor(r Region) string {
	if r.HasTxURL() {
		return r.TxURL
	}
	return FallbackTxURL
}

// ProbeURL is the target used for latency probing. Regions are probed
// at their submission endpoint when one exists, otherwise at the
// scheduler endpoint. The full URL is kept so probe strategies see the
// scheme, not just a host and port.
func ProbeURL(r Region) string {
	if r.HasTxURL() {
		return r.TxURL
	}
	return r.BamURL
}
