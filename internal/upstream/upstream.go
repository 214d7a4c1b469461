// Package upstream defines the contract shared by warranty data providers
// and routes service tags to one of them.
package upstream

import (
	"context"

	"github.com/device-ops/warranty-cache/internal/model"
)

// Fetcher produces a warranty record for a service tag from one provider.
type Fetcher interface {
	// Fetch fails with ErrNoRecord, *UnavailableError or *FormatError;
	// callers treat all three the same way: the cache stays unpopulated
	// for this attempt.
	Fetch(ctx context.Context, serviceTag string) (model.WarrantyRecord, error)
}

// Source identifies a warranty data provider.
type Source string

const (
	// SourceDell is the Dell asset-warranty REST API.
	SourceDell Source = "dell"

	// SourceMicrosoft is the Microsoft flat-file warranty export.
	SourceMicrosoft Source = "microsoft"
)

// minMicrosoftTagLen splits the two vendors' tag populations: Microsoft
// serials run 12+ characters, Dell service tags are shorter.
const minMicrosoftTagLen = 12

// Select routes a service tag by its length alone. This is a heuristic
// over observed tag shapes, not a validated device-type check.
func Select(serviceTag string) Source {
	if len(serviceTag) >= minMicrosoftTagLen {
		return SourceMicrosoft
	}
	return SourceDell
}
