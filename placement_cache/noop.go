package placement_cache

import (
	"context"

	"github.com/kartwerk/riverlabel/placement"
)

var _ Cache = (*NoopCache)(nil)

type NoopCache struct{}

func (*NoopCache) Name() string { return "no-op" }

func (*NoopCache) Get(context.Context, string) ([]placement.Placement, bool, error) {
	return nil, false, nil
}

func (*NoopCache) Set(context.Context, string, []placement.Placement) error {
	return nil
}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}
