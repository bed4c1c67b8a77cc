package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

type mapCache struct {
	items map[string]domain.LinkPreview
	err   error
}

func newMapCache() *mapCache { return &mapCache{items: map[string]domain.LinkPreview{}} }

func (m *mapCache) GetPreview(_ context.Context, rawURL string) (*domain.LinkPreview, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.items[rawURL]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mapCache) SetPreview(_ context.Context, rawURL string, p domain.LinkPreview, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.items[rawURL] = p
	return nil
}

func TestLRUCache(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, time.Minute)

	p, err := c.GetPreview(ctx, "https://a.example")
	require.NoError(t, err)
	assert.Nil(t, p)

	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		require.NoError(t, c.SetPreview(ctx, u, domain.FallbackPreview(u), 0))
	}
	assert.Equal(t, 2, c.Len())

	p, err = c.GetPreview(ctx, "https://a.example")
	require.NoError(t, err)
	assert.Nil(t, p, "oldest entry is evicted")

	p, err = c.GetPreview(ctx, "https://c.example")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "https://c.example", p.Title)
}

func TestTieredCache_BackfillsEarlierTiers(t *testing.T) {
	ctx := context.Background()
	near, far := newMapCache(), newMapCache()
	far.items["https://x.example"] = domain.LinkPreview{Title: "far", Type: domain.SourceOther}

	tiers := TieredCache{near, far}
	p, err := tiers.GetPreview(ctx, "https://x.example")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "far", p.Title)
	assert.Equal(t, "far", near.items["https://x.example"].Title)
}

func TestTieredCache_SkipsBrokenTier(t *testing.T) {
	ctx := context.Background()
	broken := &mapCache{err: errors.New("redis down")}
	good := newMapCache()
	tiers := TieredCache{broken, good}

	err := tiers.SetPreview(ctx, "https://y.example", domain.LinkPreview{Title: "y"}, time.Minute)
	assert.Error(t, err)
	assert.Equal(t, "y", good.items["https://y.example"].Title)

	p, err := tiers.GetPreview(ctx, "https://y.example")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "y", p.Title)
}

func TestTieredCache_MissReportsTierError(t *testing.T) {
	tiers := TieredCache{&mapCache{err: errors.New("redis down")}, newMapCache()}
	p, err := tiers.GetPreview(context.Background(), "https://z.example")
	assert.Nil(t, p)
	assert.Error(t, err)
}
