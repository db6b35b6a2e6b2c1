package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/storefront-harvester/internal/entity"
)

func testProfile(field entity.FieldKind, maxPages int) entity.PageProfile {
	p := entity.CommentProfile()
	p.Name = "test"
	p.Field = field
	if field == entity.FieldAttribute {
		p.Attribute = "href"
	}
	p.MaxPages = maxPages
	p.Settle = entity.SettlePolicy{Interval: time.Millisecond, Timeout: 5 * time.Millisecond}
	return p
}

func TestExtractFollowsPagesInOrder(t *testing.T) {
	profile := testProfile(entity.FieldText, 5)
	d := newFakeDriver(profile, []string{"a", "b"}, []string{"b", "c"}, []string{"d"})

	result := NewPaginationExtractor(d, profile).Extract(context.Background(), "https://example.com/p")

	require.Equal(t, entity.StopNoNextControl, result.Stop)
	require.Equal(t, 3, result.Pages)
	require.Equal(t, []string{"a", "b", "b", "c", "d"}, result.Texts())
	require.Equal(t, entity.SeedTarget("https://example.com/p"), result.Seed)
	require.Equal(t, []int{1200, 1200, 1200}, d.scrolls)
	require.True(t, result.Succeeded())
}

func TestExtractStopsAtCap(t *testing.T) {
	profile := testProfile(entity.FieldText, 2)
	d := newFakeDriver(profile, []string{"a"}, []string{"b"}, []string{"c"}, []string{"d"})

	result := NewPaginationExtractor(d, profile).Extract(context.Background(), "https://example.com/p")

	require.Equal(t, entity.StopExhausted, result.Stop)
	require.Equal(t, 2, result.Pages)
	require.Equal(t, []string{"a", "b"}, result.Texts())
}

func TestExtractAttributesSkipAbsent(t *testing.T) {
	profile := testProfile(entity.FieldAttribute, 1)
	d := newFakeDriver(profile, []string{"https://x/1", "", "https://x/2"})

	result := NewPaginationExtractor(d, profile).Extract(context.Background(), "https://example.com/list")

	require.Equal(t, []string{"https://x/1", "https://x/2"}, result.Texts())
}

func TestExtractDismissesOverlays(t *testing.T) {
	profile := testProfile(entity.FieldText, 3)
	d := newFakeDriver(profile, []string{"a"}, []string{"b"})
	d.overlays[profile.PromoOverlay.Value] = 2
	d.overlays[profile.CloseOverlay.Value] = 1

	result := NewPaginationExtractor(d, profile).Extract(context.Background(), "https://example.com/p")

	require.Equal(t, []string{"a", "b"}, result.Texts())
	require.Equal(t, []string{
		profile.PromoOverlay.Value,
		profile.CloseOverlay.Value,
		profile.PromoOverlay.Value,
		profile.Next.Value,
	}, d.clicks)
}

func TestExtractAbsorbsLookupFailures(t *testing.T) {
	profile := testProfile(entity.FieldText, 3)
	d := newFakeDriver(profile, []string{"a"}, []string{"b"})
	d.findErr = errBoom

	result := NewPaginationExtractor(d, profile).Extract(context.Background(), "https://example.com/p")

	require.Equal(t, entity.StopNoNextControl, result.Stop)
	require.Equal(t, 1, result.Pages)
	require.Empty(t, result.Records)
}

func TestExtractCanceled(t *testing.T) {
	profile := testProfile(entity.FieldText, 3)
	d := newFakeDriver(profile, []string{"a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := NewPaginationExtractor(d, profile).Extract(ctx, "https://example.com/p")

	require.Equal(t, entity.StopCanceled, result.Stop)
	require.Zero(t, result.Pages)
	require.NotNil(t, result.Records)
}
