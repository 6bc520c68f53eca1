package view

import (
	"testing"
	"time"

	"listing-web/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(n int) []domain.PropertyRecord {
	out := make([]domain.PropertyRecord, n)
	for i := range out {
		out[i] = domain.PropertyRecord{ID: string(rune('A' + i)), Images: []string{"img"}}
	}
	return out
}

func TestListingView_MountStartsInitialLoading(t *testing.T) {
	v := NewListingView(ListingConfig{InitialDelay: time.Hour, PageChangeDelay: time.Hour})
	defer v.Unmount()

	v.Mount()
	snap := v.Render(records(20))

	assert.True(t, snap.Busy)
	assert.Greater(t, snap.BusyFor, 59*time.Minute)
	assert.False(t, snap.ScrollToTop)
	assert.Equal(t, 1, snap.Page.Pagination.CurrentPage)
	assert.Len(t, snap.Page.Items, 8)
}

func TestListingView_ChangePage(t *testing.T) {
	v := NewListingView(ListingConfig{PageChangeDelay: time.Hour})
	defer v.Unmount()
	v.Mount()

	assert.False(t, v.Render(records(20)).Busy, "zero initial delay means not busy")

	assert.False(t, v.ChangePage(1), "same page is a no-op")
	require.True(t, v.ChangePage(3))
	assert.Equal(t, 3, v.CurrentPage())

	snap := v.Render(records(20))
	assert.True(t, snap.Busy)
	assert.True(t, snap.ScrollToTop)
	assert.Equal(t, records(20)[16:], snap.Page.Items)
	assert.False(t, snap.Page.Pagination.HasNext())

	assert.False(t, v.Render(records(20)).ScrollToTop, "scroll flag is consumed")
}

func TestListingView_RapidPageChangesKeepLatestTimer(t *testing.T) {
	v := NewListingView(ListingConfig{PageChangeDelay: 120 * time.Millisecond})
	defer v.Unmount()
	v.Mount()

	v.ChangePage(2)
	time.Sleep(70 * time.Millisecond)
	v.ChangePage(3)
	time.Sleep(70 * time.Millisecond)

	// таймер второй страницы уже истек бы, но был отменен
	assert.True(t, v.Render(records(30)).Busy)
	assert.Eventually(t, func() bool { return !v.Render(records(30)).Busy }, time.Second, 5*time.Millisecond)
}

func TestListingView_ChangePageBeforeMount(t *testing.T) {
	v := NewListingView(ListingConfig{})
	assert.False(t, v.ChangePage(2))
	assert.Equal(t, 1, v.CurrentPage())
}

func TestListingView_UnmountCancelsTimersAndResets(t *testing.T) {
	v := NewListingView(ListingConfig{InitialDelay: time.Hour, PageChangeDelay: time.Hour})
	v.Mount()
	v.ChangePage(2)

	v.Unmount()

	snap := v.Render(records(20))
	assert.False(t, snap.Busy)
	assert.Equal(t, 1, snap.Page.Pagination.CurrentPage)

	v.Mount()
	assert.True(t, v.Render(records(20)).Busy, "remount starts the initial loading again")
	v.Unmount()
}

func TestListingView_RenderClampsWhenListShrinks(t *testing.T) {
	v := NewListingView(ListingConfig{})
	defer v.Unmount()
	v.Mount()
	v.ChangePage(3)

	snap := v.Render(records(10))
	assert.Equal(t, 2, snap.Page.Pagination.CurrentPage)
	assert.Equal(t, 2, v.CurrentPage())
}

func TestListingView_EmptyListing(t *testing.T) {
	v := NewListingView(ListingConfig{})
	defer v.Unmount()
	v.Mount()

	snap := v.Render(nil)
	assert.Equal(t, 0, snap.Page.Pagination.TotalPages)
	assert.Empty(t, snap.Page.Items)
	assert.Empty(t, snap.Page.Controls)
}
