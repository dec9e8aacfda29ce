package interaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adyen/productpage/internal/interaction"
	"github.com/adyen/productpage/internal/models"
	"github.com/adyen/productpage/internal/models/testutil"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestMachine creates a machine on a virtual clock with the default timings
func newTestMachine(t *testing.T, opts ...interaction.Option) (*interaction.Machine, *interaction.ManualClock) {
	t.Helper()
	clock := interaction.NewManualClock(epoch)
	m, err := interaction.New(testutil.SneakerProduct(), append([]interaction.Option{interaction.WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, clock
}

func TestNew_Defaults(t *testing.T) {
	// GIVEN
	product := testutil.SneakerProduct()

	// WHEN
	m, _ := newTestMachine(t)
	s := m.Snapshot()

	// THEN
	assert.Equal(t, product.Colors[0], s.SelectedColor)
	assert.Equal(t, product.Sizes[1], s.SelectedSize)
	assert.Equal(t, 1, s.Quantity)
	assert.Equal(t, product.Images[0], s.SelectedImage)
	assert.False(t, s.ZoomActive)
	assert.Equal(t, interaction.ZoomPosition{}, s.ZoomPosition)
	assert.Equal(t, models.SectionNone, s.ExpandedSection)
	assert.Equal(t, models.CartIdle, s.CartRequest)
	assert.Zero(t, s.Revision)
}

func TestNew_SingleSizeDefaultsToFirst(t *testing.T) {
	product := testutil.SneakerProduct()
	product.Sizes = product.Sizes[:1]

	m, err := interaction.New(product)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "US 7", m.Snapshot().SelectedSize.Name)
}

func TestNew_WithDefaultSize(t *testing.T) {
	m, _ := newTestMachine(t, interaction.WithDefaultSize("US 11"))
	assert.Equal(t, "US 11", m.Snapshot().SelectedSize.Name)

	_, err := interaction.New(testutil.SneakerProduct(), interaction.WithDefaultSize("US 15"))
	assert.ErrorIs(t, err, interaction.ErrUnknownSize)
}

func TestNew_InvalidProduct(t *testing.T) {
	product := testutil.SneakerProduct()
	product.Images = nil

	_, err := interaction.New(product)
	assert.ErrorIs(t, err, models.ErrNoImages)
}

func TestMachine_SelectColor(t *testing.T) {
	m, _ := newTestMachine(t)

	for _, color := range testutil.SneakerProduct().Colors {
		require.NoError(t, m.SelectColor(color.Name))
		assert.Equal(t, color, m.Snapshot().SelectedColor)
	}
}

func TestMachine_InvalidSelectionsLeaveStateUnchanged(t *testing.T) {
	m, _ := newTestMachine(t)
	before := m.Snapshot()

	assert.ErrorIs(t, m.SelectColor("Red"), interaction.ErrUnknownColor)
	assert.ErrorIs(t, m.SelectSize("US 42"), interaction.ErrUnknownSize)
	assert.ErrorIs(t, m.SelectImage(99), interaction.ErrUnknownImage)
	assert.ErrorIs(t, m.ToggleSection(models.SectionNone), interaction.ErrInvalidSection)
	assert.ErrorIs(t, m.ToggleSection("specs"), interaction.ErrInvalidSection)

	assert.Equal(t, before, m.Snapshot())
}

func TestMachine_SelectOutOfStockSize(t *testing.T) {
	m, _ := newTestMachine(t)

	require.NoError(t, m.SelectSize("US 10"))

	s := m.Snapshot()
	assert.Equal(t, "US 10", s.SelectedSize.Name)
	assert.False(t, s.SelectedSize.InStock)
	assert.False(t, s.CanAddToCart())
}

func TestMachine_SetQuantityClamps(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{input: -100, want: 1},
		{input: -1, want: 1},
		{input: 0, want: 1},
		{input: 1, want: 1},
		{input: 5, want: 5},
		{input: 10, want: 10},
		{input: 11, want: 10},
		{input: 1 << 30, want: 10},
	}

	for _, tt := range tests {
		m, _ := newTestMachine(t)
		m.SetQuantity(tt.input)
		assert.Equal(t, tt.want, m.Snapshot().Quantity, "SetQuantity(%d)", tt.input)
	}
}

func TestMachine_IncrementSaturates(t *testing.T) {
	m, _ := newTestMachine(t)

	for range 15 {
		m.IncrementQuantity()
	}

	s := m.Snapshot()
	assert.Equal(t, 10, s.Quantity)
	assert.False(t, s.CanIncrement())
	assert.True(t, s.CanDecrement())
}

func TestMachine_DecrementFloors(t *testing.T) {
	m, _ := newTestMachine(t)

	for range 5 {
		m.DecrementQuantity()
	}

	s := m.Snapshot()
	assert.Equal(t, 1, s.Quantity)
	assert.False(t, s.CanDecrement())
}

func TestMachine_ToggleSection(t *testing.T) {
	m, _ := newTestMachine(t)

	// Opening another section collapses the open one
	require.NoError(t, m.ToggleSection(models.SectionShipping))
	require.NoError(t, m.ToggleSection(models.SectionReviews))

	s := m.Snapshot()
	assert.Equal(t, models.SectionReviews, s.ExpandedSection)
	assert.False(t, s.IsExpanded(models.SectionShipping))
	assert.False(t, s.IsExpanded(models.SectionDescription))

	// Toggling the open section collapses it
	require.NoError(t, m.ToggleSection(models.SectionReviews))
	assert.Equal(t, models.SectionNone, m.Snapshot().ExpandedSection)
}

func TestMachine_Zoom(t *testing.T) {
	t.Run("position is ignored while zoom is off", func(t *testing.T) {
		m, _ := newTestMachine(t)
		before := m.Snapshot()

		m.UpdateZoomPosition(50, 50, 100, 100)

		assert.Equal(t, before, m.Snapshot())
	})

	t.Run("position is a clamped percentage", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.ToggleZoom()

		m.UpdateZoomPosition(200, 50, 800, 400)
		assert.Equal(t, interaction.ZoomPosition{X: 25, Y: 12.5}, m.Snapshot().ZoomPosition)

		m.UpdateZoomPosition(-10, 900, 800, 400)
		assert.Equal(t, interaction.ZoomPosition{X: 0, Y: 100}, m.Snapshot().ZoomPosition)
	})

	t.Run("empty bounds are ignored", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.ToggleZoom()
		before := m.Snapshot()

		m.UpdateZoomPosition(10, 10, 0, 100)
		m.UpdateZoomPosition(10, 10, 100, -1)

		assert.Equal(t, before, m.Snapshot())
	})

	t.Run("leaving the area turns zoom off", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.ToggleZoom()
		require.True(t, m.Snapshot().ZoomActive)

		m.LeaveZoomArea()
		assert.False(t, m.Snapshot().ZoomActive)

		m.LeaveZoomArea()
		assert.False(t, m.Snapshot().ZoomActive)
	})

	t.Run("selecting an image exits zoom", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.ToggleZoom()

		require.NoError(t, m.SelectImage(3))

		s := m.Snapshot()
		assert.False(t, s.ZoomActive)
		assert.Equal(t, 3, s.SelectedImage.ID)
	})

	t.Run("toggle flips", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.ToggleZoom()
		m.ToggleZoom()
		assert.False(t, m.Snapshot().ZoomActive)
	})
}

func TestMachine_AddToCartLifecycle(t *testing.T) {
	// GIVEN an in-stock size
	m, clock := newTestMachine(t)

	// WHEN
	accepted := m.SubmitAddToCart()

	// THEN it is submitting immediately
	require.True(t, accepted)
	assert.Equal(t, models.CartSubmitting, m.Snapshot().CartRequest)
	assert.False(t, m.Snapshot().CanAddToCart())

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, models.CartSubmitting, m.Snapshot().CartRequest)

	clock.Advance(time.Millisecond)
	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)

	clock.Advance(2999 * time.Millisecond)
	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)

	clock.Advance(time.Millisecond)
	assert.Equal(t, models.CartIdle, m.Snapshot().CartRequest)
	assert.Zero(t, clock.Pending())
}

func TestMachine_AddToCartOutOfStock(t *testing.T) {
	m, clock := newTestMachine(t)
	require.NoError(t, m.SelectSize("US 10"))
	before := m.Snapshot()

	assert.False(t, m.SubmitAddToCart())

	clock.Advance(time.Hour)
	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, models.CartIdle, m.Snapshot().CartRequest)
}

func TestMachine_AddToCartIsNotReentrant(t *testing.T) {
	m, clock := newTestMachine(t)
	require.True(t, m.SubmitAddToCart())

	clock.Advance(500 * time.Millisecond)
	assert.False(t, m.SubmitAddToCart())

	// The first request still completes on its original schedule
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)
}

func TestMachine_VariantChangeClearsSuccess(t *testing.T) {
	changes := map[string]func(m *interaction.Machine){
		"color":     func(m *interaction.Machine) { _ = m.SelectColor("Blue") },
		"size":      func(m *interaction.Machine) { _ = m.SelectSize("US 9") },
		"quantity":  func(m *interaction.Machine) { m.SetQuantity(3) },
		"increment": func(m *interaction.Machine) { m.IncrementQuantity() },
		"decrement": func(m *interaction.Machine) { m.DecrementQuantity() },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			// GIVEN a succeeded request
			m, clock := newTestMachine(t)
			require.True(t, m.SubmitAddToCart())
			clock.Advance(time.Second)
			require.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)

			// WHEN the variant changes
			change(m)

			// THEN the confirmation clears at once and the expiry is cancelled
			assert.Equal(t, models.CartIdle, m.Snapshot().CartRequest)
			assert.Zero(t, clock.Pending())
		})
	}
}

func TestMachine_DisplayChangesKeepSuccess(t *testing.T) {
	m, clock := newTestMachine(t)
	require.True(t, m.SubmitAddToCart())
	clock.Advance(time.Second)

	require.NoError(t, m.SelectImage(2))
	m.ToggleZoom()
	require.NoError(t, m.ToggleSection(models.SectionDescription))

	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)
}

func TestMachine_StaleExpiryDoesNotResurrectSuccess(t *testing.T) {
	// GIVEN a first request that succeeded and was then cleared by a variant change
	m, clock := newTestMachine(t)
	require.True(t, m.SubmitAddToCart())
	clock.Advance(time.Second)
	m.SetQuantity(2)

	// WHEN a second request is made and succeeds
	clock.Advance(2 * time.Second)
	require.True(t, m.SubmitAddToCart())
	clock.Advance(time.Second)
	require.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)

	// THEN the success lasts its full duration, measured from the second request
	clock.Advance(2999 * time.Millisecond)
	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)
	clock.Advance(time.Millisecond)
	assert.Equal(t, models.CartIdle, m.Snapshot().CartRequest)
}

func TestMachine_VariantChangeWhileSubmitting(t *testing.T) {
	m, clock := newTestMachine(t)
	require.True(t, m.SubmitAddToCart())

	require.NoError(t, m.SelectColor("White"))
	assert.Equal(t, models.CartSubmitting, m.Snapshot().CartRequest)

	clock.Advance(time.Second)
	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)
}

func TestMachine_SubmitDuringSuccessRestartsCycle(t *testing.T) {
	m, clock := newTestMachine(t)
	require.True(t, m.SubmitAddToCart())
	clock.Advance(time.Second)
	clock.Advance(2 * time.Second)

	require.True(t, m.SubmitAddToCart())
	assert.Equal(t, models.CartSubmitting, m.Snapshot().CartRequest)

	// The first success expiry would have been due now; it must not fire
	clock.Advance(time.Second)
	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)
	clock.Advance(3 * time.Second)
	assert.Equal(t, models.CartIdle, m.Snapshot().CartRequest)
}

func TestMachine_WithTimings(t *testing.T) {
	m, clock := newTestMachine(t, interaction.WithTimings(200*time.Millisecond, 500*time.Millisecond))
	require.True(t, m.SubmitAddToCart())

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, models.CartSucceeded, m.Snapshot().CartRequest)

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, models.CartIdle, m.Snapshot().CartRequest)
}

func TestMachine_RevisionIncreases(t *testing.T) {
	m, clock := newTestMachine(t)

	m.IncrementQuantity()
	r1 := m.Snapshot().Revision
	require.True(t, m.SubmitAddToCart())
	clock.Advance(time.Second)
	r2 := m.Snapshot().Revision

	assert.Greater(t, r1, uint64(0))
	assert.Greater(t, r2, r1)
}

func TestMachine_Subscribe(t *testing.T) {
	m, clock := newTestMachine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := m.Subscribe(ctx)

	require.True(t, m.SubmitAddToCart())
	s := <-updates
	assert.Equal(t, models.CartSubmitting, s.CartRequest)

	// Timer-driven transitions are published too
	clock.Advance(time.Second)
	s = <-updates
	assert.Equal(t, models.CartSucceeded, s.CartRequest)

	// Only the latest state is kept for a slow reader
	m.SetQuantity(4)
	m.SetQuantity(7)
	s = <-updates
	assert.Equal(t, 7, s.Quantity)
	assert.Equal(t, models.CartIdle, s.CartRequest)
}

func TestMachine_SubscribeEndsWithContext(t *testing.T) {
	m, _ := newTestMachine(t)
	ctx, cancel := context.WithCancel(context.Background())

	updates := m.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed after context cancellation")
	}
}

func TestMachine_Close(t *testing.T) {
	m, clock := newTestMachine(t)
	updates := m.Subscribe(context.Background())
	require.True(t, m.SubmitAddToCart())
	<-updates

	m.Close()
	m.Close()

	_, ok := <-updates
	assert.False(t, ok)
	assert.Zero(t, clock.Pending())
	assert.False(t, m.SubmitAddToCart())

	// Subscribing after close yields a closed channel
	_, ok = <-m.Subscribe(context.Background())
	assert.False(t, ok)
}

func TestMachine_LogsCompletedSubmission(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m, clock := newTestMachine(t, interaction.WithLogger(zap.New(core)))

	require.True(t, m.SubmitAddToCart())
	clock.Advance(time.Second)

	entries := logs.FilterMessage("added to cart").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Black", fields["color"])
	assert.Equal(t, "US 8", fields["size"])
	assert.Equal(t, int64(1), fields["quantity"])
}

func TestMachine_RealClock(t *testing.T) {
	m, err := interaction.New(testutil.SneakerProduct(), interaction.WithTimings(10*time.Millisecond, 200*time.Millisecond))
	require.NoError(t, err)
	defer m.Close()

	require.True(t, m.SubmitAddToCart())

	assert.Eventually(t, func() bool {
		return m.Snapshot().CartRequest == models.CartSucceeded
	}, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool {
		return m.Snapshot().CartRequest == models.CartIdle
	}, time.Second, time.Millisecond)
}
