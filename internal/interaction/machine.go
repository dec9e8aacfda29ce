// Package interaction holds the per-page interaction state of a product page:
// variant selection, gallery zoom, expandable sections and the simulated
// add-to-cart lifecycle.
//
// A Machine is mutated only through its operations. Every operation runs to
// completion under the machine lock, including the delayed cart transitions
// fired by the Clock, so no two transitions interleave.
//
// The cart request follows
//
//	idle --SubmitAddToCart--> submitting --submitDelay--> succeeded --successDuration--> idle
//
// and a variant change (color, size, quantity) while succeeded returns to idle
// immediately and cancels the pending expiry.
package interaction

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/models"
)

// Machine is the interaction state container for one product page session
type Machine struct {
	mu      sync.Mutex
	product models.Product
	state   State

	clock           Clock
	submitDelay     time.Duration
	successDuration time.Duration
	logger          *zap.Logger

	// generation is bumped whenever a scheduled cart transition is superseded
	generation uint64
	pending    Timer

	subscribers map[*subscriber]struct{}
	closed      bool
}

// New creates a machine with catalog-derived defaults
func New(product models.Product, opts ...Option) (*Machine, error) {
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	size := defaultSize(product)
	if o.defaultSize != "" {
		s, ok := product.SizeByName(o.defaultSize)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSize, o.defaultSize)
		}
		size = s
	}

	return &Machine{
		product: product,
		state: State{
			SelectedColor:   product.Colors[0],
			SelectedSize:    size,
			Quantity:        MinQuantity,
			SelectedImage:   product.Images[0],
			ExpandedSection: models.SectionNone,
			CartRequest:     models.CartIdle,
		},
		clock:           o.clock,
		submitDelay:     o.submitDelay,
		successDuration: o.successDuration,
		logger:          o.logger,
		subscribers:     make(map[*subscriber]struct{}),
	}, nil
}

// defaultSize preselects the second size, or the only one
func defaultSize(p models.Product) models.SizeOption {
	if len(p.Sizes) > 1 {
		return p.Sizes[1]
	}
	return p.Sizes[0]
}

// Product returns the catalog entry the machine was built from
func (m *Machine) Product() models.Product {
	return m.product
}

// Snapshot returns a copy of the current state
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SelectColor selects a color by name
func (m *Machine) SelectColor(name string) error {
	color, ok := m.product.ColorByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SelectedColor = color
	m.clearSuccess()
	m.commit("select_color", zap.String("color", name))
	return nil
}

// SelectSize selects a size by name. Out-of-stock sizes can be selected;
// only ordering them is blocked.
func (m *Machine) SelectSize(name string) error {
	size, ok := m.product.SizeByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSize, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SelectedSize = size
	m.clearSuccess()
	m.commit("select_size", zap.String("size", name), zap.Bool("in_stock", size.InStock))
	return nil
}

// SetQuantity sets the quantity, clamped to [MinQuantity, MaxQuantity]
func (m *Machine) SetQuantity(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setQuantity(n)
}

// IncrementQuantity adds one, saturating at MaxQuantity
func (m *Machine) IncrementQuantity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setQuantity(m.state.Quantity + 1)
}

// DecrementQuantity removes one, saturating at MinQuantity
func (m *Machine) DecrementQuantity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setQuantity(m.state.Quantity - 1)
}

func (m *Machine) setQuantity(n int) {
	m.state.Quantity = clampQuantity(n)
	m.clearSuccess()
	m.commit("set_quantity", zap.Int("requested", n), zap.Int("quantity", m.state.Quantity))
}

// SelectImage shows another gallery image. Changing the image always exits zoom.
func (m *Machine) SelectImage(id int) error {
	img, ok := m.product.ImageByID(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SelectedImage = img
	m.state.ZoomActive = false
	m.commit("select_image", zap.Int("image_id", id))
	return nil
}

// ToggleZoom flips zoom on the main image
func (m *Machine) ToggleZoom() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.ZoomActive = !m.state.ZoomActive
	m.commit("toggle_zoom", zap.Bool("zoom_active", m.state.ZoomActive))
}

// UpdateZoomPosition maps a pointer position inside the image bounds to a
// percentage pair clamped to [0, 100]. It does nothing while zoom is off or
// when the bounds are empty.
func (m *Machine) UpdateZoomPosition(pointerX, pointerY, boundsWidth, boundsHeight float64) {
	if !(boundsWidth > 0) || !(boundsHeight > 0) || !finite(pointerX) || !finite(pointerY) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.ZoomActive {
		return
	}

	m.state.ZoomPosition = ZoomPosition{
		X: clampPercent(pointerX / boundsWidth * 100),
		Y: clampPercent(pointerY / boundsHeight * 100),
	}
	m.commit("update_zoom_position",
		zap.Float64("x", m.state.ZoomPosition.X),
		zap.Float64("y", m.state.ZoomPosition.Y),
	)
}

// LeaveZoomArea turns zoom off when the pointer leaves the magnified image
func (m *Machine) LeaveZoomArea() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.ZoomActive = false
	m.commit("leave_zoom_area")
}

// ToggleSection collapses section if it is open, otherwise opens it and
// collapses whichever other section was open.
func (m *Machine) ToggleSection(section models.Section) error {
	switch section {
	case models.SectionDescription, models.SectionShipping, models.SectionReviews:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSection, section)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.ExpandedSection == section {
		m.state.ExpandedSection = models.SectionNone
	} else {
		m.state.ExpandedSection = section
	}
	m.commit("toggle_section", zap.String("expanded", string(m.state.ExpandedSection)))
	return nil
}

// SubmitAddToCart starts the simulated add-to-cart request. It returns false
// without changing state when the selected size is out of stock or a request
// is already in flight. Submitting while succeeded restarts the cycle.
func (m *Machine) SubmitAddToCart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || !m.state.SelectedSize.InStock || !m.state.CartRequest.AcceptsSubmit() {
		m.logger.Debug("add to cart rejected",
			zap.String("size", m.state.SelectedSize.Name),
			zap.Bool("in_stock", m.state.SelectedSize.InStock),
			zap.String("cart_request", string(m.state.CartRequest)),
		)
		return false
	}

	m.cancelPending()
	m.state.CartRequest = models.CartSubmitting
	gen := m.generation
	m.pending = m.clock.AfterFunc(m.submitDelay, func() { m.completeSubmission(gen) })
	m.commit("submit_add_to_cart",
		zap.String("color", m.state.SelectedColor.Name),
		zap.String("size", m.state.SelectedSize.Name),
		zap.Int("quantity", m.state.Quantity),
	)
	return true
}

// completeSubmission is the scheduled submitting -> succeeded transition
func (m *Machine) completeSubmission(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || gen != m.generation || m.state.CartRequest != models.CartSubmitting {
		return
	}

	m.state.CartRequest = models.CartSucceeded
	m.pending = m.clock.AfterFunc(m.successDuration, func() { m.expireSuccess(gen) })
	m.logger.Info("added to cart",
		zap.String("product", m.product.Name),
		zap.String("color", m.state.SelectedColor.Name),
		zap.String("size", m.state.SelectedSize.Name),
		zap.Int("quantity", m.state.Quantity),
	)
	m.commit("complete_submission")
}

// expireSuccess is the scheduled succeeded -> idle transition
func (m *Machine) expireSuccess(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || gen != m.generation || m.state.CartRequest != models.CartSucceeded {
		return
	}

	m.state.CartRequest = models.CartIdle
	m.pending = nil
	m.commit("expire_success")
}

// clearSuccess drops the success confirmation after a variant change.
// Caller holds m.mu.
func (m *Machine) clearSuccess() {
	if m.state.CartRequest != models.CartSucceeded {
		return
	}
	m.state.CartRequest = models.CartIdle
	m.cancelPending()
}

// cancelPending supersedes the outstanding scheduled transition, if any.
// Caller holds m.mu.
func (m *Machine) cancelPending() {
	m.generation++
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

// commit publishes the new state. Caller holds m.mu.
func (m *Machine) commit(event string, fields ...zap.Field) {
	m.state.Revision++
	if ce := m.logger.Check(zap.DebugLevel, "interaction"); ce != nil {
		ce.Write(append(fields,
			zap.String("event", event),
			zap.Uint64("revision", m.state.Revision),
			zap.String("cart_request", string(m.state.CartRequest)),
		)...)
	}
	m.publish(m.state)
}

// Subscribe returns a channel that receives the latest state after every
// transition. Slow readers only see the most recent state. The channel is
// closed when ctx is done or the machine is closed.
func (m *Machine) Subscribe(ctx context.Context) <-chan State {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := newSubscriber()
	if m.closed {
		sub.close()
		return sub.ch
	}
	m.subscribers[sub] = struct{}{}

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			m.unsubscribe(sub)
		}()
	}

	return sub.ch
}

// Close ends the page session: pending transitions are cancelled and all
// subscriptions are closed. Close is idempotent.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.cancelPending()
	for sub := range m.subscribers {
		sub.close()
	}
	clear(m.subscribers)
}

func (m *Machine) unsubscribe(sub *subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subscribers[sub]; ok {
		delete(m.subscribers, sub)
		sub.close()
	}
}

// publish fans the state out to subscribers. Caller holds m.mu.
func (m *Machine) publish(s State) {
	for sub := range m.subscribers {
		sub.send(s)
	}
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
