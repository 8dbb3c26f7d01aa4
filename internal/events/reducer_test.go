package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func queueView() []ViewRow {
	return []ViewRow{
		{ID: "li-1", Status: "Queued"},
		{ID: "li-2", Status: "Queued"},
		{ID: "li-3", Status: "Queued"},
	}
}

func TestApplyChangeRemoval(t *testing.T) {
	out := ApplyChange(queueView(), Change{EntityID: "li-2", Kind: ChangeRemoved}, "Queued")
	assert.Equal(t, []ViewRow{{ID: "li-1", Status: "Queued"}, {ID: "li-3", Status: "Queued"}}, out)
}

func TestApplyChangeStatusLeavesView(t *testing.T) {
	// Optimistic row removal: a transition out of the view's filter drops
	// the row from the list.
	ev := Change{EntityID: "li-1", Kind: ChangeStatusUpdated, Status: "InProcess"}
	out := ApplyChange(queueView(), ev, "Queued")
	assert.Len(t, out, 2)
	for _, row := range out {
		assert.NotEqual(t, "li-1", row.ID)
	}
}

func TestApplyChangeStatusEntersView(t *testing.T) {
	ev := Change{EntityID: "li-9", Kind: ChangeStatusUpdated, Status: "Queued"}
	out := ApplyChange(queueView(), ev, "Queued")
	assert.Len(t, out, 4)
	assert.Equal(t, ViewRow{ID: "li-9", Status: "Queued"}, out[3])
}

func TestApplyChangeUnrelatedEventKeepsList(t *testing.T) {
	ev := Change{EntityID: "li-9", Kind: ChangeStatusUpdated, Status: "InProcess"}
	out := ApplyChange(queueView(), ev, "Queued")
	assert.Equal(t, queueView(), out)
}

func TestApplyChangeUpdateInPlace(t *testing.T) {
	ev := Change{EntityID: "li-2", Kind: ChangeUpdated}
	out := ApplyChange(queueView(), ev, "Queued")
	assert.Equal(t, queueView(), out)
}

func TestApplyChangeDoesNotMutateInput(t *testing.T) {
	in := queueView()
	ApplyChange(in, Change{EntityID: "li-1", Kind: ChangeRemoved}, "Queued")
	assert.Equal(t, queueView(), in)
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	bus.Publish(Change{EntityType: "line_item", EntityID: "li-1", Kind: ChangeStatusUpdated, Status: "ToPack"})

	got := <-ch
	assert.Equal(t, "li-1", got.EntityID)
	assert.Equal(t, ChangeStatusUpdated, got.Kind)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic
	bus.Publish(Change{EntityID: "li-1", Kind: ChangeRemoved})
}
