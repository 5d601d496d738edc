package service

import (
	"testing"

	"github.com/perevoscic/envitefy-sub005/internal/model"
)

func TestRemainingCapacity(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	form.Responses = []model.Response{
		confirmedResponse("r1", 1, 0),
		{
			ID:     "r2",
			Name:   "Waitlisted",
			Status: model.StatusWaitlisted,
			Slots:  []model.SlotSelection{{SectionID: "shift", SlotID: "early", Quantity: 1}},
		},
		{
			ID:     "r3",
			Name:   "Cancelled",
			Status: model.StatusCancelled,
			Slots:  []model.SlotSelection{{SectionID: "shift", SlotID: "early", Quantity: 1}},
		},
	}

	got := RemainingCapacity(&form, "shift", "early", "")
	if got == nil || *got != 1 {
		t.Errorf("only confirmed quantities count: expected 1, got %v", got)
	}
}

func TestRemainingCapacityExcludesOwnResponse(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	form.Responses = []model.Response{confirmedResponse("mine", 2, 0)}

	if got := RemainingCapacity(&form, "shift", "early", ""); got == nil || *got != 0 {
		t.Errorf("expected 0 without exclusion, got %v", got)
	}
	if got := RemainingCapacity(&form, "shift", "early", "mine"); got == nil || *got != 2 {
		t.Errorf("expected own hold excluded, got %v", got)
	}
}

func TestRemainingCapacityUnlimitedAndMissing(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	if got := RemainingCapacity(&form, "shift", "late", ""); got != nil {
		t.Errorf("unlimited slot should return nil, got %v", got)
	}
	if got := RemainingCapacity(&form, "shift", "nope", ""); got != nil {
		t.Errorf("missing slot should return nil, got %v", got)
	}
	if got := ConfirmedQuantity(&form, "gone", "gone", ""); got != 0 {
		t.Errorf("orphaned selection counts as 0, got %d", got)
	}
}

func TestRemainingCapacityNeverNegative(t *testing.T) {
	t.Parallel()

	// Over-subscribed after a capacity shrink: 3 confirmed units on a
	// capacity-2 slot.
	form := twoSlotForm()
	form.Responses = []model.Response{
		confirmedResponse("r1", 2, 0),
		confirmedResponse("r2", 1, 1),
	}

	if got := RemainingCapacity(&form, "shift", "early", ""); got == nil || *got != 0 {
		t.Errorf("expected clamp at 0, got %v", got)
	}
}

func TestWaitlistedQuantity(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	form.Responses = []model.Response{
		confirmedResponse("r1", 1, 0),
		{
			ID:     "r2",
			Status: model.StatusWaitlisted,
			Slots:  []model.SlotSelection{{SectionID: "shift", SlotID: "early", Quantity: 3}},
		},
	}

	if got := WaitlistedQuantity(&form, "shift", "early"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
