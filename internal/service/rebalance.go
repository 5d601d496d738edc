package service

import (
	"sort"
	"time"

	"github.com/perevoscic/envitefy-sub005/internal/model"
)

// Rebalance recomputes confirmed vs waitlisted status for every active
// response from scratch, in first-come-first-served order.
//
// The full re-derivation (rather than an incremental patch) is what makes
// the capacity invariant hold after arbitrary reserve/cancel sequences: a
// cancellation can free capacity for a waitlisted response that arrived
// before a currently-confirmed one, and only a complete FIFO walk
// promotes it correctly.
//
// Cancelled responses are frozen. Responses whose status does not change
// are returned untouched, so repeated application is a no-op.
func Rebalance(form model.SignupForm) model.SignupForm {
	return rebalanceAt(form, time.Now().UTC())
}

func rebalanceAt(form model.SignupForm, now time.Time) model.SignupForm {
	out := form
	responses := make([]model.Response, len(form.Responses))
	copy(responses, form.Responses)
	out.Responses = responses

	// Active responses in arrival order: CreatedOn ascending, original
	// position as tiebreak.
	order := make([]int, 0, len(responses))
	for i := range responses {
		if responses[i].Active() {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return responses[order[a]].CreatedOn.Before(responses[order[b]].CreatedOn)
	})

	used := make(map[string]int)
	for _, idx := range order {
		r := &responses[idx]

		// All-or-nothing: if any selection would overflow its slot, the
		// whole response is waitlisted. Orphaned and unlimited slots never
		// block.
		fits := true
		for _, sel := range r.Slots {
			slot := out.FindSlot(sel.SectionID, sel.SlotID)
			if slot == nil || slot.Capacity == nil {
				continue
			}
			if used[slotKey(sel.SectionID, sel.SlotID)]+sel.Quantity > *slot.Capacity {
				fits = false
				break
			}
		}

		status := model.StatusWaitlisted
		if fits {
			status = model.StatusConfirmed
			for _, sel := range r.Slots {
				if out.FindSlot(sel.SectionID, sel.SlotID) == nil {
					continue
				}
				used[slotKey(sel.SectionID, sel.SlotID)] += sel.Quantity
			}
		}

		if r.Status != status {
			r.Status = status
			r.UpdatedOn = now
		}
	}

	return out
}
