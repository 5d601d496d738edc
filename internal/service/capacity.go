package service

import "github.com/perevoscic/envitefy-sub005/internal/model"

// slotKey identifies a (section, slot) pair in used-quantity maps.
func slotKey(sectionID, slotID string) string {
	return sectionID + "::" + slotID
}

// ConfirmedQuantity sums the quantity of every confirmed response that
// selects the given slot, excluding the response identified by
// excludeResponseID. The exclusion lets a person re-submit their own
// reservation without being blocked by their own prior hold.
func ConfirmedQuantity(form *model.SignupForm, sectionID, slotID, excludeResponseID string) int {
	return quantityByStatus(form, sectionID, slotID, excludeResponseID, model.StatusConfirmed)
}

// WaitlistedQuantity sums the quantity currently waitlisted for the given
// slot. Used for display only, never for capacity decisions.
func WaitlistedQuantity(form *model.SignupForm, sectionID, slotID string) int {
	return quantityByStatus(form, sectionID, slotID, "", model.StatusWaitlisted)
}

func quantityByStatus(form *model.SignupForm, sectionID, slotID, excludeResponseID string, status model.ResponseStatus) int {
	if form.FindSlot(sectionID, slotID) == nil {
		return 0
	}

	total := 0
	for i := range form.Responses {
		r := &form.Responses[i]
		if r.Status != status {
			continue
		}
		if excludeResponseID != "" && r.ID == excludeResponseID {
			continue
		}
		for _, sel := range r.Slots {
			if sel.SectionID == sectionID && sel.SlotID == slotID {
				total += sel.Quantity
			}
		}
	}
	return total
}

// RemainingCapacity returns the number of units still available on a
// slot, nil when the slot is unlimited or does not exist. The result is
// never negative.
func RemainingCapacity(form *model.SignupForm, sectionID, slotID, excludeResponseID string) *int {
	slot := form.FindSlot(sectionID, slotID)
	if slot == nil || slot.Capacity == nil {
		return nil
	}

	remaining := *slot.Capacity - ConfirmedQuantity(form, sectionID, slotID, excludeResponseID)
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
