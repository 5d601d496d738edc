package service

import (
	"time"

	"github.com/perevoscic/envitefy-sub005/internal/model"
)

// Shared builders for engine tests.

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

var testEpoch = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// twoSlotForm builds an enabled form with one section ("shift") holding
// slots "early" (capacity 2) and "late" (unlimited).
func twoSlotForm() model.SignupForm {
	return model.SignupForm{
		Enabled: true,
		Title:   "Bake Sale",
		OwnerID: "user:owner",
		Version: 1,
		Sections: []model.Section{
			{
				ID:    "shift",
				Title: "Shifts",
				Slots: []model.Slot{
					{ID: "early", Label: "Early shift", Capacity: intp(2)},
					{ID: "late", Label: "Late shift"},
				},
			},
		},
		Settings:  model.DefaultSettings(),
		CreatedOn: testEpoch,
		UpdatedOn: testEpoch,
	}
}

// confirmedResponse builds an active confirmed response holding quantity
// units of the "early" slot, created offset minutes after the epoch.
func confirmedResponse(id string, quantity, offsetMinutes int) model.Response {
	created := testEpoch.Add(time.Duration(offsetMinutes) * time.Minute)
	return model.Response{
		ID:     id,
		Name:   "Person " + id,
		Email:  id + "@example.com",
		Status: model.StatusConfirmed,
		Slots: []model.SlotSelection{
			{SectionID: "shift", SlotID: "early", Quantity: quantity},
		},
		CreatedOn: created,
		UpdatedOn: created,
	}
}
