package service

import "github.com/perevoscic/envitefy-sub005/internal/model"

// BuildFormView shapes a form for the API. Availability numbers are
// annotated when the form shows remaining spots (or always, for the
// owner); participant names and contact channels are stripped when the
// form hides them from non-owners. Manage token hashes never leave the
// server.
func BuildFormView(form *model.SignupForm, isOwner bool) *model.FormView {
	showNumbers := isOwner || form.Settings.ShowRemainingSpots
	showNames := isOwner || !form.Settings.HideParticipantNames

	view := &model.FormView{
		Enabled:   form.Enabled,
		Title:     form.Title,
		Version:   form.Version,
		Settings:  form.Settings,
		Questions: form.Questions,
		Sections:  make([]model.SectionView, 0, len(form.Sections)),
		Responses: make([]model.ResponseView, 0, len(form.Responses)),
	}

	for _, section := range form.Sections {
		sv := model.SectionView{
			ID:          section.ID,
			Title:       section.Title,
			Description: section.Description,
			Slots:       make([]model.SlotView, 0, len(section.Slots)),
		}
		for _, slot := range section.Slots {
			slotView := model.SlotView{Slot: slot}
			if showNumbers {
				slotView.Remaining = RemainingCapacity(form, section.ID, slot.ID, "")
				waitlisted := WaitlistedQuantity(form, section.ID, slot.ID)
				slotView.Waitlisted = &waitlisted
			}
			sv.Slots = append(sv.Slots, slotView)
		}
		view.Sections = append(view.Sections, sv)
	}

	for i := range form.Responses {
		view.Responses = append(view.Responses, buildResponseView(&form.Responses[i], showNames))
	}

	return view
}

// BuildResponseView shapes one response for the API.
func BuildResponseView(response *model.Response) model.ResponseView {
	return buildResponseView(response, true)
}

func buildResponseView(response *model.Response, showName bool) model.ResponseView {
	view := model.ResponseView{
		ID:        response.ID,
		Guests:    response.Guests,
		Slots:     response.Slots,
		Status:    response.Status,
		CreatedOn: response.CreatedOn,
		UpdatedOn: response.UpdatedOn,
	}
	if showName {
		view.Name = response.Name
		view.Note = response.Note
		view.Answers = response.Answers
	}
	return view
}
