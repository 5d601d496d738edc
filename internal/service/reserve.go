package service

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/perevoscic/envitefy-sub005/internal/model"
)

// Identity is the caller's identity as resolved by the auth boundary.
// The engine never authenticates anyone; it only records and matches.
type Identity struct {
	UserID string
	Email  string
	Phone  string
}

// displayName derives a fallback display name from the identity channels.
func (id Identity) displayName() string {
	if id.Email != "" {
		if at := strings.IndexByte(id.Email, '@'); at > 0 {
			return id.Email[:at]
		}
		return id.Email
	}
	return id.Phone
}

// CancelAuth describes who is asking for a cancellation.
type CancelAuth struct {
	UserID      string
	IsOwner     bool
	ManageToken string
}

// applyReserve validates a reserve request against the form and appends
// or updates a response in place. The returned status is a placeholder;
// Rebalance, which always runs next, assigns the authoritative one.
//
// The returned string is a freshly issued guest manage token, non-empty
// only when a new response was created without an authenticated user.
func applyReserve(form *model.SignupForm, req *model.ReserveRequest, ident Identity, now time.Time) (*model.Response, string, error) {
	if !form.Enabled {
		return nil, "", ErrFormNotEnabled
	}

	selections := resolveSelections(form, req.Slots)
	if len(selections) == 0 {
		return nil, "", ErrNoSlotsSelected
	}
	if !form.Settings.AllowMultipleSlotsPerPerson && len(selections) > 1 {
		return nil, "", ErrMultiSlotNotAllowed
	}

	existing := locateResponse(form, req, ident)

	name := req.Name
	if name == "" && existing != nil {
		name = existing.Name
	}
	if name == "" {
		// Guests carry their identity channels in the request body, not
		// in the auth context.
		name = Identity{
			Email: firstNonEmpty(req.Email, ident.Email),
			Phone: firstNonEmpty(req.Phone, ident.Phone),
		}.displayName()
	}
	if name == "" {
		return nil, "", ErrMissingIdentity
	}

	answers := filterAnswers(form, req.Answers)
	if existing != nil {
		answers = mergeAnswers(existing.Answers, answers)
	}
	if !requiredAnswered(form, answers) {
		return nil, "", ErrMissingRequiredAnswers
	}

	// When waitlisting is off and the form locks when full, reject an
	// over-capacity request synchronously instead of silently waitlisting
	// it. The caller's own prior confirmed quantities are excluded so a
	// resubmission is not blocked by its own hold.
	if !form.Settings.WaitlistEnabled && form.Settings.LockWhenFull {
		excludeID := ""
		if existing != nil {
			excludeID = existing.ID
		}
		for _, sel := range selections {
			remaining := RemainingCapacity(form, sel.SectionID, sel.SlotID, excludeID)
			if remaining != nil && sel.Quantity > *remaining {
				return nil, "", ErrSlotFull
			}
		}
	}

	guests := clampGuests(req.Guests, form.Settings.MaxGuestsPerSignup)

	if existing != nil {
		existing.Name = name
		if req.Email != "" {
			existing.Email = req.Email
		}
		if req.Phone != "" {
			existing.Phone = req.Phone
		}
		existing.Guests = guests
		if req.Note != "" {
			existing.Note = req.Note
		}
		existing.Slots = selections
		existing.Answers = answers
		existing.UpdatedOn = now
		return existing, "", nil
	}

	response := model.Response{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     firstNonEmpty(req.Email, ident.Email),
		Phone:     firstNonEmpty(req.Phone, ident.Phone),
		Guests:    guests,
		Note:      req.Note,
		Slots:     selections,
		Answers:   answers,
		Status:    model.StatusConfirmed, // placeholder until Rebalance
		CreatedOn: now,
		UpdatedOn: now,
	}
	if ident.UserID != "" {
		userID := ident.UserID
		response.UserID = &userID
	}

	manageToken := ""
	if response.UserID == nil {
		token, hash, err := newManageToken()
		if err != nil {
			return nil, "", err
		}
		manageToken = token
		response.ManageTokenHash = hash
	}

	form.Responses = append(form.Responses, response)
	return &form.Responses[len(form.Responses)-1], manageToken, nil
}

// applyCancel marks one response cancelled. Cancelled is terminal; the
// response keeps every other field and is never revived by rebalancing.
func applyCancel(form *model.SignupForm, signupID string, auth CancelAuth, now time.Time) error {
	response := form.FindResponse(signupID)
	if response == nil {
		return ErrResponseNotFound
	}
	if !canManage(form, response, auth) {
		return ErrNotOwner
	}
	if response.Status == model.StatusCancelled {
		return nil
	}

	response.Status = model.StatusCancelled
	response.UpdatedOn = now
	return nil
}

func canManage(form *model.SignupForm, response *model.Response, auth CancelAuth) bool {
	if auth.IsOwner {
		return true
	}
	if auth.UserID != "" && form.OwnerID == auth.UserID {
		return true
	}
	if auth.UserID != "" && response.UserID != nil && *response.UserID == auth.UserID {
		return true
	}
	if auth.ManageToken != "" && response.ManageTokenHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(response.ManageTokenHash), []byte(auth.ManageToken)) == nil
	}
	return false
}

// resolveSelections keeps only selections that resolve to a real slot,
// normalizes quantity into [1, MaxSelectionQuantity], and drops duplicate
// (section, slot) pairs keeping the first occurrence.
func resolveSelections(form *model.SignupForm, slots []model.SlotSelectionRequest) []model.SlotSelection {
	seen := make(map[string]bool, len(slots))
	out := make([]model.SlotSelection, 0, len(slots))
	for _, sel := range slots {
		if form.FindSlot(sel.SectionID, sel.SlotID) == nil {
			continue
		}
		key := slotKey(sel.SectionID, sel.SlotID)
		if seen[key] {
			continue
		}
		seen[key] = true

		quantity := sel.Quantity
		if quantity < 1 {
			quantity = 1
		}
		if quantity > model.MaxSelectionQuantity {
			quantity = model.MaxSelectionQuantity
		}
		out = append(out, model.SlotSelection{
			SectionID: sel.SectionID,
			SlotID:    sel.SlotID,
			Quantity:  quantity,
		})
	}
	return out
}

// locateResponse finds the response a reserve request should update:
// the explicit signup_id target when it is still active, otherwise the
// first active response matching the caller's identity. Cancelled
// responses are never reused as update targets.
func locateResponse(form *model.SignupForm, req *model.ReserveRequest, ident Identity) *model.Response {
	if req.SignupID != "" {
		if r := form.FindResponse(req.SignupID); r != nil && r.Active() {
			return r
		}
	}

	for i := range form.Responses {
		r := &form.Responses[i]
		if !r.Active() {
			continue
		}
		if ident.UserID != "" && r.UserID != nil && *r.UserID == ident.UserID {
			return r
		}
		email := firstNonEmpty(req.Email, ident.Email)
		if email != "" && strings.EqualFold(r.Email, email) {
			return r
		}
		phone := firstNonEmpty(req.Phone, ident.Phone)
		if phone != "" && r.Phone == phone {
			return r
		}
	}
	return nil
}

// filterAnswers keeps answers for questions that exist on the form and
// have a non-empty trimmed value.
func filterAnswers(form *model.SignupForm, answers []model.Answer) []model.Answer {
	out := make([]model.Answer, 0, len(answers))
	for _, a := range answers {
		if form.FindQuestion(a.QuestionID) == nil {
			continue
		}
		value := strings.TrimSpace(a.Value)
		if value == "" {
			continue
		}
		out = append(out, model.Answer{QuestionID: a.QuestionID, Value: value})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mergeAnswers overlays incoming answers onto the existing set, so a
// resubmission may update some answers without restating all of them.
func mergeAnswers(existing, incoming []model.Answer) []model.Answer {
	if len(incoming) == 0 {
		return existing
	}
	merged := make([]model.Answer, len(existing))
	copy(merged, existing)

	for _, in := range incoming {
		replaced := false
		for i := range merged {
			if merged[i].QuestionID == in.QuestionID {
				merged[i].Value = in.Value
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, in)
		}
	}
	return merged
}

func requiredAnswered(form *model.SignupForm, answers []model.Answer) bool {
	for _, q := range form.Questions {
		if !q.Required {
			continue
		}
		answered := false
		for _, a := range answers {
			if a.QuestionID == q.ID && strings.TrimSpace(a.Value) != "" {
				answered = true
				break
			}
		}
		if !answered {
			return false
		}
	}
	return true
}

// clampGuests clamps into [0, max]; zero is stored as nil.
func clampGuests(guests *int, max int) *int {
	if guests == nil {
		return nil
	}
	g := *guests
	if g <= 0 {
		return nil
	}
	if g > max {
		g = max
	}
	return &g
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newManageToken issues a random guest manage token and its bcrypt hash.
// Only the hash is persisted; the token itself is shown once.
func newManageToken() (token, hash string, err error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	token = base64.RawURLEncoding.EncodeToString(raw)

	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return token, string(hashed), nil
}
