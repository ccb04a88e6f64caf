package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ems_portal/internal/models"
	"ems_portal/internal/storage"
	"ems_portal/internal/validation"
)

// ComplaintForm is the data submitted on the register complaint page
type ComplaintForm struct {
	Type          string `form:"complaintType" validate:"present"`
	Category      string `form:"complaintCategory" validate:"present"`
	ContactPerson string `form:"contactPerson" validate:"present"`
	Landmark      string `form:"landmark"`
	ConsumerNo    string `form:"consumerNo" validate:"digits=13"`
	Mobile        string `form:"mobile" validate:"digits=10"`
	Address       string `form:"address" validate:"present"`
	Description   string `form:"description" validate:"minlen=20"`
}

func (ComplaintForm) Messages() validation.Messages {
	return validation.Messages{
		"complaintType":     "Please select complaint type.",
		"complaintCategory": "Please select category.",
		"contactPerson":     "Contact person is required.",
		"consumerNo":        "Consumer No must be exactly 13 digits.",
		"mobile":            "Mobile number must be exactly 10 digits.",
		"address":           "Address is required.",
		"description":       "Description must be at least 20 characters.",
	}
}

const msgCategoryMismatch = "Please select a category for the chosen complaint type."

func (f ComplaintForm) Trimmed() ComplaintForm {
	f.ContactPerson = strings.TrimSpace(f.ContactPerson)
	f.Landmark = strings.TrimSpace(f.Landmark)
	f.ConsumerNo = strings.TrimSpace(f.ConsumerNo)
	f.Mobile = strings.TrimSpace(f.Mobile)
	f.Address = strings.TrimSpace(f.Address)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// StatusFilter narrows the complaint status view
type StatusFilter struct {
	// Status "all" or empty matches every status
	Status string
	// Query is matched case-insensitively against id, type and category
	Query string
}

const StatusAll = "all"

func (f StatusFilter) matches(c models.Complaint) bool {
	if f.Status != "" && f.Status != StatusAll && string(c.Status) != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.ID), q) ||
		strings.Contains(strings.ToLower(c.Type), q) ||
		strings.Contains(strings.ToLower(c.Category), q)
}

// RecentComplaints feeds the home page complaints card
type RecentComplaints struct {
	Count  int
	Recent []models.Complaint
}

// RecentWindowDays is how far back the home page looks for complaints
const RecentWindowDays = 30

// ComplaintService registers complaints and serves the status view
type ComplaintService struct {
	store     *storage.Local
	validator *validation.Validator
	opts      Options
}

func NewComplaintService(store *storage.Local, v *validation.Validator, opts Options) *ComplaintService {
	return &ComplaintService{store: store, validator: v, opts: opts.withDefaults()}
}

// Check validates the form including the type/category pairing
func (s *ComplaintService) Check(form ComplaintForm) (ComplaintForm, error) {
	form = form.Trimmed()
	errs := s.validator.Check(form)
	if !errs.Has("complaintType") && models.CategoriesFor(form.Type) == nil {
		errs.Add("complaintType", "Please select complaint type.")
	}
	if !errs.Has("complaintType") && !errs.Has("complaintCategory") && !models.IsValidCategory(form.Type, form.Category) {
		errs.Add("complaintCategory", msgCategoryMismatch)
	}
	return form, errs.Err()
}

// nextComplaintID numbers complaints per calendar day. The sequence is one
// more than the larger of today's count and today's highest sequence.
func nextComplaintID(complaints []models.Complaint, now time.Time) string {
	prefix := "COMP-" + now.Format("20060102") + "-"
	count, highest := 0, 0
	for _, c := range complaints {
		if !strings.HasPrefix(c.ID, prefix) {
			continue
		}
		count++
		if n, err := strconv.Atoi(strings.TrimPrefix(c.ID, prefix)); err == nil && n > highest {
			highest = n
		}
	}
	next := max(count, highest) + 1
	return fmt.Sprintf("%s%04d", prefix, next)
}

// Submit records a Pending complaint for the session user
func (s *ComplaintService) Submit(ctx context.Context, session *models.Session, form ComplaintForm, confirmed bool) (*models.Complaint, error) {
	form, err := s.Check(form)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	release, err := s.opts.Guard.Acquire(ctx, guardKey(ctx, "complaint"))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := simulateLatency(ctx, s.opts.Delay); err != nil {
		return nil, err
	}

	complaints, err := s.store.Complaints(ctx)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	complaint := models.Complaint{
		ID:            nextComplaintID(complaints, now),
		Type:          form.Type,
		Category:      form.Category,
		ContactPerson: form.ContactPerson,
		Landmark:      form.Landmark,
		ConsumerNo:    form.ConsumerNo,
		Mobile:        form.Mobile,
		Address:       form.Address,
		Description:   form.Description,
		Status:        models.ComplaintStatusPending,
		Date:          now.UTC(),
	}
	if session != nil {
		complaint.UserID = session.UserID
	}

	if err := s.store.SetComplaints(ctx, append(complaints, complaint)); err != nil {
		return nil, fmt.Errorf("save complaint: %w", err)
	}

	s.opts.Log.Info().Str("complaint_id", complaint.ID).Str("user_id", complaint.UserID).Str("type", complaint.Type).Msg("Complaint registered")
	return &complaint, nil
}

// List returns complaints of userID, or every complaint when userID is empty, narrowed by filter
func (s *ComplaintService) List(ctx context.Context, userID string, filter StatusFilter) ([]models.Complaint, error) {
	complaints, err := s.store.Complaints(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Complaint, 0, len(complaints))
	for _, c := range complaints {
		if userID != "" && c.UserID != userID {
			continue
		}
		if filter.matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get looks up any complaint by id
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	complaints, err := s.store.Complaints(ctx)
	if err != nil {
		return nil, err
	}
	for i := range complaints {
		if complaints[i].ID == id {
			return &complaints[i], nil
		}
	}
	return nil, ErrComplaintNotFound
}

// Recent counts complaints filed since local midnight RecentWindowDays ago
// and returns the first limit of them.
func (s *ComplaintService) Recent(ctx context.Context, limit int) (RecentComplaints, error) {
	complaints, err := s.store.Complaints(ctx)
	if err != nil {
		return RecentComplaints{}, err
	}
	now := s.opts.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day()-RecentWindowDays, 0, 0, 0, 0, now.Location())

	var out RecentComplaints
	for _, c := range complaints {
		if c.Date.Before(cutoff) {
			continue
		}
		out.Count++
		if len(out.Recent) < limit {
			out.Recent = append(out.Recent, c)
		}
	}
	return out, nil
}
