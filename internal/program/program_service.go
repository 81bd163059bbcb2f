package program

import (
	"context"
	"errors"
	"time"

	"staffdesk/internal/domain"
	"staffdesk/internal/events"
	"staffdesk/internal/notification"
	programerrors "staffdesk/internal/program/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=program_service.go -destination=mock/program_service_mock.go -package=mock
type Service interface {
	Save(ctx context.Context, actor domain.Actor, req SaveProgramRequest) (ProgramBatchResponse, error)
	Submit(ctx context.Context, actor domain.Actor, req SubmitProgramRequest) (ProgramBatchResponse, error)
	Decide(ctx context.Context, actor domain.Actor, id string, req DecideProgramRequest) (ProgramResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, year, month int) ([]ProgramResponse, error)
	ListForApproval(ctx context.Context, actor domain.Actor, year, month int) ([]ProgramResponse, error)
}

// service writes each entry with its own guarded statement instead of a
// shared transaction: batch operations are per-entry independent and one
// failed date must not roll back the rest.
type service struct {
	repo       Repository
	dispatcher notification.Dispatcher
	logger     *zap.Logger

	// now is injected so past-date cutoffs are testable.
	now func() time.Time
}

func NewService(
	repo Repository,
	dispatcher notification.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("program.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("program.service")
	}
	return &service{repo: repo, dispatcher: dispatcher, logger: l, now: time.Now}
}

// Save upserts draft rows per date. Each date resolves independently: past
// dates and empty rows are skipped without error, rows already submitted or
// decided stay untouched and report locked.
func (s *service) Save(ctx context.Context, actor domain.Actor, req SaveProgramRequest) (ProgramBatchResponse, error) {
	if actor.StaffType != domain.StaffTypeField {
		return ProgramBatchResponse{}, programerrors.ErrFieldStaffOnly
	}
	ownerUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return ProgramBatchResponse{}, programerrors.ErrNotAuthorized
	}

	s.logger.Debug("save program requested",
		zap.String("owner_id", actor.ID),
		zap.Int("entries", len(req.Entries)),
	)

	today := s.today()
	results := make([]ProgramDayResult, 0, len(req.Entries))
	for _, day := range req.Entries {
		outcome, err := s.saveDay(ctx, actor, ownerUUID, today, day)
		if err != nil {
			return ProgramBatchResponse{}, err
		}
		results = append(results, ProgramDayResult{Date: day.Date, Outcome: outcome})
	}

	s.logger.Info("save program done",
		zap.String("owner_id", actor.ID),
		zap.Int("entries", len(results)),
	)
	return ProgramBatchResponse{Results: results}, nil
}

func (s *service) saveDay(
	ctx context.Context,
	actor domain.Actor,
	ownerUUID uuid.UUID,
	today time.Time,
	day ProgramDayInput,
) (string, error) {
	date, err := time.Parse(dateLayout, day.Date)
	if err != nil {
		return "", programerrors.ErrInvalidDateFormat
	}
	if date.Before(today) {
		return OutcomeSkippedPast, nil
	}
	if day.ProgramName == "" && day.Place == "" {
		return OutcomeSkippedEmpty, nil
	}

	existing, err := s.repo.FindByOwnerAndDate(ctx, actor.ID, day.Date)
	if err != nil {
		return "", err
	}

	if existing == nil {
		e := &AdvancedProgramEntry{
			ID:          uuid.New(),
			UserID:      ownerUUID,
			UserName:    actor.Name,
			Division:    actor.Division,
			Date:        date,
			ProgramName: day.ProgramName,
			Place:       day.Place,
			Status:      StatusDraft,
		}
		if err := s.repo.Create(ctx, e); err != nil {
			// A concurrent save for the same date won the insert; the
			// date is taken either way.
			if errors.Is(err, programerrors.ErrDuplicateEntry) {
				return OutcomeLocked, nil
			}
			return "", err
		}
		return OutcomeSaved, nil
	}

	if existing.Status != StatusDraft {
		return OutcomeLocked, nil
	}

	existing.ProgramName = day.ProgramName
	existing.Place = day.Place
	updated, err := s.repo.UpdateDraftFields(ctx, existing)
	if err != nil {
		return "", err
	}
	if !updated {
		return OutcomeLocked, nil
	}
	return OutcomeSaved, nil
}

// Submit flips every qualifying draft of the month to submitted. Transitions
// apply per entry: one failed write never blocks the rest of the month.
func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitProgramRequest) (ProgramBatchResponse, error) {
	if actor.StaffType != domain.StaffTypeField {
		return ProgramBatchResponse{}, programerrors.ErrFieldStaffOnly
	}

	s.logger.Debug("submit program requested",
		zap.String("owner_id", actor.ID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
	)

	entries, err := s.repo.FindByOwnerForMonth(ctx, actor.ID, req.Year, req.Month)
	if err != nil {
		return ProgramBatchResponse{}, err
	}

	today := s.today()
	results := make([]ProgramDayResult, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		dateStr := e.Date.Format(dateLayout)

		switch {
		case e.Status != StatusDraft:
			results = append(results, ProgramDayResult{Date: dateStr, Outcome: OutcomeLocked})
			continue
		case e.Date.Before(today):
			results = append(results, ProgramDayResult{Date: dateStr, Outcome: OutcomeSkippedPast})
			continue
		case e.ProgramName == "" && e.Place == "":
			results = append(results, ProgramDayResult{Date: dateStr, Outcome: OutcomeSkippedEmpty})
			continue
		}

		e.Status = StatusSubmitted
		updated, err := s.repo.UpdateStatusFrom(ctx, e, StatusDraft)
		if err != nil {
			s.logger.Warn("submit program entry failed",
				zap.String("entry_id", e.ID.String()),
				zap.String("date", dateStr),
				zap.Error(err),
			)
			results = append(results, ProgramDayResult{Date: dateStr, Outcome: OutcomeFailed})
			continue
		}
		if !updated {
			results = append(results, ProgramDayResult{Date: dateStr, Outcome: OutcomeLocked})
			continue
		}
		results = append(results, ProgramDayResult{Date: dateStr, Outcome: OutcomeSubmitted})
	}

	s.logger.Info("submit program done",
		zap.String("owner_id", actor.ID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("entries", len(results)),
	)
	return ProgramBatchResponse{Results: results}, nil
}

func (s *service) Decide(ctx context.Context, actor domain.Actor, id string, req DecideProgramRequest) (ProgramResponse, error) {
	s.logger.Debug("decide program requested",
		zap.String("entry_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("decision", req.Decision),
	)

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProgramResponse{}, programerrors.ErrProgramNotFound
		}
		return ProgramResponse{}, err
	}

	if !actor.CanDecideProgram(e.Division) {
		s.logger.Warn("decide program not authorized",
			zap.String("entry_id", id),
			zap.String("actor_id", actor.ID),
			zap.String("actor_role", string(actor.Role)),
		)
		return ProgramResponse{}, programerrors.ErrNotAuthorized
	}
	if e.Status != StatusSubmitted {
		return ProgramResponse{}, programerrors.ErrNotAwaitingDecision
	}

	switch req.Decision {
	case StatusApproved, StatusRejected:
		e.Status = req.Decision
	default:
		return ProgramResponse{}, programerrors.ErrInvalidDecision
	}

	updated, err := s.repo.UpdateStatusFrom(ctx, e, StatusSubmitted)
	if err != nil {
		s.logger.Error("decide program persist failed",
			zap.String("entry_id", id),
			zap.Error(err),
		)
		return ProgramResponse{}, err
	}
	if !updated {
		s.logger.Warn("decide program lost optimistic check",
			zap.String("entry_id", id),
		)
		return ProgramResponse{}, programerrors.ErrAlreadyDecided
	}

	s.notifyDecision(ctx, e)

	s.logger.Info("decide program success",
		zap.String("entry_id", id),
		zap.String("status", e.Status),
	)
	return mapToResponse(*e), nil
}

func (s *service) notifyDecision(ctx context.Context, e *AdvancedProgramEntry) {
	if s.dispatcher == nil {
		return
	}
	ev := events.ProgramDecidedEvent{
		Kind:        events.KindProgramDecided,
		EntryID:     e.ID.String(),
		RecipientID: e.UserID.String(),
		Division:    e.Division,
		Date:        e.Date.Format(dateLayout),
		Status:      e.Status,
		OccurredAt:  time.Now().UTC(),
	}
	err := s.dispatcher.Dispatch(ctx, notification.Outgoing{
		Topic:         events.ProgramWorkflowTopic,
		Kind:          events.KindProgramDecided,
		AggregateType: "program_entry",
		AggregateID:   e.ID.String(),
		Payload:       ev,
	})
	if err != nil {
		s.logger.Warn("dispatch program notification failed",
			zap.String("entry_id", e.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, year, month int) ([]ProgramResponse, error) {
	if !validMonth(year, month) {
		return nil, programerrors.ErrInvalidMonth
	}
	entries, err := s.repo.FindByOwnerForMonth(ctx, actor.ID, year, month)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}

func (s *service) ListForApproval(ctx context.Context, actor domain.Actor, year, month int) ([]ProgramResponse, error) {
	if !validMonth(year, month) {
		return nil, programerrors.ErrInvalidMonth
	}
	if !actor.CanDecideProgram(actor.Division) {
		return nil, programerrors.ErrNotAuthorized
	}
	entries, err := s.repo.FindSubmittedForMonth(ctx, actor, year, month)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}

func (s *service) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func validMonth(year, month int) bool {
	return year >= 2000 && year <= 2100 && month >= 1 && month <= 12
}

func mapToResponse(e AdvancedProgramEntry) ProgramResponse {
	return ProgramResponse{
		ID:          e.ID.String(),
		UserID:      e.UserID.String(),
		UserName:    e.UserName,
		Division:    e.Division,
		Date:        e.Date.Format(dateLayout),
		ProgramName: e.ProgramName,
		Place:       e.Place,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(entries []AdvancedProgramEntry) []ProgramResponse {
	resp := make([]ProgramResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	return resp
}
