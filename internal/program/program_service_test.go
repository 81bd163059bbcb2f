package program_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"database/sql"

	"staffdesk/internal/domain"
	"staffdesk/internal/notification"
	"staffdesk/internal/program"
	programerrors "staffdesk/internal/program/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeProgramRepository struct {
	withTxFn                func(tx *sql.Tx) program.Repository
	createFn                func(ctx context.Context, e *program.AdvancedProgramEntry) error
	findByIDFn              func(ctx context.Context, id string) (*program.AdvancedProgramEntry, error)
	findByOwnerAndDateFn    func(ctx context.Context, userID string, date string) (*program.AdvancedProgramEntry, error)
	findByOwnerForMonthFn   func(ctx context.Context, userID string, year, month int) ([]program.AdvancedProgramEntry, error)
	findSubmittedForMonthFn func(ctx context.Context, actor domain.Actor, year, month int) ([]program.AdvancedProgramEntry, error)
	updateDraftFieldsFn     func(ctx context.Context, e *program.AdvancedProgramEntry) (bool, error)
	updateStatusFromFn      func(ctx context.Context, e *program.AdvancedProgramEntry, expectedStatus string) (bool, error)
}

func (f *fakeProgramRepository) WithTx(tx *sql.Tx) program.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeProgramRepository) Create(ctx context.Context, e *program.AdvancedProgramEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeProgramRepository) FindByID(ctx context.Context, id string) (*program.AdvancedProgramEntry, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeProgramRepository) FindByOwnerAndDate(ctx context.Context, userID string, date string) (*program.AdvancedProgramEntry, error) {
	if f.findByOwnerAndDateFn != nil {
		return f.findByOwnerAndDateFn(ctx, userID, date)
	}
	return nil, nil
}

func (f *fakeProgramRepository) FindByOwnerForMonth(ctx context.Context, userID string, year, month int) ([]program.AdvancedProgramEntry, error) {
	if f.findByOwnerForMonthFn != nil {
		return f.findByOwnerForMonthFn(ctx, userID, year, month)
	}
	return nil, nil
}

func (f *fakeProgramRepository) FindSubmittedForMonth(ctx context.Context, actor domain.Actor, year, month int) ([]program.AdvancedProgramEntry, error) {
	if f.findSubmittedForMonthFn != nil {
		return f.findSubmittedForMonthFn(ctx, actor, year, month)
	}
	return nil, nil
}

func (f *fakeProgramRepository) UpdateDraftFields(ctx context.Context, e *program.AdvancedProgramEntry) (bool, error) {
	if f.updateDraftFieldsFn != nil {
		return f.updateDraftFieldsFn(ctx, e)
	}
	return true, nil
}

func (f *fakeProgramRepository) UpdateStatusFrom(ctx context.Context, e *program.AdvancedProgramEntry, expectedStatus string) (bool, error) {
	if f.updateStatusFromFn != nil {
		return f.updateStatusFromFn(ctx, e, expectedStatus)
	}
	return true, nil
}

type fakeDispatcher struct {
	dispatchFn func(ctx context.Context, out notification.Outgoing) error
	dispatched []notification.Outgoing
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, out notification.Outgoing) error {
	f.dispatched = append(f.dispatched, out)
	if f.dispatchFn != nil {
		return f.dispatchFn(ctx, out)
	}
	return nil
}

type programServiceDeps struct {
	service    program.Service
	repo       *fakeProgramRepository
	dispatcher *fakeDispatcher
}

func setupProgramServiceTest(t *testing.T) *programServiceDeps {
	t.Helper()

	repo := &fakeProgramRepository{}
	dispatcher := &fakeDispatcher{}
	svc := program.NewService(repo, dispatcher)

	return &programServiceDeps{service: svc, repo: repo, dispatcher: dispatcher}
}

func fieldActor(division string) domain.Actor {
	return domain.Actor{
		ID:        uuid.New().String(),
		Name:      "Field Officer",
		Role:      domain.RoleStaff,
		Division:  division,
		StaffType: domain.StaffTypeField,
	}
}

// Fixed dates keep the past-date cutoff deterministic without faking the
// clock.
const (
	futureDate  = "2099-05-10"
	futureDate2 = "2099-05-11"
	pastDate    = "2000-01-01"
)

func outcomeByDate(t *testing.T, resp program.ProgramBatchResponse, date string) string {
	t.Helper()
	for _, r := range resp.Results {
		if r.Date == date {
			return r.Outcome
		}
	}
	t.Fatalf("no result for date %s", date)
	return ""
}

func TestProgramService_Save(t *testing.T) {
	ctx := context.Background()
	division := "Extension"

	t.Run("negative office staff cannot save", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)
		actor.StaffType = domain.StaffTypeOffice

		_, err := deps.service.Save(ctx, actor, program.SaveProgramRequest{
			Entries: []program.ProgramDayInput{{Date: futureDate, ProgramName: "Field visit", Place: "Site A"}},
		})

		assert.ErrorIs(t, err, programerrors.ErrFieldStaffOnly)
	})

	t.Run("success mixed batch resolves per date", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)

		var created []*program.AdvancedProgramEntry
		deps.repo.createFn = func(ctx context.Context, e *program.AdvancedProgramEntry) error {
			created = append(created, e)
			return nil
		}

		resp, err := deps.service.Save(ctx, actor, program.SaveProgramRequest{
			Entries: []program.ProgramDayInput{
				{Date: futureDate, ProgramName: "Field visit", Place: "Site A"},
				{Date: pastDate, ProgramName: "Too late", Place: "Site B"},
				{Date: futureDate2},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, program.OutcomeSaved, outcomeByDate(t, resp, futureDate))
		assert.Equal(t, program.OutcomeSkippedPast, outcomeByDate(t, resp, pastDate))
		assert.Equal(t, program.OutcomeSkippedEmpty, outcomeByDate(t, resp, futureDate2))
		assert.Len(t, created, 1)
		assert.Equal(t, actor.ID, created[0].UserID.String())
		assert.Equal(t, division, created[0].Division)
		assert.Equal(t, program.StatusDraft, created[0].Status)
	})

	t.Run("existing draft is rewritten in place", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)

		existing := &program.AdvancedProgramEntry{
			ID:          uuid.New(),
			UserID:      uuid.MustParse(actor.ID),
			Division:    division,
			Date:        time.Date(2099, 5, 10, 0, 0, 0, 0, time.UTC),
			ProgramName: "Old name",
			Place:       "Old place",
			Status:      program.StatusDraft,
		}
		deps.repo.findByOwnerAndDateFn = func(ctx context.Context, userID string, date string) (*program.AdvancedProgramEntry, error) {
			return existing, nil
		}
		deps.repo.updateDraftFieldsFn = func(ctx context.Context, e *program.AdvancedProgramEntry) (bool, error) {
			assert.Equal(t, "New name", e.ProgramName)
			assert.Equal(t, "New place", e.Place)
			return true, nil
		}

		resp, err := deps.service.Save(ctx, actor, program.SaveProgramRequest{
			Entries: []program.ProgramDayInput{{Date: futureDate, ProgramName: "New name", Place: "New place"}},
		})

		assert.NoError(t, err)
		assert.Equal(t, program.OutcomeSaved, outcomeByDate(t, resp, futureDate))
	})

	t.Run("submitted entry reports locked", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)

		deps.repo.findByOwnerAndDateFn = func(ctx context.Context, userID string, date string) (*program.AdvancedProgramEntry, error) {
			return &program.AdvancedProgramEntry{
				ID:     uuid.New(),
				Status: program.StatusSubmitted,
			}, nil
		}

		resp, err := deps.service.Save(ctx, actor, program.SaveProgramRequest{
			Entries: []program.ProgramDayInput{{Date: futureDate, ProgramName: "Field visit", Place: "Site A"}},
		})

		assert.NoError(t, err)
		assert.Equal(t, program.OutcomeLocked, outcomeByDate(t, resp, futureDate))
	})

	t.Run("concurrent insert for the same date reports locked", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)

		deps.repo.createFn = func(ctx context.Context, e *program.AdvancedProgramEntry) error {
			return programerrors.ErrDuplicateEntry
		}

		resp, err := deps.service.Save(ctx, actor, program.SaveProgramRequest{
			Entries: []program.ProgramDayInput{{Date: futureDate, ProgramName: "Field visit", Place: "Site A"}},
		})

		assert.NoError(t, err)
		assert.Equal(t, program.OutcomeLocked, outcomeByDate(t, resp, futureDate))
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)

		_, err := deps.service.Save(ctx, actor, program.SaveProgramRequest{
			Entries: []program.ProgramDayInput{{Date: "10-05-2099", ProgramName: "Field visit", Place: "Site A"}},
		})

		assert.ErrorIs(t, err, programerrors.ErrInvalidDateFormat)
	})
}

func TestProgramService_Submit(t *testing.T) {
	ctx := context.Background()
	division := "Extension"

	monthEntries := func(ownerID uuid.UUID) []program.AdvancedProgramEntry {
		return []program.AdvancedProgramEntry{
			{
				ID:          uuid.New(),
				UserID:      ownerID,
				Division:    division,
				Date:        time.Date(2099, 5, 10, 0, 0, 0, 0, time.UTC),
				ProgramName: "Field visit",
				Place:       "Site A",
				Status:      program.StatusDraft,
			},
			{
				ID:          uuid.New(),
				UserID:      ownerID,
				Division:    division,
				Date:        time.Date(2099, 5, 11, 0, 0, 0, 0, time.UTC),
				ProgramName: "Inspection",
				Place:       "Site B",
				Status:      program.StatusSubmitted,
			},
			{
				ID:       uuid.New(),
				UserID:   ownerID,
				Division: division,
				Date:     time.Date(2099, 5, 12, 0, 0, 0, 0, time.UTC),
				Status:   program.StatusDraft,
			},
		}
	}

	t.Run("success only qualifying drafts move", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)
		ownerID := uuid.MustParse(actor.ID)

		deps.repo.findByOwnerForMonthFn = func(ctx context.Context, userID string, year, month int) ([]program.AdvancedProgramEntry, error) {
			assert.Equal(t, actor.ID, userID)
			assert.Equal(t, 2099, year)
			assert.Equal(t, 5, month)
			return monthEntries(ownerID), nil
		}
		var transitioned []string
		deps.repo.updateStatusFromFn = func(ctx context.Context, e *program.AdvancedProgramEntry, expectedStatus string) (bool, error) {
			assert.Equal(t, program.StatusDraft, expectedStatus)
			assert.Equal(t, program.StatusSubmitted, e.Status)
			transitioned = append(transitioned, e.Date.Format("2006-01-02"))
			return true, nil
		}

		resp, err := deps.service.Submit(ctx, actor, program.SubmitProgramRequest{Year: 2099, Month: 5})

		assert.NoError(t, err)
		assert.Equal(t, program.OutcomeSubmitted, outcomeByDate(t, resp, "2099-05-10"))
		assert.Equal(t, program.OutcomeLocked, outcomeByDate(t, resp, "2099-05-11"))
		assert.Equal(t, program.OutcomeSkippedEmpty, outcomeByDate(t, resp, "2099-05-12"))
		assert.Equal(t, []string{"2099-05-10"}, transitioned)
	})

	t.Run("one failed write never blocks the rest", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)
		ownerID := uuid.MustParse(actor.ID)

		entries := []program.AdvancedProgramEntry{
			{
				ID: uuid.New(), UserID: ownerID, Division: division,
				Date:        time.Date(2099, 5, 10, 0, 0, 0, 0, time.UTC),
				ProgramName: "Field visit", Place: "Site A", Status: program.StatusDraft,
			},
			{
				ID: uuid.New(), UserID: ownerID, Division: division,
				Date:        time.Date(2099, 5, 11, 0, 0, 0, 0, time.UTC),
				ProgramName: "Inspection", Place: "Site B", Status: program.StatusDraft,
			},
		}
		deps.repo.findByOwnerForMonthFn = func(ctx context.Context, userID string, year, month int) ([]program.AdvancedProgramEntry, error) {
			return entries, nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, e *program.AdvancedProgramEntry, expectedStatus string) (bool, error) {
			if e.Date.Day() == 10 {
				return false, errors.New("connection reset")
			}
			return true, nil
		}

		resp, err := deps.service.Submit(ctx, actor, program.SubmitProgramRequest{Year: 2099, Month: 5})

		assert.NoError(t, err)
		assert.Equal(t, program.OutcomeFailed, outcomeByDate(t, resp, "2099-05-10"))
		assert.Equal(t, program.OutcomeSubmitted, outcomeByDate(t, resp, "2099-05-11"))
	})

	t.Run("negative office staff cannot submit", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor(division)
		actor.StaffType = domain.StaffTypeOffice

		_, err := deps.service.Submit(ctx, actor, program.SubmitProgramRequest{Year: 2099, Month: 5})

		assert.ErrorIs(t, err, programerrors.ErrFieldStaffOnly)
	})
}

func TestProgramService_Decide(t *testing.T) {
	ctx := context.Background()
	division := "Extension"

	submittedEntry := func() *program.AdvancedProgramEntry {
		return &program.AdvancedProgramEntry{
			ID:          uuid.New(),
			UserID:      uuid.New(),
			UserName:    "Field Officer",
			Division:    division,
			Date:        time.Date(2099, 5, 10, 0, 0, 0, 0, time.UTC),
			ProgramName: "Field visit",
			Place:       "Site A",
			Status:      program.StatusSubmitted,
		}
	}

	approverActor := func() domain.Actor {
		return domain.Actor{
			ID:       uuid.New().String(),
			Role:     domain.RoleDivisionalHead,
			Division: division,
		}
	}

	t.Run("success approved notifies the owner", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		e := submittedEntry()
		actor := approverActor()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*program.AdvancedProgramEntry, error) {
			return e, nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, entry *program.AdvancedProgramEntry, expectedStatus string) (bool, error) {
			assert.Equal(t, program.StatusSubmitted, expectedStatus)
			assert.Equal(t, program.StatusApproved, entry.Status)
			return true, nil
		}

		resp, err := deps.service.Decide(ctx, actor, e.ID.String(), program.DecideProgramRequest{Decision: "approved"})

		assert.NoError(t, err)
		assert.Equal(t, program.StatusApproved, resp.Status)
		assert.Len(t, deps.dispatcher.dispatched, 1)
		assert.Equal(t, "program-decided", deps.dispatcher.dispatched[0].Kind)
		assert.Equal(t, e.ID.String(), deps.dispatcher.dispatched[0].AggregateID)
	})

	t.Run("negative head of another division", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		e := submittedEntry()
		actor := approverActor()
		actor.Division = "Finance"

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*program.AdvancedProgramEntry, error) {
			return e, nil
		}

		_, err := deps.service.Decide(ctx, actor, e.ID.String(), program.DecideProgramRequest{Decision: "approved"})

		assert.ErrorIs(t, err, programerrors.ErrNotAuthorized)
		assert.Empty(t, deps.dispatcher.dispatched)
	})

	t.Run("negative draft entry is not decidable", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		e := submittedEntry()
		e.Status = program.StatusDraft

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*program.AdvancedProgramEntry, error) {
			return e, nil
		}

		_, err := deps.service.Decide(ctx, approverActor(), e.ID.String(), program.DecideProgramRequest{Decision: "approved"})

		assert.ErrorIs(t, err, programerrors.ErrNotAwaitingDecision)
	})

	t.Run("negative concurrent decision surfaces conflict", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		e := submittedEntry()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*program.AdvancedProgramEntry, error) {
			return e, nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, entry *program.AdvancedProgramEntry, expectedStatus string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Decide(ctx, approverActor(), e.ID.String(), program.DecideProgramRequest{Decision: "rejected"})

		assert.ErrorIs(t, err, programerrors.ErrAlreadyDecided)
		assert.Empty(t, deps.dispatcher.dispatched)
	})

	t.Run("negative unknown decision", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		e := submittedEntry()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*program.AdvancedProgramEntry, error) {
			return e, nil
		}

		_, err := deps.service.Decide(ctx, approverActor(), e.ID.String(), program.DecideProgramRequest{Decision: "maybe"})

		assert.ErrorIs(t, err, programerrors.ErrInvalidDecision)
	})
}

func TestProgramService_ListForApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("negative plain staff denied", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := fieldActor("Extension")

		_, err := deps.service.ListForApproval(ctx, actor, 2099, 5)

		assert.ErrorIs(t, err, programerrors.ErrNotAuthorized)
	})

	t.Run("negative month out of range", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := domain.Actor{ID: uuid.New().String(), Role: domain.RoleHOD}

		_, err := deps.service.ListForApproval(ctx, actor, 2099, 13)

		assert.ErrorIs(t, err, programerrors.ErrInvalidMonth)
	})

	t.Run("success scoped listing", func(t *testing.T) {
		deps := setupProgramServiceTest(t)
		actor := domain.Actor{ID: uuid.New().String(), Role: domain.RoleDivisionalHead, Division: "Extension"}

		deps.repo.findSubmittedForMonthFn = func(ctx context.Context, a domain.Actor, year, month int) ([]program.AdvancedProgramEntry, error) {
			assert.Equal(t, actor.ID, a.ID)
			return []program.AdvancedProgramEntry{{
				ID:       uuid.New(),
				UserID:   uuid.New(),
				Division: "Extension",
				Date:     time.Date(2099, 5, 10, 0, 0, 0, 0, time.UTC),
				Status:   program.StatusSubmitted,
			}}, nil
		}

		resp, err := deps.service.ListForApproval(ctx, actor, 2099, 5)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, program.StatusSubmitted, resp[0].Status)
	})
}
