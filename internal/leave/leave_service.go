package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"staffdesk/internal/domain"
	"staffdesk/internal/events"
	leaveerrors "staffdesk/internal/leave/errors"
	"staffdesk/internal/notification"
	"staffdesk/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending     = "pending"
	StatusRecommended = "recommended"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

const (
	DecisionRecommended    = "recommended"
	DecisionNotRecommended = "not_recommended"
	DecisionApproved       = "approved"
	DecisionNotApproved    = "not_approved"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	Recommend(ctx context.Context, actor domain.Actor, id string, req RecommendLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actor domain.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	ListToRecommend(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	ListToApprove(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	ListApproved(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	counter    counter.Repository
	dispatcher notification.Dispatcher
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	dispatcher notification.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, dispatcher: dispatcher, logger: l}
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("applicant_id", actor.ID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("resume_date", req.ResumeDate),
	)

	applicantUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidApplicantID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	resumeDate, err := parseDate(req.ResumeDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !resumeDate.After(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if req.Reason == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// The application snapshots the applicant's directory row, so later
	// designation changes do not rewrite filed records.
	applicant, err := qtx.FindOfficer(ctx, actor.ID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if applicant == nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidApplicantID
	}

	actingOfficer, recommender, approver, err := s.resolveOfficers(ctx, qtx, actor, req)
	if err != nil {
		s.logger.Warn("submit leave officer validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, "leave_application")
	if err != nil {
		s.logger.Error("submit leave generate application number failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	leaveDays := int(math.Ceil(resumeDate.Sub(startDate).Hours() / 24))

	l := &LeaveApplication{
		ID:                uuid.New(),
		ApplicationNumber: fmt.Sprintf("LV-%06d", nextVal),
		ApplicantID:       applicantUUID,
		ApplicantName:     applicant.Name,
		Designation:       applicant.Designation,
		Division:          actor.Division,
		LeaveType:         req.LeaveType,
		LeaveDays:         leaveDays,
		StartDate:         startDate,
		ResumeDate:        resumeDate,
		Reason:            req.Reason,
		ActingOfficerID:   actingOfficer.ID,
		ActingOfficerName: actingOfficer.Name,
		RecommenderID:     recommender.ID,
		ApproverID:        approver.ID,
		Status:            StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("application_id", l.ID.String()),
		zap.String("application_number", l.ApplicationNumber),
		zap.String("applicant_id", actor.ID),
		zap.Int("leave_days", leaveDays),
	)

	return mapToResponse(*l), nil
}

// resolveOfficers checks that the three referenced officers exist and hold a
// role eligible for their part in the workflow. Any miss is a validation
// failure, not a not-found, so the applicant can correct the form.
func (s *service) resolveOfficers(
	ctx context.Context,
	repo Repository,
	actor domain.Actor,
	req SubmitLeaveRequest,
) (actingOfficer, recommender, approver *Officer, err error) {

	actingOfficer, err = repo.FindOfficer(ctx, req.ActingOfficerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if actingOfficer == nil ||
		actingOfficer.ID.String() == actor.ID ||
		domain.Role(actingOfficer.Role) != domain.RoleStaff ||
		actingOfficer.Division != actor.Division {
		return nil, nil, nil, leaveerrors.ErrActingOfficerInvalid
	}

	recommender, err = repo.FindOfficer(ctx, req.RecommenderID)
	if err != nil {
		return nil, nil, nil, err
	}
	if recommender == nil ||
		!domain.Role(recommender.Role).RecommenderRole() ||
		recommender.Division != actor.Division {
		return nil, nil, nil, leaveerrors.ErrRecommenderInvalid
	}

	approver, err = repo.FindOfficer(ctx, req.ApproverID)
	if err != nil {
		return nil, nil, nil, err
	}
	if approver == nil || !domain.Role(approver.Role).ApproverRole() {
		return nil, nil, nil, leaveerrors.ErrApproverInvalid
	}
	if domain.Role(approver.Role) == domain.RoleDivisionalHead && approver.Division != actor.Division {
		return nil, nil, nil, leaveerrors.ErrApproverInvalid
	}

	return actingOfficer, recommender, approver, nil
}

func (s *service) Recommend(ctx context.Context, actor domain.Actor, id string, req RecommendLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("recommend leave requested",
		zap.String("application_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("decision", req.Decision),
	)

	l, err := s.loadApplication(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !actor.CanRecommendLeave(l.RecommenderID.String(), l.Division) {
		s.logger.Warn("recommend leave not authorized",
			zap.String("application_id", id),
			zap.String("actor_id", actor.ID),
			zap.String("actor_role", string(actor.Role)),
		)
		return LeaveResponse{}, leaveerrors.ErrNotAuthorized
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotAwaitingRecommendation
	}

	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidApplicantID
	}
	now := time.Now().UTC()
	l.RecommendationBy = &actorUUID
	l.RecommendationDate = &now

	switch req.Decision {
	case DecisionRecommended:
		l.Status = StatusRecommended
		if req.Remarks != "" {
			l.RecommendationRemarks = &req.Remarks
		}
	case DecisionNotRecommended:
		// Recommendation-stage rejection is terminal; the approver never
		// sees the application.
		if req.Remarks == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionCommentRequired
		}
		l.Status = StatusRejected
		l.RejectionReason = &req.Remarks
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	if err := s.commitTransition(ctx, l, StatusPending); err != nil {
		return LeaveResponse{}, err
	}

	s.notifyRecommendation(ctx, l)

	s.logger.Info("recommend leave success",
		zap.String("application_id", id),
		zap.String("status", l.Status),
	)
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actor domain.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("approve leave requested",
		zap.String("application_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("decision", req.Decision),
	)

	l, err := s.loadApplication(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !actor.CanApproveLeave(l.ApproverID.String(), l.Division) {
		s.logger.Warn("approve leave not authorized",
			zap.String("application_id", id),
			zap.String("actor_id", actor.ID),
			zap.String("actor_role", string(actor.Role)),
		)
		return LeaveResponse{}, leaveerrors.ErrNotAuthorized
	}
	if l.Status != StatusRecommended {
		return LeaveResponse{}, leaveerrors.ErrNotAwaitingApproval
	}

	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidApplicantID
	}
	now := time.Now().UTC()
	l.ApprovalBy = &actorUUID
	l.ApprovalDate = &now

	switch req.Decision {
	case DecisionApproved:
		l.Status = StatusApproved
		if req.Remarks != "" {
			l.ApprovalRemarks = &req.Remarks
		}
	case DecisionNotApproved:
		if req.Remarks == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionCommentRequired
		}
		l.Status = StatusRejected
		l.RejectionReason = &req.Remarks
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	if err := s.commitTransition(ctx, l, StatusRecommended); err != nil {
		return LeaveResponse{}, err
	}

	s.notifyDecision(ctx, l)

	s.logger.Info("approve leave success",
		zap.String("application_id", id),
		zap.String("status", l.Status),
	)
	return mapToResponse(*l), nil
}

func (s *service) loadApplication(ctx context.Context, id string) (*LeaveApplication, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

// commitTransition applies the status change with the stored status as an
// optimistic precondition. A concurrent decision makes the guarded update
// match zero rows and surfaces as a conflict instead of a silent overwrite.
func (s *service) commitTransition(ctx context.Context, l *LeaveApplication, expectedStatus string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	updated, err := qtx.UpdateStatusFrom(ctx, l, expectedStatus)
	if err != nil {
		s.logger.Error("leave transition persist failed",
			zap.String("application_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	if !updated {
		s.logger.Warn("leave transition lost optimistic check",
			zap.String("application_id", l.ID.String()),
			zap.String("expected_status", expectedStatus),
		)
		return leaveerrors.ErrAlreadyActioned
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed",
			zap.String("application_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// notifyRecommendation informs the approver on a positive recommendation and
// the applicant on a terminal rejection. Dispatch failures are logged and
// swallowed; the committed transition stands either way.
func (s *service) notifyRecommendation(ctx context.Context, l *LeaveApplication) {
	if s.dispatcher == nil {
		return
	}

	kind := events.KindLeaveRecommended
	recipient := l.ApproverID.String()
	if l.Status == StatusRejected {
		kind = events.KindLeaveDecided
		recipient = l.ApplicantID.String()
	}

	s.dispatch(ctx, l, kind, recipient)
}

func (s *service) notifyDecision(ctx context.Context, l *LeaveApplication) {
	if s.dispatcher == nil {
		return
	}
	s.dispatch(ctx, l, events.KindLeaveDecided, l.ApplicantID.String())
}

func (s *service) dispatch(ctx context.Context, l *LeaveApplication, kind, recipientID string) {
	ev := events.LeaveWorkflowEvent{
		Kind:          kind,
		ApplicationID: l.ID.String(),
		RecipientID:   recipientID,
		ApplicantID:   l.ApplicantID.String(),
		Division:      l.Division,
		Status:        l.Status,
		OccurredAt:    time.Now().UTC(),
	}
	err := s.dispatcher.Dispatch(ctx, notification.Outgoing{
		Topic:         events.LeaveWorkflowTopic,
		Kind:          kind,
		AggregateType: "leave_application",
		AggregateID:   l.ID.String(),
		Payload:       ev,
	})
	if err != nil {
		s.logger.Warn("dispatch leave notification failed",
			zap.String("application_id", l.ID.String()),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	l, err := s.loadApplication(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !canViewApplication(actor, l) {
		return LeaveResponse{}, leaveerrors.ErrNotAuthorized
	}

	return mapToResponse(*l), nil
}

// canViewApplication mirrors the acting rules: the applicant, the named
// officers, the division-scoped leadership of the record's division and the
// system-wide roles may read a record.
func canViewApplication(actor domain.Actor, l *LeaveApplication) bool {
	if actor.ID == l.ApplicantID.String() ||
		actor.ID == l.ActingOfficerID.String() ||
		actor.ID == l.RecommenderID.String() ||
		actor.ID == l.ApproverID.String() {
		return true
	}
	if actor.Role.SystemWide() {
		return true
	}
	if (actor.Role == domain.RoleDivisionCC || actor.Role == domain.RoleDivisionalHead) &&
		actor.Division != "" && actor.Division == l.Division {
		return true
	}
	return false
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	apps, err := s.repo.FindByApplicant(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) ListToRecommend(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	apps, err := s.repo.FindToRecommend(ctx, actor)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) ListToApprove(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	apps, err := s.repo.FindToApprove(ctx, actor)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) ListApproved(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	if !actor.CanDownloadApprovedLeave() {
		return nil, leaveerrors.ErrNotAuthorized
	}
	apps, err := s.repo.FindApproved(ctx, actor)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveApplication) LeaveResponse {
	resp := LeaveResponse{
		ID:                l.ID.String(),
		ApplicationNumber: l.ApplicationNumber,
		ApplicantID:       l.ApplicantID.String(),
		ApplicantName:     l.ApplicantName,
		Designation:       l.Designation,
		Division:          l.Division,
		LeaveType:         l.LeaveType,
		LeaveDays:         l.LeaveDays,
		StartDate:         l.StartDate.Format("2006-01-02"),
		ResumeDate:        l.ResumeDate.Format("2006-01-02"),
		Reason:            l.Reason,
		ActingOfficerID:   l.ActingOfficerID.String(),
		ActingOfficerName: l.ActingOfficerName,
		RecommenderID:     l.RecommenderID.String(),
		ApproverID:        l.ApproverID.String(),
		Status:            l.Status,
		CreatedAt:         l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         l.UpdatedAt.Format(time.RFC3339),
	}
	if l.RecommendationBy != nil {
		v := l.RecommendationBy.String()
		resp.RecommendationBy = &v
	}
	if l.RecommendationDate != nil {
		v := l.RecommendationDate.Format(time.RFC3339)
		resp.RecommendationDate = &v
	}
	resp.RecommendationRemarks = l.RecommendationRemarks
	if l.ApprovalBy != nil {
		v := l.ApprovalBy.String()
		resp.ApprovalBy = &v
	}
	if l.ApprovalDate != nil {
		v := l.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &v
	}
	resp.ApprovalRemarks = l.ApprovalRemarks
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(apps []LeaveApplication) []LeaveResponse {
	resp := make([]LeaveResponse, len(apps))
	for i, l := range apps {
		resp[i] = mapToResponse(l)
	}
	return resp
}
