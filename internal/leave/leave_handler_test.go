package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"staffdesk/internal/domain"
	"staffdesk/internal/leave"
	leaveerrors "staffdesk/internal/leave/errors"
	"staffdesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn          func(ctx context.Context, actor domain.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	recommendFn       func(ctx context.Context, actor domain.Actor, id string, req leave.RecommendLeaveRequest) (leave.LeaveResponse, error)
	approveFn         func(ctx context.Context, actor domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	getByIDFn         func(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error)
	listMineFn        func(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error)
	listToRecommendFn func(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error)
	listToApproveFn   func(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error)
	listApprovedFn    func(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, actor domain.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, actor, req)
}
func (f *fakeLeaveService) Recommend(ctx context.Context, actor domain.Actor, id string, req leave.RecommendLeaveRequest) (leave.LeaveResponse, error) {
	return f.recommendFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actor domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, actor)
}
func (f *fakeLeaveService) ListToRecommend(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	return f.listToRecommendFn(ctx, actor)
}
func (f *fakeLeaveService) ListToApprove(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	return f.listToApproveFn(ctx, actor)
}
func (f *fakeLeaveService) ListApproved(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	return f.listApprovedFn(ctx, actor)
}

func setActor(c *gin.Context, actor domain.Actor) {
	c.Set(middleware.CtxUserID, actor.ID)
	c.Set(middleware.CtxUserName, actor.Name)
	c.Set(middleware.CtxRole, string(actor.Role))
	c.Set(middleware.CtxDivision, actor.Division)
	c.Set(middleware.CtxStaffType, string(actor.StaffType))
}

func submitBody(officer, recommender, approver string) string {
	return `{"leave_type":"annual","start_date":"2025-03-10","resume_date":"2025-03-13","reason":"Family event",` +
		`"acting_officer_id":"` + officer + `","recommender_id":"` + recommender + `","approver_id":"` + approver + `"}`
}

func TestLeaveHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actor := staffActor("Planning")
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, a domain.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actor.ID, a.ID)
				assert.Equal(t, "annual", req.LeaveType)
				return leave.LeaveResponse{
					ID:                uuid.New().String(),
					ApplicationNumber: "LV-000042",
					ApplicantID:       a.ID,
					LeaveType:         req.LeaveType,
					LeaveDays:         3,
					Status:            leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := submitBody(uuid.New().String(), uuid.New().String(), uuid.New().String())
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		setActor(c, actor)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "LV-000042", got.ApplicationNumber)
		assert.Equal(t, 3, got.LeaveDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative missing auth context", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := submitBody(uuid.New().String(), uuid.New().String(), uuid.New().String())
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		setActor(c, staffActor("Planning"))

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestLeaveHandler_Recommend(t *testing.T) {
	t.Run("negative lost race returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			recommendFn: func(ctx context.Context, actor domain.Actor, id string, req leave.RecommendLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyActioned
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/abc/recommendation", strings.NewReader(`{"decision":"recommended"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		setActor(c, domain.Actor{ID: uuid.New().String(), Role: domain.RoleDivisionCC, Division: "Planning", StaffType: domain.StaffTypeOffice})

		h.Recommend(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("negative unauthorized actor returns forbidden", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, actor domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotAuthorized
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/abc/approval", strings.NewReader(`{"decision":"approved"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		setActor(c, domain.Actor{ID: uuid.New().String(), Role: domain.RoleDivisionalHead, Division: "Finance", StaffType: domain.StaffTypeOffice})

		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}
