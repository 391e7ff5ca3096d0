package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hackdash/internal/db"
	"hackdash/internal/models"
	"hackdash/internal/notify"
	"hackdash/internal/sse"
)

func TestUpdateSubmissionStatus(t *testing.T) {
	database := openTestDB(t)
	handler, seed, submission := newTestSubmissionHandler(t, database)

	body := fmt.Sprintf(`{"submissionId":%q,"status":"Valid"}`, submission.ID)
	rr := httptest.NewRecorder()
	handler.UpdateStatus(rr, httptest.NewRequest(http.MethodPut, "/api/team/submission/status", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp SubmissionStatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if resp.Data.Status != models.SubmissionValid {
		t.Fatalf("submission status = %q, want %q", resp.Data.Status, models.SubmissionValid)
	}
	if !resp.NotificationSent {
		t.Fatal("notificationSent = false, want true")
	}

	notifications, err := db.NewNotificationRepository(database).FindByUserID(seed.creator.ID)
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != models.NotificationSubmissionApproved {
		t.Fatalf("notifications = %+v, want one submission_approved row", notifications)
	}
}

func TestUpdateSubmissionStatusRejectsUnknownValue(t *testing.T) {
	database := openTestDB(t)
	handler, _, submission := newTestSubmissionHandler(t, database)

	body := fmt.Sprintf(`{"submissionId":%q,"status":"Done"}`, submission.ID)
	rr := httptest.NewRecorder()
	handler.UpdateStatus(rr, httptest.NewRequest(http.MethodPut, "/api/team/submission/status", strings.NewReader(body)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestUpdateSubmissionStatusUnknownSubmission(t *testing.T) {
	database := openTestDB(t)
	handler, _, _ := newTestSubmissionHandler(t, database)

	rr := httptest.NewRecorder()
	handler.UpdateStatus(rr, httptest.NewRequest(http.MethodPut, "/api/team/submission/status", strings.NewReader(`{"submissionId":"missing","status":"Valid"}`)))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}

func TestListSubmissionsIncludesTeamDetails(t *testing.T) {
	database := openTestDB(t)
	handler, seed, submission := newTestSubmissionHandler(t, database)

	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/api/team/submission", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp SubmissionListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if len(resp.Data) != 1 {
		t.Fatalf("submissions = %d, want 1", len(resp.Data))
	}
	if resp.Data[0].ID != submission.ID {
		t.Fatalf("submission id = %q, want %q", resp.Data[0].ID, submission.ID)
	}
	if resp.Data[0].Team == nil || resp.Data[0].Team.ID != seed.team.ID {
		t.Fatalf("team = %+v, want %q", resp.Data[0].Team, seed.team.ID)
	}
	if len(resp.Data[0].TeamMembers) != 1 {
		t.Fatalf("team members = %d, want 1", len(resp.Data[0].TeamMembers))
	}
}

func TestSubmissionStats(t *testing.T) {
	database := openTestDB(t)
	handler, _, submission := newTestSubmissionHandler(t, database)

	if _, err := db.NewSubmissionRepository(database).UpdateStatus(submission.ID, models.SubmissionInvalid); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	rr := httptest.NewRecorder()
	handler.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/team/submission/stats", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp SubmissionStatsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if resp.Data.Total != 1 || resp.Data.Invalid != 1 {
		t.Fatalf("stats = %+v, want total 1, invalid 1", resp.Data)
	}
}

func newTestSubmissionHandler(t *testing.T, database *db.DB) (*SubmissionHandler, *teamSeed, *models.Submission) {
	t.Helper()

	_, seed := newTestTeamHandler(t, database, &stubMailer{})

	submission, err := db.NewSubmissionRepository(database).Create(seed.team.ID, "https://example.com/proposal.pdf")
	if err != nil {
		t.Fatalf("SubmissionRepository.Create() error = %v", err)
	}

	notifier := notify.NewService(db.NewNotificationRepository(database), sse.NewHub())
	handler := NewSubmissionHandler(
		db.NewSubmissionRepository(database),
		db.NewTeamRepository(database),
		db.NewMemberRepository(database),
		notifier,
	)

	return handler, seed, submission
}
