package api

import (
	"encoding/json"
	"errors"
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

func TestUpdateTeamApprovalRejectedRequiresMessage(t *testing.T) {
	database := openTestDB(t)
	handler, seed := newTestTeamHandler(t, database, &stubMailer{})

	body := fmt.Sprintf(`{"teamId":%q,"approval":"Rejected"}`, seed.team.ID)
	rr := httptest.NewRecorder()
	handler.UpdateApproval(rr, httptest.NewRequest(http.MethodPut, "/api/team/approval", strings.NewReader(body)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusBadRequest, rr.Body.String())
	}

	team, err := db.NewTeamRepository(database).FindByID(seed.team.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if team.ApprovalStatus != models.TeamPending {
		t.Fatalf("approval = %q, want unchanged %q", team.ApprovalStatus, models.TeamPending)
	}
}

func TestUpdateTeamApprovalInvalidStatus(t *testing.T) {
	database := openTestDB(t)
	handler, seed := newTestTeamHandler(t, database, &stubMailer{})

	body := fmt.Sprintf(`{"teamId":%q,"approval":"Maybe"}`, seed.team.ID)
	rr := httptest.NewRecorder()
	handler.UpdateApproval(rr, httptest.NewRequest(http.MethodPut, "/api/team/approval", strings.NewReader(body)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestUpdateTeamApprovalUnknownTeam(t *testing.T) {
	database := openTestDB(t)
	handler, _ := newTestTeamHandler(t, database, &stubMailer{})

	rr := httptest.NewRecorder()
	handler.UpdateApproval(rr, httptest.NewRequest(http.MethodPut, "/api/team/approval", strings.NewReader(`{"teamId":"missing","approval":"Accepted"}`)))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}

func TestUpdateTeamApprovalAcceptedClearsRejectMessage(t *testing.T) {
	database := openTestDB(t)
	mailer := &stubMailer{}
	handler, seed := newTestTeamHandler(t, database, mailer)

	reject := "Payment proof unreadable"
	if _, err := db.NewTeamRepository(database).UpdateApproval(seed.team.ID, models.TeamRejected, &reject); err != nil {
		t.Fatalf("UpdateApproval() error = %v", err)
	}

	body := fmt.Sprintf(`{"teamId":%q,"approval":"Accepted"}`, seed.team.ID)
	rr := httptest.NewRecorder()
	handler.UpdateApproval(rr, httptest.NewRequest(http.MethodPut, "/api/team/approval", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp TeamApprovalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if resp.Data.ApprovalStatus != models.TeamAccepted {
		t.Fatalf("approval = %q, want %q", resp.Data.ApprovalStatus, models.TeamAccepted)
	}
	if resp.Data.RejectMessage != nil {
		t.Fatalf("reject message = %q, want cleared", *resp.Data.RejectMessage)
	}
	if !resp.EmailSent {
		t.Fatal("emailSent = false, want true")
	}
	if !resp.NotificationSent {
		t.Fatal("notificationSent = false, want true")
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "team_accepted:"+seed.leader.Email {
		t.Fatalf("mailer.sent = %v, want one team_accepted to leader", mailer.sent)
	}

	notifications, err := db.NewNotificationRepository(database).FindByUserID(seed.creator.ID)
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != models.NotificationTeamApproved {
		t.Fatalf("notifications = %+v, want one team_approved row", notifications)
	}
}

func TestUpdateTeamApprovalEmailFailureStillUpdates(t *testing.T) {
	database := openTestDB(t)
	handler, seed := newTestTeamHandler(t, database, &stubMailer{err: errors.New("smtp unavailable")})

	body := fmt.Sprintf(`{"teamId":%q,"approval":"Rejected","rejectMessage":"Incomplete roster"}`, seed.team.ID)
	rr := httptest.NewRecorder()
	handler.UpdateApproval(rr, httptest.NewRequest(http.MethodPut, "/api/team/approval", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp TeamApprovalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if resp.EmailSent {
		t.Fatal("emailSent = true, want false with failing mailer")
	}
	if !resp.NotificationSent {
		t.Fatal("notificationSent = false, want true")
	}
	if resp.Data.ApprovalStatus != models.TeamRejected {
		t.Fatalf("approval = %q, want %q", resp.Data.ApprovalStatus, models.TeamRejected)
	}
	if resp.Data.RejectMessage == nil || *resp.Data.RejectMessage != "Incomplete roster" {
		t.Fatalf("reject message = %v, want %q", resp.Data.RejectMessage, "Incomplete roster")
	}
}

func TestUpdateMemberApproval(t *testing.T) {
	database := openTestDB(t)
	handler, seed := newTestTeamHandler(t, database, &stubMailer{})

	member, err := db.NewMemberRepository(database).Create(seed.team.ID, "Bob", "bob@example.com", "", "", "Developer", false)
	if err != nil {
		t.Fatalf("MemberRepository.Create() error = %v", err)
	}

	body := fmt.Sprintf(`{"memberId":%q,"approval":"Accepted"}`, member.ID)
	rr := httptest.NewRecorder()
	handler.UpdateMemberApproval(rr, httptest.NewRequest(http.MethodPut, "/api/team/member/approval", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp MemberApprovalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if resp.Data.MemberApproval != models.MemberAccepted {
		t.Fatalf("approval = %q, want %q", resp.Data.MemberApproval, models.MemberAccepted)
	}
	if !resp.NotificationSent {
		t.Fatal("notificationSent = false, want true")
	}
}

func TestListRegistrationsDropsOrphanedTeams(t *testing.T) {
	database := openTestDB(t)
	handler, seed := newTestTeamHandler(t, database, &stubMailer{})

	// A team whose creator row is gone must not appear in the view. Foreign
	// keys are enforced on every connection, so the orphan is inserted with
	// enforcement toggled off for the statement batch.
	if _, err := database.Exec(`
		PRAGMA foreign_keys = OFF;
		INSERT INTO teams (id, created_by, team_name, institution, whatsapp_number, created_at)
		VALUES ('team_ghost', 'usr_gone', 'Ghost Team', 'Nowhere U', '+620000', CURRENT_TIMESTAMP);
		PRAGMA foreign_keys = ON;
	`); err != nil {
		t.Fatalf("inserting orphaned team: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ListRegistrations(rr, httptest.NewRequest(http.MethodGet, "/api/team/registration", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp TeamRegistrationResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if len(resp.Data) != 1 {
		t.Fatalf("teams = %d, want 1 after dropping orphan", len(resp.Data))
	}
	if resp.Data[0].ID != seed.team.ID {
		t.Fatalf("team id = %q, want %q", resp.Data[0].ID, seed.team.ID)
	}
	if resp.Data[0].Creator == nil || resp.Data[0].Creator.ID != seed.creator.ID {
		t.Fatalf("creator = %+v, want %q", resp.Data[0].Creator, seed.creator.ID)
	}
	if resp.Data[0].MemberCount != 1 {
		t.Fatalf("member count = %d, want 1", resp.Data[0].MemberCount)
	}
}

func TestTeamStats(t *testing.T) {
	database := openTestDB(t)
	handler, seed := newTestTeamHandler(t, database, &stubMailer{})

	if _, err := db.NewTeamRepository(database).UpdateApproval(seed.team.ID, models.TeamAccepted, nil); err != nil {
		t.Fatalf("UpdateApproval() error = %v", err)
	}

	rr := httptest.NewRecorder()
	handler.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/team/stats", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp TeamStatsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if resp.Data.Total != 1 || resp.Data.Accepted != 1 || resp.Data.Pending != 0 {
		t.Fatalf("stats = %+v, want total 1, accepted 1", resp.Data)
	}
}

type teamSeed struct {
	creator *models.User
	team    *models.Team
	leader  *models.TeamMember
}

func newTestTeamHandler(t *testing.T, database *db.DB, mailer Mailer) (*TeamHandler, *teamSeed) {
	t.Helper()

	creator, err := db.NewUserRepository(database).Create("creator@example.com", "creator")
	if err != nil {
		t.Fatalf("UserRepository.Create() error = %v", err)
	}
	team, err := db.NewTeamRepository(database).Create(creator.ID, "Byte Bandits", "Example University", "+628123", "https://example.com/proof.png")
	if err != nil {
		t.Fatalf("TeamRepository.Create() error = %v", err)
	}
	leader, err := db.NewMemberRepository(database).Create(team.ID, "Alice", "alice@example.com", "https://github.com/alice", "", "Leader", true)
	if err != nil {
		t.Fatalf("MemberRepository.Create() error = %v", err)
	}

	notifier := notify.NewService(db.NewNotificationRepository(database), sse.NewHub())
	handler := NewTeamHandler(
		db.NewTeamRepository(database),
		db.NewMemberRepository(database),
		db.NewUserRepository(database),
		mailer,
		notifier,
	)

	return handler, &teamSeed{creator: creator, team: team, leader: leader}
}
