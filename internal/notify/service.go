package notify

import (
	"fmt"
	"log/slog"

	"hackdash/internal/db"
	"hackdash/internal/models"
	"hackdash/internal/sse"
)

// Service records notifications and pushes them to connected recipients.
// The stored row is the unit of success; the live push is best effort and a
// disconnected recipient only misses the real-time delivery.
type Service struct {
	notifications *db.NotificationRepository
	hub           *sse.Hub
}

func NewService(notifications *db.NotificationRepository, hub *sse.Hub) *Service {
	return &Service{
		notifications: notifications,
		hub:           hub,
	}
}

// Send persists a notification row and attempts a live push. Returns true
// when the row was created, regardless of push outcome.
func (s *Service) Send(userID string, teamID *string, notifType models.NotificationType, title, message string) bool {
	notification, err := s.notifications.Create(userID, teamID, notifType, title, message)
	if err != nil {
		slog.Error("error creating notification", "error", err, "type", notifType, "user_id", userID)
		return false
	}

	if delivered := s.hub.Publish(userID, sse.NewEvent("notification", notification)); !delivered {
		slog.Info("recipient not connected for live push", "component", "notify", "user_id", userID)
	}

	return true
}

func (s *Service) TeamApproval(userID, teamID, teamName string, approved bool, rejectMessage string) bool {
	notifType := models.NotificationTeamApproved
	title := "Team Approved!"
	message := fmt.Sprintf("Your team %q has been approved for HackAttack! You can now proceed with the competition.", teamName)
	if !approved {
		notifType = models.NotificationTeamRejected
		title = "Team Registration Rejected"
		message = fmt.Sprintf("Your team %q registration was rejected. Reason: %s", teamName, rejectMessage)
	}

	return s.Send(userID, &teamID, notifType, title, message)
}

func (s *Service) MemberApproval(userID, teamID, memberName, teamName string, approved bool) bool {
	notifType := models.NotificationMemberApproved
	title := "Team Member Approved"
	message := fmt.Sprintf("Team member %q has been approved for your team %q.", memberName, teamName)
	if !approved {
		notifType = models.NotificationMemberRejected
		title = "Team Member Rejected"
		message = fmt.Sprintf("Team member %q was rejected for your team %q.", memberName, teamName)
	}

	return s.Send(userID, &teamID, notifType, title, message)
}

func (s *Service) SubmissionStatus(userID, teamID, teamName string, valid bool) bool {
	notifType := models.NotificationSubmissionApproved
	title := "Submission Approved!"
	message := fmt.Sprintf("Your team %q submission has been approved! Great work!", teamName)
	if !valid {
		notifType = models.NotificationSubmissionRejected
		title = "Submission Rejected"
		message = fmt.Sprintf("Your team %q submission was rejected. Please check the requirements and resubmit.", teamName)
	}

	return s.Send(userID, &teamID, notifType, title, message)
}

func (s *Service) WorkshopApproval(userID, participantName, workshopTrack string, approved bool, rejectMessage string) bool {
	notifType := models.NotificationWorkshopApproved
	title := "Workshop Registration Approved"
	message := fmt.Sprintf("%s, your registration for the %s workshop has been approved.", participantName, workshopTrack)
	if !approved {
		notifType = models.NotificationWorkshopRejected
		title = "Workshop Registration Rejected"
		message = fmt.Sprintf("%s, your registration for the %s workshop was rejected. Reason: %s", participantName, workshopTrack, rejectMessage)
	}

	return s.Send(userID, nil, notifType, title, message)
}
