package notification

import (
	"context"
	"errors"
	"fmt"

	"sailsmart/models"
	"sailsmart/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService delivers push notifications to users.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	NotifyDecision(ctx context.Context, n models.DecisionNotification) error
}

// Sender delivers one FCM message. *messaging.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// UserLookup resolves the push token of a user.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ErrNoPushTarget means the user cannot receive pushes; retrying will not help.
var ErrNoPushTarget = errors.New("user has no FCM token")

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	users  UserLookup
	sender Sender
}

func NewDefaultNotificationService(users UserLookup, sender Sender) (*DefaultNotificationService, error) {
	if users == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: user lookup or sender is nil")
	}
	return &DefaultNotificationService{users: users, sender: sender}, nil
}

// SendUserPushNotification looks up a user's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not load user %s: %w", userID, err)
	}
	if u == nil || u.FCMToken == "" {
		return fmt.Errorf("SendUserPushNotification: user %s: %w", userID, ErrNoPushTarget)
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	response, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("Push sent", zap.String("userId", userID), zap.String("messageId", response))
	return nil
}

// NotifyDecision tells the crew member how their registration was decided.
func (s *DefaultNotificationService) NotifyDecision(ctx context.Context, n models.DecisionNotification) error {
	title, body := decisionText(n)
	return s.SendUserPushNotification(ctx, n.CrewUserID, title, body, map[string]string{
		"type":           "registration_decision",
		"registrationId": n.RegistrationID,
		"journeyId":      n.JourneyID,
		"status":         string(n.Status),
	})
}

func decisionText(n models.DecisionNotification) (string, string) {
	journey := n.JourneyName
	if journey == "" {
		journey = "the journey"
	}
	owner := n.OwnerName
	if owner == "" {
		owner = "The skipper"
	}

	switch n.Status {
	case models.StatusApproved:
		return "You're on the crew!", fmt.Sprintf("%s approved your registration for %s.", owner, journey)
	case models.StatusNotApproved:
		return "Registration update", fmt.Sprintf("%s did not approve your registration for %s this time.", owner, journey)
	}
	return "Registration update", fmt.Sprintf("Your registration for %s is now %s.", journey, n.Status)
}
