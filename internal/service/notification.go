package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"rideshare/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideRequested NotificationType = "RIDE_REQUESTED"
	NotificationRideClaimed   NotificationType = "RIDE_CLAIMED"
	NotificationRideStarted   NotificationType = "RIDE_STARTED"
	NotificationRideCompleted NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled NotificationType = "RIDE_CANCELLED"
	NotificationPromoApplied  NotificationType = "PROMO_APPLIED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - WebSocket connections for real-time delivery
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyRideRequested logs that a new ride is visible to drivers.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideRequested,
		RecipientID: ride.RiderID,
		Title:       "Ride Requested",
		Message:     fmt.Sprintf("Ride requested from %s, fare %.2f", ride.Pickup.Address, ride.Fare),
		Data: map[string]interface{}{
			"ride_id": ride.ID,
			"fare":    ride.Fare,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideClaimed notifies the rider that a driver has claimed the ride.
func (s *NotificationService) NotifyRideClaimed(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideClaimed,
		RecipientID: ride.RiderID,
		Title:       "Driver Found",
		Message:     "A driver has accepted your ride",
		Data: map[string]interface{}{
			"ride_id":   ride.ID,
			"driver_id": ride.DriverID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideTransition notifies the rider about a status change.
func (s *NotificationService) NotifyRideTransition(ctx context.Context, ride *domain.Ride) error {
	var notifType NotificationType
	var title, message string

	switch ride.Status {
	case domain.RideStatusOngoing:
		notifType = NotificationRideStarted
		title = "Ride Started"
		message = "Your ride has started. Enjoy the trip!"
	case domain.RideStatusCompleted:
		notifType = NotificationRideCompleted
		title = "Ride Completed"
		message = fmt.Sprintf("Your ride has ended. Total fare: %.2f", ride.Fare)
	case domain.RideStatusCancelled:
		notifType = NotificationRideCancelled
		title = "Ride Cancelled"
		message = "The ride has been cancelled"
	default:
		return nil
	}

	return s.send(ctx, Notification{
		Type:        notifType,
		RecipientID: ride.RiderID,
		Title:       title,
		Message:     message,
		Data: map[string]interface{}{
			"ride_id": ride.ID,
			"status":  string(ride.Status),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPromoApplied notifies the rider that a promo discounted the fare.
func (s *NotificationService) NotifyPromoApplied(ctx context.Context, ride *domain.Ride, code string) error {
	return s.send(ctx, Notification{
		Type:        NotificationPromoApplied,
		RecipientID: ride.RiderID,
		Title:       "Promo Applied",
		Message:     fmt.Sprintf("Promo %s applied. New fare: %.2f", code, ride.Fare),
		Data: map[string]interface{}{
			"ride_id": ride.ID,
			"code":    code,
			"fare":    ride.Fare,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification. Currently logs; a real implementation would
// fan out to push/WebSocket channels.
func (s *NotificationService) send(ctx context.Context, n Notification) error {
	log.Printf("[NOTIFICATION] type=%s recipient=%s title=%q message=%q", n.Type, n.RecipientID, n.Title, n.Message)
	return nil
}
