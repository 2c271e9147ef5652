package services

import (
	"errors"
	"fmt"

	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"github.com/taskhive/project-management-api/internal/utils"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService reads and updates a user's own inbox. Rows are created
// elsewhere, inside the transactions of the mutations that cause them.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List lists a page of the user's notifications, newest first.
func (s *NotificationService) List(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	return s.notificationRepo.ListByRecipient(userID, params)
}

// UnreadCount counts the user's unread notifications.
func (s *NotificationService) UnreadCount(userID uint64) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead marks one of the user's notifications as read. Another user's
// notification is indistinguishable from a missing one.
func (s *NotificationService) MarkRead(userID, id uint64) error {
	if err := s.notificationRepo.MarkRead(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(userID uint64) error {
	return s.notificationRepo.MarkAllRead(userID)
}
