package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db}
}

func (r *MessageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// Received lists a profile's inbox, unread first, then oldest first.
func (r *MessageRepo) Received(ctx context.Context, recipientID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("is_read").Order("created_at").
		Find(&messages).Error
	return messages, err
}

// Sent lists messages a profile sent, newest first.
func (r *MessageRepo) Sent(ctx context.Context, senderID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepo) Add(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

func (r *MessageRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("is_read", true).Error
}

// ClearSides writes the sender and recipient references as given.
func (r *MessageRepo) ClearSides(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Model(message).
		Select("sender_id", "recipient_id").
		Updates(map[string]any{"sender_id": message.SenderID, "recipient_id": message.RecipientID}).Error
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", id).Error
}

// DeleteOrphans removes messages that no profile references anymore.
func (r *MessageRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("sender_id IS NULL AND recipient_id IS NULL").
		Delete(&models.Message{})
	return res.RowsAffected, res.Error
}
