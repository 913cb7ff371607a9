package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/validation"
)

type MessageService struct {
	db database.Database
}

func NewMessageService(db database.Database) *MessageService {
	return &MessageService{db: db}
}

// Open returns a message the actor sent or received, marking it read for the recipient.
// Messages belonging to others are reported as missing.
func (s *MessageService) Open(ctx context.Context, actor, id uuid.UUID) (*models.Message, error) {
	message, err := s.db.MessageRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "message", err)
	}
	if !message.IsSender(actor) && !message.IsRecipient(actor) {
		return nil, errs.NewNotFoundError("Could not find the message!")
	}
	if message.IsRecipient(actor) && !message.IsRead {
		if err := s.db.MessageRepo().MarkRead(ctx, id); err != nil {
			return nil, errs.NewDatabaseError("update", "message", err)
		}
		message.IsRead = true
	}
	return message, nil
}

// Received lists the actor's inbox, unread first, with the unread count.
func (s *MessageService) Received(ctx context.Context, actor uuid.UUID) ([]models.Message, int, error) {
	messages, err := s.db.MessageRepo().Received(ctx, actor)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("list", "messages", err)
	}
	return messages, models.UnreadCount(messages), nil
}

func (s *MessageService) Sent(ctx context.Context, actor uuid.UUID) ([]models.Message, error) {
	messages, err := s.db.MessageRepo().Sent(ctx, actor)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "messages", err)
	}
	return messages, nil
}

// Send delivers a message from a signed-in profile. Name and email come from the sender's profile.
func (s *MessageService) Send(ctx context.Context, actor, recipientID uuid.UUID, in validation.MessageInput) (*models.Message, error) {
	if err := in.Validate(false).Err(); err != nil {
		return nil, err
	}
	sender, err := s.db.ProfileRepo().FindByID(ctx, actor, false)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "sender", err)
	}
	return s.deliver(ctx, &models.Message{
		Name:     sender.Username,
		Email:    sender.Email,
		Subject:  strings.TrimSpace(in.Subject),
		Body:     in.Body,
		SenderID: &sender.ID,
	}, recipientID)
}

// SendAnonymous delivers a message from someone without an account.
func (s *MessageService) SendAnonymous(ctx context.Context, recipientID uuid.UUID, in validation.MessageInput) (*models.Message, error) {
	if err := in.Validate(true).Err(); err != nil {
		return nil, err
	}
	return s.deliver(ctx, &models.Message{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Body:    in.Body,
	}, recipientID)
}

func (s *MessageService) deliver(ctx context.Context, message *models.Message, recipientID uuid.UUID) (*models.Message, error) {
	recipient, err := s.db.ProfileRepo().FindByID(ctx, recipientID, false)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipient", err)
	}
	message.RecipientID = &recipient.ID
	if err := s.db.MessageRepo().Add(ctx, message); err != nil {
		return nil, errs.NewDatabaseError("create", "message", err)
	}
	return message, nil
}

// Delete removes the actor's side of a message. The row goes once neither side references it.
func (s *MessageService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		message, err := tx.MessageRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !message.IsSender(actor) && !message.IsRecipient(actor) {
			return errs.NewNotFoundError("Could not find the message!")
		}
		if message.IsSender(actor) {
			message.SenderID = nil
		}
		if message.IsRecipient(actor) {
			message.RecipientID = nil
		}
		if message.SenderID == nil && message.RecipientID == nil {
			return tx.MessageRepo().Delete(ctx, id)
		}
		return tx.MessageRepo().ClearSides(ctx, message)
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "message", err)
	}
	return nil
}
