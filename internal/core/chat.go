package core

import (
	"context"
	"slices"

	"neonpm/pkg/domain"
)

// AddChatMessage appends to the legacy broadcast log. It is separate from
// conversation logs and produces no notification.
func (s *Service) AddChatMessage(ctx context.Context, in domain.ChatMessageInput) (domain.ChatMessage, Result, error) {
	in = s.withSender(ctx, in.WithDefaults())
	var created domain.ChatMessage
	res, err := s.run(ctx, "add_chat_message", "", func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.AppendChatMessage(chatMessage(in))
		return err
	})
	return created, res, err
}

// CreateConversation opens a conversation with the de-duplicated non-empty
// emails and makes it active.
func (s *Service) CreateConversation(ctx context.Context, emails []string, name string) (domain.Conversation, Result, error) {
	var created domain.Conversation
	res, err := s.run(ctx, "create_conversation", "", func(tx Transaction) error {
		var err error
		created, err = tx.CreateConversation(domain.Conversation{
			Name:              name,
			ParticipantEmails: domain.DedupeStrings(emails),
			Messages:          []domain.ChatMessage{},
		})
		return err
	})
	return created, res, err
}

// SetActiveConversation stores the pointer without checking it.
func (s *Service) SetActiveConversation(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "set_active_conversation", id, func(tx Transaction) error {
		tx.SetActiveConversation(id)
		return nil
	})
}

// AddParticipantToConversation appends email. Empty or present emails are a no-op.
func (s *Service) AddParticipantToConversation(ctx context.Context, id, email string) (domain.Conversation, Result, error) {
	var conv domain.Conversation
	res, err := s.run(ctx, "add_conversation_member", id, func(tx Transaction) error {
		current, ok := tx.Snapshot().FindConversation(id)
		if !ok {
			return &domain.NotFoundError{Entity: domain.EntityConversation, ID: id}
		}
		if email == "" || slices.Contains(current.ParticipantEmails, email) {
			conv = current
			return nil
		}
		var err error
		conv, err = tx.UpdateConversation(id, []string{"participantEmails"}, func(c *domain.Conversation) error {
			c.ParticipantEmails = append(c.ParticipantEmails, email)
			return nil
		})
		return err
	})
	return conv, res, err
}

// RemoveParticipantFromConversation drops email from the participants.
func (s *Service) RemoveParticipantFromConversation(ctx context.Context, id, email string) (domain.Conversation, Result, error) {
	var conv domain.Conversation
	res, err := s.run(ctx, "remove_conversation_member", id, func(tx Transaction) error {
		var err error
		conv, err = tx.UpdateConversation(id, []string{"participantEmails"}, func(c *domain.Conversation) error {
			c.ParticipantEmails = slices.DeleteFunc(c.ParticipantEmails, func(p string) bool { return p == email })
			return nil
		})
		return err
	})
	return conv, res, err
}

// AddConversationMessage appends a message to one conversation.
func (s *Service) AddConversationMessage(ctx context.Context, id string, in domain.ChatMessageInput) (domain.ChatMessage, Result, error) {
	in = s.withSender(ctx, in.WithDefaults())
	var created domain.ChatMessage
	res, err := s.run(ctx, "add_conversation_message", id, func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.AppendConversationMessage(id, chatMessage(in))
		return err
	})
	return created, res, err
}

// DeleteConversation removes a conversation and clears the active pointer
// when it named it.
func (s *Service) DeleteConversation(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_conversation", id, func(tx Transaction) error {
		return tx.DeleteConversation(id)
	})
}

func (s *Service) withSender(ctx context.Context, in domain.ChatMessageInput) domain.ChatMessageInput {
	if in.Sender == "" {
		in.Sender = orDefault(s.actor(ctx).Name, AnonymousSender)
	}
	return in
}

func chatMessage(in domain.ChatMessageInput) domain.ChatMessage {
	return domain.ChatMessage{
		Text:     in.Text,
		Sender:   in.Sender,
		Type:     in.Type,
		FileURL:  in.FileURL,
		FileName: in.FileName,
	}
}
