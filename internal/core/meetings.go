package core

import (
	"context"
	"slices"
	"strings"

	"neonpm/pkg/domain"
)

// AddMeeting validates in and appends a new meeting.
func (s *Service) AddMeeting(ctx context.Context, in domain.MeetingInput) (domain.Meeting, Result, error) {
	in = in.WithDefaults()
	if in.CreatedBy == "" {
		in.CreatedBy = s.actor(ctx).Email
	}
	var created domain.Meeting
	res, err := s.run(ctx, "add_meeting", "", func(tx Transaction) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateMeeting(domain.Meeting{
			Title:             in.Title,
			Description:       in.Description,
			Date:              in.Date,
			StartTime:         in.StartTime,
			EndTime:           in.EndTime,
			Attendees:         strs(in.Attendees),
			Location:          in.Location,
			Type:              in.Type,
			Agenda:            strs(in.Agenda),
			MeetingLink:       in.MeetingLink,
			IsRecurring:       in.IsRecurring,
			RecurrencePattern: in.RecurrencePattern,
			CreatedBy:         in.CreatedBy,
			AllDay:            in.AllDay,
		})
		return err
	})
	return created, res, err
}

// UpdateMeeting merges the present patch fields into a meeting.
func (s *Service) UpdateMeeting(ctx context.Context, id string, patch domain.MeetingPatch) (domain.Meeting, Result, error) {
	var updated domain.Meeting
	res, err := s.run(ctx, "update_meeting", id, func(tx Transaction) error {
		if err := patch.Validate(); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateMeeting(id, patch.Fields(), func(m *domain.Meeting) error {
			patch.Apply(m)
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteMeeting removes a meeting.
func (s *Service) DeleteMeeting(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_meeting", id, func(tx Transaction) error {
		return tx.DeleteMeeting(id)
	})
}

// StartMeeting returns the meeting with a usable link, generating
// <link base>/<id> the first time. An existing link is kept.
func (s *Service) StartMeeting(ctx context.Context, id string) (domain.Meeting, Result, error) {
	var meeting domain.Meeting
	res, err := s.run(ctx, "start_meeting", id, func(tx Transaction) error {
		current, ok := tx.Snapshot().FindMeeting(id)
		if !ok {
			return &domain.NotFoundError{Entity: domain.EntityMeeting, ID: id}
		}
		if strings.TrimSpace(current.MeetingLink) != "" {
			meeting = current
			return nil
		}
		var err error
		meeting, err = tx.UpdateMeeting(id, []string{"meetingLink"}, func(m *domain.Meeting) error {
			m.MeetingLink = s.linkBase + "/" + id
			return nil
		})
		return err
	})
	return meeting, res, err
}

// ToggleMeetingAttendee adds email to the attendees, or removes it when present.
func (s *Service) ToggleMeetingAttendee(ctx context.Context, id, email string) (domain.Meeting, Result, error) {
	var meeting domain.Meeting
	res, err := s.run(ctx, "toggle_meeting_attendee", id, func(tx Transaction) error {
		if email == "" {
			return &domain.ValidationError{Entity: domain.EntityMeeting, Field: "attendees", Reason: "email required"}
		}
		var err error
		meeting, err = tx.UpdateMeeting(id, []string{"attendees"}, func(m *domain.Meeting) error {
			if slices.Contains(m.Attendees, email) {
				m.Attendees = slices.DeleteFunc(m.Attendees, func(a string) bool { return a == email })
				return nil
			}
			m.Attendees = append(m.Attendees, email)
			return nil
		})
		return err
	})
	return meeting, res, err
}
