// Package comments implements the command processor behind the chat hub:
// it validates a submission, persists it, and returns the canonical stored
// comment. The hub never broadcasts anything this package has not
// durably committed.
package comments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/beixa/Reactivities/internal/core"
	"github.com/beixa/Reactivities/internal/store"
)

// Service validates and persists comments.
type Service struct {
	store    store.Store
	validate *validator.Validate
	log      *zerolog.Logger
}

// NewService creates a comment service over the given store.
func NewService(st store.Store, logger *zerolog.Logger) *Service {
	return &Service{
		store:    st,
		validate: validator.New(),
		log:      logger,
	}
}

// submission carries the validation rules for an inbound comment.
type submission struct {
	ActivityID string `validate:"required"`
	Body       string `validate:"required,max=2000"`
	Author     string `validate:"required"`
}

// CreateComment validates the request, checks the target activity exists,
// and persists the comment with a server-assigned id and timestamp.
// Returns *core.ValidationError for malformed input or an unknown
// activity; any other failure means storage is unavailable.
func (s *Service) CreateComment(ctx context.Context, req core.CommentRequest) (core.Comment, error) {
	sub := submission{
		ActivityID: req.ActivityID,
		Body:       req.Body,
		Author:     req.Author,
	}
	if err := s.validate.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return core.Comment{}, &core.ValidationError{Fields: fieldMessages(verrs)}
		}
		return core.Comment{}, fmt.Errorf("validate submission: %w", err)
	}

	if _, err := s.store.GetActivityByID(ctx, req.ActivityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.Comment{}, &core.ValidationError{
				Fields: map[string]string{"activity_id": "activity not found"},
			}
		}
		return core.Comment{}, fmt.Errorf("lookup activity: %w", err)
	}

	record := &store.Comment{
		ID:         uuid.NewString(),
		ActivityID: req.ActivityID,
		Author:     req.Author,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateComment(ctx, record); err != nil {
		return core.Comment{}, fmt.Errorf("persist comment: %w", err)
	}

	s.log.Debug().Str("comment_id", record.ID).Str("activity_id", record.ActivityID).Str("author", record.Author).Msg("comment persisted")

	return core.Comment{
		ID:         record.ID,
		ActivityID: record.ActivityID,
		Author:     record.Author,
		Body:       record.Body,
		CreatedAt:  record.CreatedAt,
	}, nil
}

func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "max":
			msg = fmt.Sprintf("must be at most %s characters", fe.Param())
		default:
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
		}
		switch fe.Field() {
		case "ActivityID":
			fields["activity_id"] = msg
		case "Body":
			fields["body"] = msg
		case "Author":
			fields["author"] = msg
		default:
			fields[fe.Field()] = msg
		}
	}
	return fields
}
