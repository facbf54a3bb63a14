package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// CommentService appends and lists ticket comments.
type CommentService struct {
	tickets  repository.TicketRepository
	comments repository.TicketCommentRepository
	now      Clock
	audit    auditTrail
}

// CommentDependencies bundles collaborators.
type CommentDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.TicketCommentRepository
	Dispatcher  events.Dispatcher
	Clock       Clock
	Logger      *zap.Logger
}

// NewCommentService builds the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		tickets:  deps.TicketRepo,
		comments: deps.CommentRepo,
		now:      clockOrDefault(deps.Clock),
		audit: auditTrail{
			dispatcher: deps.Dispatcher,
			logger:     loggerOrNop(deps.Logger),
		},
	}
}

// AddComment appends a comment to a ticket the actor can read.
func (s *CommentService) AddComment(ctx context.Context, actor *domain.User, ticketID int64, content string) (*domain.TicketComment, error) {
	ticket, err := readableTicket(ctx, s.tickets, actor, ticketID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("invalid comment", map[string]any{"content": "must not be blank"})
	}

	comment := &domain.TicketComment{
		TicketID:     ticket.ID,
		AuthorUserID: actorID(actor),
		Content:      content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, ticketError(err, ticketID)
	}
	s.audit.publish(ctx, events.NewTicketEvent(events.EventTicketCommentAdded, ticket, events.UserActor(actor), s.now(), events.TicketCommentAddedPayload{
		CommentID:    comment.ID,
		AuthorUserID: comment.AuthorUserID,
		BodyPreview:  stringPreview(comment.Content, 120),
	}))
	return comment, nil
}

// ListComments returns a ticket's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.TicketComment, error) {
	ticket, err := readableTicket(ctx, s.tickets, actor, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}
