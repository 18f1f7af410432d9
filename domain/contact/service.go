package contact

import (
	"context"

	"github.com/akeren/college-forms/internal/log"
	apperrors "github.com/akeren/college-forms/pkg/errors"
)

type ContactService interface {
	SubmitContact(ctx context.Context, req *ContactRequest) error
}

type contactService struct {
	logger     *log.Logger
	repository ContactRepository
}

func NewContactService(logger *log.Logger, repository ContactRepository) ContactService {
	return &contactService{logger: logger, repository: repository}
}

// SubmitContact stores the message as given. Messages are never deduplicated.
func (s *contactService) SubmitContact(ctx context.Context, req *ContactRequest) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("SubmitContact received nil request")
		return apperrors.NewInvalidRequestError(MsgInvalidBody, nil)
	}

	message := ToContactMessageModel(req)
	if err := s.repository.CreateMessage(ctx, message); err != nil {
		logger.Error("Failed to record contact message", "error", err)
		if apperrors.IsStorageError(err) {
			return apperrors.WithMessage(err, MsgSubmitFailed)
		}
		return apperrors.NewDatabaseError(MsgSubmitFailed, err)
	}

	logger.Info("Contact message recorded", "message_id", message.ID)
	return nil
}
