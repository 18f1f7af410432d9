package registration

import (
	"context"
	"errors"

	"github.com/akeren/college-forms/internal/log"
	apperrors "github.com/akeren/college-forms/pkg/errors"
)

type RegistrationService interface {
	SubmitRegistration(ctx context.Context, req *RegistrationRequest) (Outcome, error)
}

type registrationService struct {
	logger     *log.Logger
	repository RegistrationRepository
}

func NewRegistrationService(logger *log.Logger, repository RegistrationRepository) RegistrationService {
	return &registrationService{logger: logger, repository: repository}
}

// SubmitRegistration writes at most one row, and only when no registration
// with the same email identity exists. Store failures are returned as
// storage AppErrors carrying the message to show the user.
func (s *registrationService) SubmitRegistration(ctx context.Context, req *RegistrationRequest) (Outcome, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("SubmitRegistration received nil request")
		return "", apperrors.NewInvalidRequestError(MsgInvalidBody, nil)
	}

	student := ToStudentModel(req)

	err := s.repository.RegisterStudent(ctx, student)
	switch {
	case err == nil:
		logger.Info("Student registered", "student_id", student.ID)
		return OutcomeRegistered, nil

	case errors.Is(err, ErrAlreadyRegistered):
		logger.Info("Registration skipped: email already registered")
		return OutcomeAlreadyRegistered, nil

	case apperrors.IsStorageError(err):
		logger.Error("Registration failed", "error", err)
		return "", err

	default:
		logger.Error("Registration failed", "error", err)
		return "", apperrors.NewDatabaseError(MsgInsertFailed, err)
	}
}
