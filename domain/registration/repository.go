package registration

import (
	"context"
	"errors"

	"github.com/akeren/college-forms/internal/models"
	"github.com/akeren/college-forms/internal/storage"
	apperrors "github.com/akeren/college-forms/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=registration

type RegistrationRepository interface {
	// RegisterStudent inserts student unless its EmailKey is taken, in which
	// case it returns ErrAlreadyRegistered and writes nothing.
	RegisterStudent(ctx context.Context, student *models.Student) error
}

type registrationRepository struct {
	store *storage.Store
}

func NewRegistrationRepository(store *storage.Store) RegistrationRepository {
	return &registrationRepository{store: store}
}

func (r *registrationRepository) RegisterStudent(ctx context.Context, student *models.Student) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return apperrors.NewStorageUnavailableError(MsgLookupFailed, err)
	}

	inserting := false

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Student{}).
			Where("email_key = ?", student.EmailKey).
			Count(&existing).Error; err != nil {
			return apperrors.NewDatabaseError(MsgLookupFailed, err)
		}

		if existing > 0 {
			return ErrAlreadyRegistered
		}

		inserting = true
		if err := tx.Create(student).Error; err != nil {
			// A concurrent registration committed between our lookup and insert.
			if storage.IsDuplicateKey(err) {
				return ErrAlreadyRegistered
			}
			return apperrors.NewDatabaseError(MsgInsertFailed, err)
		}

		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrAlreadyRegistered):
		return ErrAlreadyRegistered
	case storage.IsDuplicateKey(err):
		// Some drivers only report the violation at commit.
		return ErrAlreadyRegistered
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	// Begin or commit failed outside the callback.
	if inserting {
		return apperrors.NewDatabaseError(MsgInsertFailed, err)
	}
	return apperrors.NewDatabaseError(MsgLookupFailed, err)
}
