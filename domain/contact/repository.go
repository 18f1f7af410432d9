package contact

import (
	"context"

	"github.com/akeren/college-forms/internal/models"
	"github.com/akeren/college-forms/internal/storage"
	apperrors "github.com/akeren/college-forms/pkg/errors"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=contact

type ContactRepository interface {
	CreateMessage(ctx context.Context, message *models.ContactMessage) error
}

type contactRepository struct {
	store *storage.Store
}

func NewContactRepository(store *storage.Store) ContactRepository {
	return &contactRepository{store: store}
}

func (r *contactRepository) CreateMessage(ctx context.Context, message *models.ContactMessage) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return apperrors.NewStorageUnavailableError(MsgSubmitFailed, err)
	}

	if err := db.Create(message).Error; err != nil {
		return apperrors.NewDatabaseError(MsgSubmitFailed, err)
	}

	return nil
}
