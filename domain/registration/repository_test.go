package registration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/models"
	"github.com/akeren/college-forms/internal/storage"
	"github.com/akeren/college-forms/internal/storage/storagetest"
	apperrors "github.com/akeren/college-forms/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func student(name, email string) *models.Student {
	return ToStudentModel(&RegistrationRequest{Name: name, Email: email, Phone: "555-0100", Course: "Physics"})
}

func TestRegisterStudent_InsertsRow(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)

	s := student("Ada", "ada@example.com")
	require.NoError(t, repo.RegisterStudent(context.Background(), s))
	assert.NotZero(t, s.ID)

	db, err := store.Conn(context.Background())
	require.NoError(t, err)

	var got models.Student
	require.NoError(t, db.First(&got, s.ID).Error)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "Physics", got.Course)
}

func TestRegisterStudent_DuplicateWritesNothing(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.RegisterStudent(ctx, student("Ada", "ada@example.com")))

	err := repo.RegisterStudent(ctx, student("Someone Else", "ADA@example.com  "))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	assert.Equal(t, int64(1), storagetest.CountRows(t, store, &models.Student{}, ""))
}

func TestRegisterStudent_LeadingSpaceIsADifferentEmail(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.RegisterStudent(ctx, student("Ada", "u1@x.com")))
	require.NoError(t, repo.RegisterStudent(ctx, student("Ada", " u1@x.com")))

	assert.Equal(t, int64(2), storagetest.CountRows(t, store, &models.Student{}, ""))
}

func TestRegisterStudent_RaceLostAtInsertMapsToAlreadyRegistered(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)

	db, err := store.Conn(context.Background())
	require.NoError(t, err)

	// Simulate a concurrent registration committing between lookup and insert.
	var injected atomic.Bool
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if tx.Statement.Table != "students" || !injected.CompareAndSwap(false, true) {
			return
		}
		_, execErr := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO students (name, email, email_key, phone, course, created_at) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)",
			"Racer", "ada@example.com", "ada@example.com", "", "")
		require.NoError(t, execErr)
	}))

	err = repo.RegisterStudent(context.Background(), student("Ada", "ada@example.com"))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.True(t, injected.Load())
}

func TestRegisterStudent_ConcurrentSameEmailWritesOneRow(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)

	const workers = 8
	var (
		wg         sync.WaitGroup
		registered atomic.Int32
		duplicates atomic.Int32
		failures   atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := repo.RegisterStudent(context.Background(), student("Ada", "ada@example.com")); {
			case err == nil:
				registered.Add(1)
			case err == ErrAlreadyRegistered:
				duplicates.Add(1)
			default:
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), registered.Load())
	assert.Equal(t, int32(workers-1), duplicates.Load())
	assert.Zero(t, failures.Load())
	assert.Equal(t, int64(1), storagetest.CountRows(t, store, &models.Student{}, "email_key = ?", "ada@example.com"))
}

func TestRegisterStudent_LookupFailure(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)

	db, err := store.Conn(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.Student{}))

	err = repo.RegisterStudent(context.Background(), student("Ada", "ada@example.com"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
	assert.Equal(t, MsgLookupFailed, apperrors.GetHumanReadableMessage(err))
}

func TestRegisterStudent_InsertFailure(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)

	db, err := store.Conn(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TRIGGER reject_students BEFORE INSERT ON students
		BEGIN SELECT RAISE(ABORT, 'inserts disabled'); END`).Error)

	err = repo.RegisterStudent(context.Background(), student("Ada", "ada@example.com"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
	assert.Equal(t, MsgInsertFailed, apperrors.GetHumanReadableMessage(err))
	assert.Equal(t, int64(0), storagetest.CountRows(t, store, &models.Student{}, ""))
}

func TestRegisterStudent_StoreNotConnected(t *testing.T) {
	repo := NewRegistrationRepository(storage.New(log.NewDiscardLogger()))

	err := repo.RegisterStudent(context.Background(), student("Ada", "ada@example.com"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeStorageUnavailable, apperrors.GetErrorType(err))
	assert.Equal(t, MsgLookupFailed, apperrors.GetHumanReadableMessage(err))
	assert.True(t, storage.IsNotConnected(err))
}

func TestRegisterStudent_StoreClosed(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	repo := NewRegistrationRepository(store)
	require.NoError(t, store.Close())

	err := repo.RegisterStudent(context.Background(), student("Ada", "ada@example.com"))
	assert.True(t, storage.IsNotConnected(err))
}
