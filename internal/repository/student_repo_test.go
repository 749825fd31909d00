package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andikahilman/studentbook/internal/models"
)

func TestStudentRepositoryCreateAndGet(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	image := "1700000000000-1-ada.png"
	student := models.Student{
		// Client-supplied ids are ignored; the store assigns its own.
		ID:          999,
		Name:        "Ada Lovelace",
		DateOfBirth: "1990-01-01",
		Contact:     "555-0100",
		Image:       &image,
	}
	require.NoError(t, repo.Create(context.Background(), &student))
	require.NotZero(t, student.ID)
	require.NotEqual(t, uint(999), student.ID)

	got, err := repo.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", got.Name)
	require.Equal(t, "1990-01-01", got.DateOfBirth)
	require.Equal(t, "555-0100", got.Contact)
	require.NotNil(t, got.Image)
	require.Equal(t, image, *got.Image)
}

func TestStudentRepositoryGetByIDMissing(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentRepositoryUpdate(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	student := models.Student{Name: "Grace", DateOfBirth: "1985-12-09", Contact: "555-0101"}
	require.NoError(t, repo.Create(context.Background(), &student))

	image := "1700000000000-2-grace.png"
	affected, err := repo.Update(context.Background(), student.ID, models.Student{
		Name:        "Grace Hopper",
		DateOfBirth: "1985-12-10",
		Contact:     "555-0102",
		Image:       &image,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	got, err := repo.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, "Grace Hopper", got.Name)
	require.Equal(t, "1985-12-10", got.DateOfBirth)
	require.Equal(t, "555-0102", got.Contact)
	require.NotNil(t, got.Image)
	require.Equal(t, image, *got.Image)
}

func TestStudentRepositoryUpdateClearsImage(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	image := "1700000000000-3-old.png"
	student := models.Student{Name: "Joan", Image: &image}
	require.NoError(t, repo.Create(context.Background(), &student))

	affected, err := repo.Update(context.Background(), student.ID, models.Student{Name: "Joan"})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	got, err := repo.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	require.Nil(t, got.Image)
}

func TestStudentRepositoryUpdateMissingAffectsZero(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	affected, err := repo.Update(context.Background(), 999, models.Student{Name: "Nobody"})
	require.NoError(t, err, "zero matched rows is a result, not a fault")
	require.Zero(t, affected)
}

func TestStudentRepositoryDelete(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	student := models.Student{Name: "Alan"}
	require.NoError(t, repo.Create(context.Background(), &student))

	affected, err := repo.Delete(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	affected, err = repo.Delete(context.Background(), student.ID)
	require.NoError(t, err)
	require.Zero(t, affected)

	_, err = repo.GetByID(context.Background(), student.ID)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentRepositoryListInsertionOrder(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, students)

	for _, name := range []string{"First", "Second", "Third"} {
		s := models.Student{Name: name}
		require.NoError(t, repo.Create(context.Background(), &s))
	}

	students, err = repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 3)
	require.Equal(t, "First", students[0].Name)
	require.Equal(t, "Second", students[1].Name)
	require.Equal(t, "Third", students[2].Name)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}))
	return db
}
