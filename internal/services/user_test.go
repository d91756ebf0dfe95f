package services_test

import (
	"context"
	"sync"
	"testing"

	"todo-planner/internal/models"
	"todo-planner/internal/services"
	"todo-planner/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindUserByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := services.NewUserService()
	alice := testutil.CreateUser(t, db, "Alice")

	found, err := svc.FindUserByName(context.Background(), db, "Alice")
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, found.UserID)

	_, err = svc.FindUserByName(context.Background(), db, "alice")
	assert.ErrorIs(t, err, services.ErrUserNotFound, "lookup must be case-sensitive")

	_, err = svc.FindUserByName(context.Background(), db, "Nobody")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestCreateUser_ReturnsExistingOnNameConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := services.NewUserService()
	ctx := context.Background()

	first, err := svc.CreateUser(ctx, db, uuid.Must(uuid.NewV4()), "Alice")
	require.NoError(t, err)

	second, err := svc.CreateUser(ctx, db, uuid.Must(uuid.NewV4()), "Alice")
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
	assert.EqualValues(t, 1, testutil.CountRows(t, db, &models.User{}, "user_name = ?", "Alice"))
}

func TestCreateUser_ConcurrentSameName(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := services.NewUserService()

	const workers = 4
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.CreateUser(context.Background(), db, uuid.Must(uuid.NewV4()), "Racer")
			errs[i] = err
			if user != nil {
				ids[i] = user.UserID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.EqualValues(t, 1, testutil.CountRows(t, db, &models.User{}, "user_name = ?", "Racer"))
}

func TestLogin_CreatesThenReuses(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := services.NewUserService()
	ctx := context.Background()

	first, err := svc.Login(ctx, db, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.UserName)
	assert.False(t, first.UserID.IsNil())

	second, err := svc.Login(ctx, db, "  Alice  ")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)

	assert.EqualValues(t, 1, testutil.CountRows(t, db, &models.User{}, "1 = 1"))
}

func TestLogin_RejectsBlankName(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := services.NewUserService()

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.Login(context.Background(), db, name)
		assert.ErrorIs(t, err, services.ErrEmptyUserName)
	}

	assert.EqualValues(t, 0, testutil.CountRows(t, db, &models.User{}, "1 = 1"))
}
