package services_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/backend/internal/cache"
	"taskdeck/backend/internal/models"
	"taskdeck/backend/internal/services"
)

func newCachedService(t *testing.T) (*services.CachedTaskService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisCache := cache.NewRedisCache(&cache.CacheConfig{Addr: mr.Addr()})
	t.Cleanup(func() { redisCache.Close() })

	return services.NewCachedTaskService(services.NewTaskService(), redisCache), mr
}

func TestCachedListPopulatesAndInvalidates(t *testing.T) {
	db := newTestDB(t)
	service, mr := newCachedService(t)
	owner := uuid.Must(uuid.NewV4())

	created, err := service.Create(db, models.Task{
		OwnerID:     owner,
		Title:       "T1",
		Description: "D1",
	})
	require.NoError(t, err)

	tasks, err := service.ListByOwner(db, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	key := "user_tasks:" + owner.String()
	assert.True(t, mr.Exists(key), "list should be cached after a read")

	// A write drops the cached list.
	newTitle := "T1 renamed"
	_, err = service.Update(db, owner, created.ID, services.TaskUpdate{Title: &newTitle})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key), "update should invalidate the cached list")

	tasks, err = service.ListByOwner(db, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1 renamed", tasks[0].Title)
}

func TestCachedDeleteInvalidates(t *testing.T) {
	db := newTestDB(t)
	service, mr := newCachedService(t)
	owner := uuid.Must(uuid.NewV4())

	created, err := service.Create(db, models.Task{
		OwnerID:     owner,
		Title:       "T1",
		Description: "D1",
	})
	require.NoError(t, err)

	_, err = service.ListByOwner(db, owner)
	require.NoError(t, err)

	require.NoError(t, service.Delete(db, owner, created.ID))
	assert.False(t, mr.Exists("user_tasks:"+owner.String()))

	tasks, err := service.ListByOwner(db, owner)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCachedServiceDegradesWhenRedisIsDown(t *testing.T) {
	db := newTestDB(t)
	service, mr := newCachedService(t)
	owner := uuid.Must(uuid.NewV4())

	_, err := service.Create(db, models.Task{
		OwnerID:     owner,
		Title:       "T1",
		Description: "D1",
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	mr.Close()

	tasks, err := service.ListByOwner(db, owner)
	require.NoError(t, err, "store must answer when the cache is unavailable")
	assert.Len(t, tasks, 1)
}

func TestCachedServiceWithNilCache(t *testing.T) {
	db := newTestDB(t)
	service := services.NewCachedTaskService(services.NewTaskService(), nil)
	owner := uuid.Must(uuid.NewV4())

	created, err := service.Create(db, models.Task{
		OwnerID:     owner,
		Title:       "T1",
		Description: "D1",
	})
	require.NoError(t, err)

	tasks, err := service.ListByOwner(db, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}
