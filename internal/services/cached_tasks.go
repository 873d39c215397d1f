package services

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskdeck/backend/internal/cache"
	"taskdeck/backend/internal/models"
)

const taskListTTL = 15 * time.Minute

// CachedTaskService decorates a TaskService with a per-user task list
// cache. The cache is best-effort: a nil cache or any cache failure
// falls through to the store, and every write invalidates the owner's
// cached list.
type CachedTaskService struct {
	inner TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(inner TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{inner: inner, cache: cacheInstance}
}

func listKey(owner uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s", owner.String())
}

func (s *CachedTaskService) ListByOwner(db *gorm.DB, owner uuid.UUID) ([]models.Task, error) {
	if s.cache != nil {
		var cached []models.Task
		if err := s.cache.Get(listKey(owner), &cached); err == nil {
			return cached, nil
		}
	}

	tasks, err := s.inner.ListByOwner(db, owner)
	if err != nil {
		return tasks, err
	}

	if s.cache != nil {
		s.cache.Set(listKey(owner), tasks, taskListTTL)
	}
	return tasks, nil
}

func (s *CachedTaskService) Create(db *gorm.DB, task models.Task) (models.Task, error) {
	created, err := s.inner.Create(db, task)
	if err != nil {
		return created, err
	}
	s.invalidate(created.OwnerID)
	return created, nil
}

func (s *CachedTaskService) Update(db *gorm.DB, owner, id uuid.UUID, changes TaskUpdate) (models.Task, error) {
	updated, err := s.inner.Update(db, owner, id, changes)
	if err != nil {
		return updated, err
	}
	s.invalidate(owner)
	return updated, nil
}

func (s *CachedTaskService) Delete(db *gorm.DB, owner, id uuid.UUID) error {
	if err := s.inner.Delete(db, owner, id); err != nil {
		return err
	}
	s.invalidate(owner)
	return nil
}

func (s *CachedTaskService) invalidate(owner uuid.UUID) {
	if s.cache != nil {
		s.cache.Delete(listKey(owner))
	}
}
