package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskdeck/backend/internal/models"
)

// TaskUpdate carries the client-mutable fields of a task. Nil means
// "leave unchanged". Id and owner are deliberately absent: client
// attempts to overwrite them are ignored, not rejected.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Category    *string
}

// TaskService is the store access layer for tasks. Every read and
// write takes the owner id and filters on the (id, owner_id) pair, so
// one user's tasks are invisible to every other user.
type TaskService interface {
	ListByOwner(db *gorm.DB, owner uuid.UUID) ([]models.Task, error)
	Create(db *gorm.DB, task models.Task) (models.Task, error)
	Update(db *gorm.DB, owner, id uuid.UUID, changes TaskUpdate) (models.Task, error)
	Delete(db *gorm.DB, owner, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) ListByOwner(db *gorm.DB, owner uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Where("owner_id = ?", owner).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskServiceImpl) Create(db *gorm.DB, task models.Task) (models.Task, error) {
	if task.Title == "" || task.Description == "" {
		return models.Task{}, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.Must(uuid.NewV4())
	}
	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update loads by (id, owner) and applies only the allow-listed
// fields. A missing row and a row owned by someone else are the same
// ErrTaskNotFound; callers cannot tell them apart.
func (s *TaskServiceImpl) Update(db *gorm.DB, owner, id uuid.UUID, changes TaskUpdate) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND owner_id = ?", id, owner).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	if changes.Title != nil {
		if *changes.Title == "" {
			return models.Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		task.Title = *changes.Title
	}
	if changes.Description != nil {
		if *changes.Description == "" {
			return models.Task{}, fmt.Errorf("%w: description must not be empty", ErrValidation)
		}
		task.Description = *changes.Description
	}
	if changes.DueDate != nil {
		task.DueDate = *changes.DueDate
	}
	if changes.Category != nil {
		task.Category = *changes.Category
	}

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) Delete(db *gorm.DB, owner, id uuid.UUID) error {
	result := db.Where("id = ? AND owner_id = ?", id, owner).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
