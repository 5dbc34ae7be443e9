package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/notify"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
	"github.com/keramy/formulapmv2-sub001/internal/workflow"
	"gorm.io/gorm"
)

const resourceLabel = "tasks"

var validPriorities = []string{"low", "medium", "high", "urgent"}

func ListTasks(actor permissions.Actor, params query.Params) ([]models.Task, int64, error) {
	q, err := query.Build(permissions.ResourceTasks, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := store.List(q, &tasks, "Project", "Assignee"); err != nil {
		return nil, 0, err
	}

	total := int64(len(tasks))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.Task{})
		if err != nil {
			return nil, 0, err
		}
	}

	return tasks, total, nil
}

func GetTask(actor permissions.Actor, id uuid.UUID) (*models.Task, error) {
	q, err := query.Build(permissions.ResourceTasks, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := store.Get(q, id, &task, "Project", "Assignee"); err != nil {
		return nil, err
	}
	return &task, nil
}

// projectInScope checks that the actor can see the target project before a
// task is attached to it. Out-of-scope projects read as missing.
func projectInScope(actor permissions.Actor, projectID uuid.UUID) error {
	q, err := query.Build(permissions.ResourceProjects, actor, query.Params{})
	if err != nil {
		return err
	}
	var project models.Project
	if err := store.Get(q, projectID, &project); err != nil {
		var accErr *apperrors.AccessError
		if errors.As(err, &accErr) && accErr.Kind == apperrors.AccessNotFound {
			return apperrors.Validation("project_id", "Project does not exist")
		}
		return err
	}
	return nil
}

type TaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Priority    string
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
}

func CreateTask(actor permissions.Actor, input TaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, apperrors.Validation("title", "Title is required")
	}
	if input.ProjectID == uuid.Nil {
		return nil, apperrors.Validation("project_id", "Project is required")
	}
	if err := projectInScope(actor, input.ProjectID); err != nil {
		return nil, err
	}
	if input.Priority != "" && !validPriority(input.Priority) {
		return nil, apperrors.Validation("priority", "Priority must be one of: low, medium, high, urgent")
	}
	if input.AssignedTo != nil {
		var assignee models.UserProfile
		if err := database.DB.First(&assignee, "id = ?", *input.AssignedTo).Error; err != nil {
			return nil, apperrors.Validation("assigned_to", "Assignee does not exist")
		}
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		CreatedBy:   actor.ID,
	}

	if err := store.Create(task); err != nil {
		return nil, err
	}
	return GetTask(actor, task.ID)
}

type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
}

func UpdateTask(actor permissions.Actor, id uuid.UUID, update TaskUpdate) (*models.Task, error) {
	task, err := GetTask(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperrors.Validation("title", "Title cannot be empty")
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		if !validPriority(*update.Priority) {
			return nil, apperrors.Validation("priority", "Priority must be one of: low, medium, high, urgent")
		}
		task.Priority = *update.Priority
	}
	if update.AssignedTo != nil {
		if !permissions.CanAssignTasks(actor) {
			return nil, apperrors.Authorization("You do not have permission to assign tasks")
		}
		var assignee models.UserProfile
		if err := database.DB.First(&assignee, "id = ?", *update.AssignedTo).Error; err != nil {
			return nil, apperrors.Validation("assigned_to", "Assignee does not exist")
		}
		task.AssignedTo = update.AssignedTo
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}

	if err := store.Save(task); err != nil {
		return nil, err
	}
	return GetTask(actor, task.ID)
}

func DeleteTask(actor permissions.Actor, id uuid.UUID) error {
	task, err := GetTask(actor, id)
	if err != nil {
		return err
	}
	return store.Delete(task)
}

func ChangeTaskStatus(actor permissions.Actor, id uuid.UUID, to models.TaskStatus, comment string) (*models.Task, error) {
	task, err := GetTask(actor, id)
	if err != nil {
		return nil, err
	}

	from := task.Status
	if err := workflow.ValidateTaskTransition(from, to); err != nil {
		return nil, err
	}

	err = store.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).Update("status", to).Error; err != nil {
			return err
		}
		return workflow.RecordChange(tx, resourceLabel, task.ID, string(from), string(to), actor.ID, comment)
	})
	if err != nil {
		return nil, err
	}

	notify.BroadcastStatusChange(resourceLabel, task.ID, string(from), string(to), actor.ID)

	task.Status = to
	return task, nil
}

func TaskHistory(actor permissions.Actor, id uuid.UUID) ([]models.StatusChange, error) {
	if _, err := GetTask(actor, id); err != nil {
		return nil, err
	}
	return workflow.History(resourceLabel, id)
}

func validPriority(p string) bool {
	for _, v := range validPriorities {
		if v == p {
			return true
		}
	}
	return false
}
