package drawing

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/notify"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
	"github.com/keramy/formulapmv2-sub001/internal/workflow"
	"gorm.io/gorm"
)

const resourceLabel = "shop_drawings"

var validDisciplines = []string{"architectural", "structural", "mechanical", "electrical", "millwork"}

func ListDrawings(actor permissions.Actor, params query.Params) ([]models.ShopDrawing, int64, error) {
	q, err := query.Build(permissions.ResourceShopDrawings, actor, params)
	if err != nil {
		return nil, 0, err
	}

	var drawings []models.ShopDrawing
	if err := store.List(q, &drawings, "Project", "Reviewer"); err != nil {
		return nil, 0, err
	}

	total := int64(len(drawings))
	if q.Limit > 0 {
		total, err = store.Count(q, &models.ShopDrawing{})
		if err != nil {
			return nil, 0, err
		}
	}

	return drawings, total, nil
}

func GetDrawing(actor permissions.Actor, id uuid.UUID) (*models.ShopDrawing, error) {
	q, err := query.Build(permissions.ResourceShopDrawings, actor, query.Params{})
	if err != nil {
		return nil, err
	}

	var drawing models.ShopDrawing
	if err := store.Get(q, id, &drawing, "Project", "Reviewer"); err != nil {
		return nil, err
	}
	return &drawing, nil
}

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

type DrawingInput struct {
	ProjectID     uuid.UUID
	DrawingNumber string
	Title         string
	Discipline    string
	AssignedTo    *uuid.UUID
}

func CreateDrawing(actor permissions.Actor, input DrawingInput) (*models.ShopDrawing, error) {
	if input.Title == "" {
		return nil, apperrors.Validation("title", "Title is required")
	}
	if input.DrawingNumber == "" {
		return nil, apperrors.Validation("drawing_number", "Drawing number is required")
	}
	if input.ProjectID == uuid.Nil {
		return nil, apperrors.Validation("project_id", "Project is required")
	}
	if err := projectInScope(actor, input.ProjectID); err != nil {
		return nil, err
	}
	if input.Discipline != "" && !validDiscipline(input.Discipline) {
		return nil, apperrors.Validation("discipline", "Discipline must be one of: architectural, structural, mechanical, electrical, millwork")
	}
	if input.AssignedTo != nil {
		var reviewer models.UserProfile
		if err := database.DB.First(&reviewer, "id = ?", *input.AssignedTo).Error; err != nil {
			return nil, apperrors.Validation("assigned_to", "Reviewer does not exist")
		}
	}

	drawing := &models.ShopDrawing{
		ProjectID:     input.ProjectID,
		DrawingNumber: input.DrawingNumber,
		Title:         input.Title,
		Discipline:    input.Discipline,
		AssignedTo:    input.AssignedTo,
		CreatedBy:     actor.ID,
	}

	if err := store.Create(drawing); err != nil {
		return nil, err
	}
	return GetDrawing(actor, drawing.ID)
}

type DrawingUpdate struct {
	Title      *string
	Discipline *string
	AssignedTo *uuid.UUID
}

func UpdateDrawing(actor permissions.Actor, id uuid.UUID, update DrawingUpdate) (*models.ShopDrawing, error) {
	drawing, err := GetDrawing(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperrors.Validation("title", "Title cannot be empty")
		}
		drawing.Title = *update.Title
	}
	if update.Discipline != nil {
		if !validDiscipline(*update.Discipline) {
			return nil, apperrors.Validation("discipline", "Discipline must be one of: architectural, structural, mechanical, electrical, millwork")
		}
		drawing.Discipline = *update.Discipline
	}
	if update.AssignedTo != nil {
		var reviewer models.UserProfile
		if err := database.DB.First(&reviewer, "id = ?", *update.AssignedTo).Error; err != nil {
			return nil, apperrors.Validation("assigned_to", "Reviewer does not exist")
		}
		drawing.AssignedTo = update.AssignedTo
	}

	if err := store.Save(drawing); err != nil {
		return nil, err
	}
	return GetDrawing(actor, drawing.ID)
}

func DeleteDrawing(actor permissions.Actor, id uuid.UUID) error {
	drawing, err := GetDrawing(actor, id)
	if err != nil {
		return err
	}
	if drawing.FileURL != "" {
		utils.DeleteFile(drawing.FileURL)
	}
	return store.Delete(drawing)
}

// AttachFile stores the uploaded drawing file and records its location.
// Uploading against a revision request bumps the revision letter.
func AttachFile(actor permissions.Actor, id uuid.UUID, file *multipart.FileHeader) (*models.ShopDrawing, error) {
	drawing, err := GetDrawing(actor, id)
	if err != nil {
		return nil, err
	}

	url, err := utils.UploadFile(file)
	if err != nil {
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}

	if drawing.FileURL != "" {
		utils.DeleteFile(drawing.FileURL)
	}

	drawing.FileURL = url
	drawing.FileSize = file.Size
	if drawing.Status == models.DrawingRevisionRequired {
		drawing.Revision = nextRevision(drawing.Revision)
	}

	if err := store.Save(drawing); err != nil {
		return nil, err
	}
	return GetDrawing(actor, drawing.ID)
}

// ChangeDrawingStatus runs the review machine. Approval and rejection are
// review decisions and need the approve grant on top of change_status.
func ChangeDrawingStatus(actor permissions.Actor, id uuid.UUID, to models.DrawingStatus, comment string) (*models.ShopDrawing, error) {
	drawing, err := GetDrawing(actor, id)
	if err != nil {
		return nil, err
	}

	if to == models.DrawingApproved || to == models.DrawingRejected {
		if !permissions.CanApproveDrawings(actor) {
			return nil, apperrors.Authorization("You don't have permission to review drawings")
		}
	}

	from := drawing.Status
	if err := workflow.ValidateDrawingTransition(from, to); err != nil {
		return nil, err
	}

	err = store.WithTransaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if to == models.DrawingApproved || to == models.DrawingRejected || to == models.DrawingRevisionRequired {
			now := time.Now()
			updates["reviewed_by"] = actor.ID
			updates["reviewed_at"] = now
			if comment != "" {
				updates["review_comment"] = comment
			}
		}
		if err := tx.Model(drawing).Updates(updates).Error; err != nil {
			return err
		}
		return workflow.RecordChange(tx, resourceLabel, drawing.ID, string(from), string(to), actor.ID, comment)
	})
	if err != nil {
		return nil, err
	}

	notify.BroadcastStatusChange(resourceLabel, drawing.ID, string(from), string(to), actor.ID)

	return GetDrawing(actor, drawing.ID)
}

// SubmitDrawing sends a pending or revised drawing out for review.
func SubmitDrawing(actor permissions.Actor, id uuid.UUID) (*models.ShopDrawing, error) {
	return ChangeDrawingStatus(actor, id, models.DrawingUnderReview, "")
}

func ApproveDrawing(actor permissions.Actor, id uuid.UUID, comment string) (*models.ShopDrawing, error) {
	return ChangeDrawingStatus(actor, id, models.DrawingApproved, comment)
}

func RejectDrawing(actor permissions.Actor, id uuid.UUID, comment string) (*models.ShopDrawing, error) {
	return ChangeDrawingStatus(actor, id, models.DrawingRejected, comment)
}

func DrawingHistory(actor permissions.Actor, id uuid.UUID) ([]models.StatusChange, error) {
	if _, err := GetDrawing(actor, id); err != nil {
		return nil, err
	}
	return workflow.History(resourceLabel, id)
}

// nextRevision walks A, B, ... Z, then starts doubling letters.
func nextRevision(rev string) string {
	if rev == "" {
		return "A"
	}
	last := rev[len(rev)-1]
	if last < 'Z' {
		return rev[:len(rev)-1] + string(last+1)
	}
	return rev + "A"
}

func validDiscipline(d string) bool {
	for _, v := range validDisciplines {
		if v == d {
			return true
		}
	}
	return false
}
