package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/domains/project"
)

type projectService struct {
	repo    project.Repository
	uploads project.UploadRegistry
	cleaner project.UploadCleaner // optional
}

// NewProjectService; cleaner có thể nil (không có Redis/S3)
func NewProjectService(repo project.Repository, uploads project.UploadRegistry, cleaner project.UploadCleaner) project.Service {
	return &projectService{repo: repo, uploads: uploads, cleaner: cleaner}
}

func (s *projectService) Create(ctx context.Context, ownerID uuid.UUID, req project.CreateProjectRequest) (*project.Project, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &project.Project{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ProjectName: req.ProjectName,
		Characters:  []project.Character{},
		Scenes:      []project.Scene{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.OriginalText != nil {
		p.OriginalText = *req.OriginalText
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, ownerID uuid.UUID) ([]project.Project, error) {
	projects, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) Get(ctx context.Context, ownerID uuid.UUID, projectID string) (*project.Project, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, project.ErrProjectNotFound
	}
	return s.repo.FindOwned(ctx, ownerID, id)
}

func (s *projectService) Update(ctx context.Context, ownerID uuid.UUID, projectID string, req project.UpdateProjectRequest) (*project.Project, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, project.ErrProjectNotFound
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := s.repo.UpdateOwned(ctx, ownerID, id, req)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update project: %w", err)
	}

	if req.Characters != nil {
		s.scheduleOrphanCleanup(ctx, result)
	}
	return result.Project, nil
}

// scheduleOrphanCleanup: ảnh character bị thay thế hoặc bị bỏ sẽ được xóa khỏi bucket.
// Chỉ object do chính owner upload và không còn project nào tham chiếu mới bị xóa.
// Update đã thành công nên mọi lỗi ở đây chỉ được log.
func (s *projectService) scheduleOrphanCleanup(ctx context.Context, result *project.UpdateResult) {
	if s.cleaner == nil || s.uploads == nil {
		return
	}
	logger := log.With().Str("project_id", result.Project.ID.String()).Logger()

	orphaned := OrphanedImageURLs(result.PreviousCharacters, result.Project.Characters)
	if len(orphaned) == 0 {
		return
	}

	// STEP 1: bỏ URL không thuộc owner (URL ngoài hoặc key của user khác)
	owned, err := s.uploads.OwnedURLs(ctx, result.Project.OwnerID, orphaned)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to resolve upload ownership")
		return
	}

	// STEP 2: bỏ URL còn được project khác tham chiếu
	deletable := make([]string, 0, len(owned))
	for _, u := range owned {
		referenced, err := s.repo.ImageURLReferenced(ctx, u)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to check image references")
			return
		}
		if !referenced {
			deletable = append(deletable, u)
		}
	}
	if len(deletable) == 0 {
		return
	}

	if err := s.cleaner.ScheduleDelete(ctx, result.Project.ID.String(), deletable); err != nil {
		logger.Warn().Err(err).
			Int("urls", len(deletable)).
			Msg("failed to schedule upload cleanup")
	}
}

// OrphanedImageURLs: URL có trong before nhưng không còn trong after
func OrphanedImageURLs(before, after []project.Character) []string {
	still := project.ImageURLs(after)

	var orphaned []string
	seen := map[string]struct{}{}
	for _, c := range before {
		for _, u := range []string{c.HeadshotURL, c.FullbodyURL} {
			if u == "" {
				continue
			}
			if _, ok := still[u]; ok {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			orphaned = append(orphaned, u)
		}
	}
	return orphaned
}
