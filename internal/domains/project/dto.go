package project

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateProjectRequest - POST /api/projects
type CreateProjectRequest struct {
	ProjectName  string  `json:"projectName"`
	OriginalText *string `json:"originalText,omitempty"`
}

func (r *CreateProjectRequest) Normalize() {
	r.ProjectName = strings.TrimSpace(r.ProjectName)
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectName,
			validation.Required.Error("projectName is required"),
			validation.RuneLength(1, 200),
		),
	)
}

// UpdateProjectRequest - PUT /api/projects/:id
// Field nil = không gửi. Field có mặt thay thế toàn bộ giá trị cũ (không merge).
type UpdateProjectRequest struct {
	ProjectName  *string      `json:"projectName,omitempty"`
	OriginalText *string      `json:"originalText,omitempty"`
	Script       *string      `json:"script,omitempty"`
	Characters   *[]Character `json:"characters,omitempty"`
	Scenes       *[]Scene     `json:"scenes,omitempty"`
}

func (r *UpdateProjectRequest) Normalize() {
	if r.ProjectName != nil {
		name := strings.TrimSpace(*r.ProjectName)
		r.ProjectName = &name
	}
	if r.Characters != nil {
		for i := range *r.Characters {
			(*r.Characters)[i].Name = strings.TrimSpace((*r.Characters)[i].Name)
		}
	}
}

func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectName,
			validation.NilOrNotEmpty.Error("projectName cannot be empty"),
			validation.RuneLength(1, 200),
		),
		validation.Field(&r.Characters),
		validation.Field(&r.Scenes),
	)
}

func (c Character) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required.Error("name is required")),
	)
}

func (s Scene) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.SceneNumber,
			validation.Required.Error("sceneNumber is required"),
			validation.Min(1).Error("sceneNumber must be >= 1"),
		),
	)
}

// ProjectResponse - {project}
type ProjectResponse struct {
	Project *Project `json:"project"`
}

// ProjectsResponse - {projects}
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
}
