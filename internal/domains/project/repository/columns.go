package repository

import (
	"encoding/json"
	"fmt"

	"kinex-backend/internal/domains/project"
)

// buildUpdate trả về các mệnh đề "col = <placeholder>" cho field được gửi.
// updated_at luôn được bump; placeholder do dialect quyết định ($n hoặc ?).
func buildUpdate(req project.UpdateProjectRequest, updatedAt interface{}, placeholder func(i int) string) ([]string, []interface{}, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, col+" = "+placeholder(len(args)))
	}

	if req.ProjectName != nil {
		add("project_name", *req.ProjectName)
	}
	if req.OriginalText != nil {
		add("original_text", *req.OriginalText)
	}
	if req.Script != nil {
		add("script", *req.Script)
	}
	if req.Characters != nil {
		raw, err := marshalList(*req.Characters)
		if err != nil {
			return nil, nil, err
		}
		add("characters", raw)
	}
	if req.Scenes != nil {
		raw, err := marshalList(*req.Scenes)
		if err != nil {
			return nil, nil, err
		}
		add("scenes", raw)
	}
	add("updated_at", updatedAt)

	return sets, args, nil
}

// marshalList: nil slice -> "[]" để cột luôn là JSON array
func marshalList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(raw), nil
}

func marshalLists(characters []project.Character, scenes []project.Scene) (string, string, error) {
	c, err := marshalList(characters)
	if err != nil {
		return "", "", err
	}
	s, err := marshalList(scenes)
	if err != nil {
		return "", "", err
	}
	return c, s, nil
}

func unmarshalLists(characters, scenes []byte, p *project.Project) error {
	if len(characters) > 0 {
		if err := json.Unmarshal(characters, &p.Characters); err != nil {
			return fmt.Errorf("decode characters: %w", err)
		}
	}
	if len(scenes) > 0 {
		if err := json.Unmarshal(scenes, &p.Scenes); err != nil {
			return fmt.Errorf("decode scenes: %w", err)
		}
	}
	p.Normalize()
	return nil
}
