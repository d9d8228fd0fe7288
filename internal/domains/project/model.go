package project

import (
	"time"

	"github.com/google/uuid"
)

// Project là document chính: text gốc, screenplay, characters và scenes.
// Chỉ owner được đọc/sửa.
type Project struct {
	ID           uuid.UUID   `json:"id"`
	OwnerID      uuid.UUID   `json:"ownerUserId"`
	ProjectName  string      `json:"projectName"`
	OriginalText string      `json:"originalText"`
	Script       string      `json:"script"`
	Characters   []Character `json:"characters"`
	Scenes       []Scene     `json:"scenes"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Character: Name là natural key trong project (store không enforce)
type Character struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	HeadshotURL    string `json:"headshotUrl,omitempty"`
	FullbodyURL    string `json:"fullbodyUrl,omitempty"`
	HeadshotPrompt string `json:"headshotPrompt,omitempty"`
	FullbodyPrompt string `json:"fullbodyPrompt,omitempty"`
}

// Scene: SceneNumber bắt đầu từ 1, liên tục
type Scene struct {
	SceneNumber       int    `json:"sceneNumber"`
	Prompt            string `json:"prompt,omitempty"`
	GeneratedImageURL string `json:"generatedImageUrl,omitempty"`
}

// CharacterByName trả về index của character hoặc -1
func (p *Project) CharacterByName(name string) int {
	for i := range p.Characters {
		if p.Characters[i].Name == name {
			return i
		}
	}
	return -1
}

// SceneByNumber trả về index của scene hoặc -1
func (p *Project) SceneByNumber(n int) int {
	for i := range p.Scenes {
		if p.Scenes[i].SceneNumber == n {
			return i
		}
	}
	return -1
}

// Normalize đảm bảo characters/scenes không nil (JSON luôn là [])
func (p *Project) Normalize() {
	if p.Characters == nil {
		p.Characters = []Character{}
	}
	if p.Scenes == nil {
		p.Scenes = []Scene{}
	}
}

// ImageURLs: mọi URL ảnh của characters (headshot + fullbody)
func ImageURLs(characters []Character) map[string]struct{} {
	urls := make(map[string]struct{})
	for _, c := range characters {
		if c.HeadshotURL != "" {
			urls[c.HeadshotURL] = struct{}{}
		}
		if c.FullbodyURL != "" {
			urls[c.FullbodyURL] = struct{}{}
		}
	}
	return urls
}
