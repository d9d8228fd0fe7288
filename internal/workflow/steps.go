package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"kinex-backend/internal/domains/project"
	"kinex-backend/internal/domains/upload"
	"kinex-backend/pkg/screenplay"
)

// Style là phong cách hình ảnh áp cho mọi scene prompt
type Style string

const (
	StyleCinematic Style = "Cinematic"
	StyleAnime     Style = "Anime"
	StyleNoir      Style = "Noir"
	StyleFantasy   Style = "Fantasy"
)

var styleKeywords = map[Style]string{
	StyleCinematic: "cinematic lighting, depth of field, film still",
	StyleAnime:     "anime style, vibrant colors, detailed line art",
	StyleNoir:      "high contrast, moody shadows, noir style",
	StyleFantasy:   "high fantasy, epic scale, mystical lighting",
}

// Styles theo thứ tự hiển thị
func Styles() []Style {
	return []Style{StyleCinematic, StyleAnime, StyleNoir, StyleFantasy}
}

// ParseStyle không phân biệt hoa thường
func ParseStyle(s string) (Style, error) {
	for _, style := range Styles() {
		if strings.EqualFold(string(style), strings.TrimSpace(s)) {
			return style, nil
		}
	}
	return "", invalid("Unknown style %q (choose Cinematic, Anime, Noir or Fantasy)", s)
}

// ImageKind: loại ảnh tham chiếu của character
type ImageKind string

const (
	Headshot ImageKind = "headshot"
	Fullbody ImageKind = "fullbody"
)

func (k ImageKind) folder() string {
	if k == Fullbody {
		return "fullbody"
	}
	return "headshots"
}

// ==================== STEP 1: INGEST ====================

// Ingest lưu {originalText, script}. Text chưa đúng định dạng screenplay
// được provider format lại; text đã đúng định dạng dùng nguyên văn.
func (r *Runner) Ingest(ctx context.Context, p *project.Project, text string) (*project.Project, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("Text is empty")
	}

	script := text
	if !screenplay.IsScreenplayFormatted(text) {
		if err := r.requireProvider(); err != nil {
			return nil, err
		}
		formatted, err := r.provider.GenerateText(ctx, formatPrompt(text))
		if err != nil {
			return nil, fmt.Errorf("format script: %w", err)
		}
		script = formatted
	}

	return r.save(ctx, p, project.UpdateProjectRequest{
		OriginalText: &text,
		Script:       &script,
	})
}

// ==================== STEP 2: CHARACTERS ====================

// Characters bổ sung description / headshot prompt / fullbody prompt còn thiếu.
// Field đã có không bao giờ bị generate lại. Lưu cả list khi batch xong.
func (r *Runner) Characters(ctx context.Context, p *project.Project) (*project.Project, error) {
	list := make([]project.Character, len(p.Characters))
	copy(list, p.Characters)

	derived := false
	if len(list) == 0 {
		for _, name := range screenplay.ExtractCharacters(sourceText(p)) {
			list = append(list, project.Character{Name: name})
		}
		derived = true
	}
	if len(list) == 0 {
		return nil, invalid("No characters detected; ingest a script first")
	}

	generated := 0
	for i := range list {
		c := &list[i]
		fields := []struct {
			value  *string
			prompt string
		}{
			{&c.Description, descriptionPrompt(c.Name)},
			{&c.HeadshotPrompt, headshotPrompt(c.Name)},
			{&c.FullbodyPrompt, fullbodyPrompt(c.Name)},
		}
		for _, f := range fields {
			if strings.TrimSpace(*f.value) != "" {
				continue
			}
			if err := r.requireProvider(); err != nil {
				return nil, err
			}
			text, err := r.provider.GenerateText(ctx, f.prompt)
			if err != nil {
				return nil, fmt.Errorf("generate for %s: %w", c.Name, err)
			}
			*f.value = text
			generated++
		}
	}

	log.Debug().Int("characters", len(list)).Int("requests", generated).Msg("character batch complete")

	if generated == 0 && !derived {
		return p, nil
	}
	return r.save(ctx, p, project.UpdateProjectRequest{Characters: &list})
}

// ==================== STEP 3: SCENE PROMPTS ====================

// ScenePrompts regenerate prompt cho mọi scene block theo style (luôn ghi đè).
// Số scene được đánh lại 1..n; ảnh đã generate được giữ cho scene number còn tồn tại.
func (r *Runner) ScenePrompts(ctx context.Context, p *project.Project, style Style) (*project.Project, error) {
	keywords, ok := styleKeywords[style]
	if !ok {
		return nil, invalid("Unknown style %q", style)
	}

	source := sourceText(p)
	if strings.TrimSpace(source) == "" {
		return nil, invalid("No script to derive scenes from; ingest a script first")
	}
	if err := r.requireProvider(); err != nil {
		return nil, err
	}

	blocks := screenplay.ExtractSceneBlocks(source)
	scenes := make([]project.Scene, 0, len(blocks))
	for i, block := range blocks {
		prompt, err := r.provider.GenerateText(ctx, scenePrompt(style, keywords, block))
		if err != nil {
			return nil, fmt.Errorf("generate prompt for scene %d: %w", i+1, err)
		}

		scene := project.Scene{SceneNumber: i + 1, Prompt: prompt}
		if idx := p.SceneByNumber(scene.SceneNumber); idx >= 0 {
			scene.GeneratedImageURL = p.Scenes[idx].GeneratedImageURL
		}
		scenes = append(scenes, scene)
	}

	return r.save(ctx, p, project.UpdateProjectRequest{Scenes: &scenes})
}

// ==================== STEP 4: IMAGE FORGE ====================

// ForgeImage sinh ảnh cho đúng một scene và chỉ đổi URL của scene đó
func (r *Runner) ForgeImage(ctx context.Context, p *project.Project, sceneNumber int) (*project.Project, error) {
	idx := p.SceneByNumber(sceneNumber)
	if idx < 0 {
		return nil, invalid("Scene %d not found", sceneNumber)
	}
	if strings.TrimSpace(p.Scenes[idx].Prompt) == "" {
		return nil, invalid("Missing prompt for this scene")
	}
	if err := r.requireProvider(); err != nil {
		return nil, err
	}

	imageURL, err := r.provider.GenerateImage(ctx, p.Scenes[idx].Prompt)
	if err != nil {
		return nil, fmt.Errorf("generate image for scene %d: %w", sceneNumber, err)
	}

	scenes := make([]project.Scene, len(p.Scenes))
	copy(scenes, p.Scenes)
	scenes[idx].GeneratedImageURL = imageURL

	return r.save(ctx, p, project.UpdateProjectRequest{Scenes: &scenes})
}

// ==================== UPLOAD ====================

// AttachCharacterImage: xin presigned URL, PUT bytes lên storage, rồi lưu fileUrl vào character
func (r *Runner) AttachCharacterImage(ctx context.Context, p *project.Project, characterName string, kind ImageKind, fileName, contentType string, data []byte) (*project.Project, error) {
	idx := p.CharacterByName(characterName)
	if idx < 0 {
		return nil, invalid("Character %q not found", characterName)
	}
	if kind != Headshot && kind != Fullbody {
		return nil, invalid("Unknown image kind %q (headshot or fullbody)", kind)
	}
	if r.uploader == nil {
		return nil, invalid("Uploads are not available")
	}

	signed, err := r.uploader.GetSignedURL(ctx, upload.SignedURLRequest{
		FileName: fileName,
		FileType: contentType,
		Folder:   kind.folder(),
	})
	if err != nil {
		return nil, fmt.Errorf("request upload url: %w", err)
	}
	if err := r.uploader.PutObject(ctx, signed.UploadURL, contentType, data); err != nil {
		return nil, err
	}

	characters := make([]project.Character, len(p.Characters))
	copy(characters, p.Characters)
	if kind == Fullbody {
		characters[idx].FullbodyURL = signed.FileURL
	} else {
		characters[idx].HeadshotURL = signed.FileURL
	}

	return r.save(ctx, p, project.UpdateProjectRequest{Characters: &characters})
}

// sourceText: script nếu có, không thì originalText
func sourceText(p *project.Project) string {
	if strings.TrimSpace(p.Script) != "" {
		return p.Script
	}
	return p.OriginalText
}
