package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinex-backend/internal/domains/project"
	"kinex-backend/internal/domains/upload"
)

// ==================== FAKES ====================

type fakeProvider struct {
	prompts      []string
	imagePrompts []string
	reply        func(prompt string) string
	failAt       int // 1-based; 0 = không bao giờ lỗi
}

func (f *fakeProvider) Name() string { return "Fake" }

func (f *fakeProvider) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.failAt > 0 && len(f.prompts) == f.failAt {
		return "", errors.New("rate limited")
	}
	if f.reply != nil {
		return f.reply(prompt), nil
	}
	return fmt.Sprintf("reply-%d", len(f.prompts)), nil
}

func (f *fakeProvider) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.imagePrompts = append(f.imagePrompts, prompt)
	return "https://img.example/" + fmt.Sprint(len(f.imagePrompts)) + ".png", nil
}

// memorySaver áp partial update giống server (field có mặt thay thế toàn bộ)
type memorySaver struct {
	project *project.Project
	saves   []project.UpdateProjectRequest
}

func (m *memorySaver) UpdateProject(_ context.Context, id string, req project.UpdateProjectRequest) (*project.Project, error) {
	if id != m.project.ID.String() {
		return nil, project.ErrProjectNotFound
	}
	m.saves = append(m.saves, req)

	next := *m.project
	if req.ProjectName != nil {
		next.ProjectName = *req.ProjectName
	}
	if req.OriginalText != nil {
		next.OriginalText = *req.OriginalText
	}
	if req.Script != nil {
		next.Script = *req.Script
	}
	if req.Characters != nil {
		next.Characters = *req.Characters
	}
	if req.Scenes != nil {
		next.Scenes = *req.Scenes
	}
	next.UpdatedAt = time.Now()
	m.project = &next
	return &next, nil
}

type fakeUploader struct {
	requests []upload.SignedURLRequest
	puts     [][]byte
}

func (f *fakeUploader) GetSignedURL(_ context.Context, req upload.SignedURLRequest) (*upload.SignedURLResponse, error) {
	f.requests = append(f.requests, req)
	key := req.Folder + "/1-abc.png"
	return &upload.SignedURLResponse{
		UploadURL: "https://bucket.example/" + key + "?sig=1",
		FileURL:   "https://cdn.example/" + key,
		Key:       key,
	}, nil
}

func (f *fakeUploader) PutObject(_ context.Context, _, _ string, data []byte) error {
	f.puts = append(f.puts, data)
	return nil
}

func newProject() *project.Project {
	p := &project.Project{ID: uuid.New(), OwnerID: uuid.New(), ProjectName: "Pilot"}
	p.Normalize()
	return p
}

const twoSceneScript = "INT. HOUSE - DAY\nJOHN\nHello.\nEXT. YARD - NIGHT\nJANE (V.O.)\nHi."

// ==================== STEP 1 ====================

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("prose is reformatted", func(t *testing.T) {
		saver := &memorySaver{project: newProject()}
		provider := &fakeProvider{reply: func(string) string { return "INT. BEACH - DAY\nANNA\nHi." }}

		got, err := New(saver, provider, nil).Ingest(ctx, saver.project, "Anna walks on the beach.")
		require.NoError(t, err)

		require.Len(t, provider.prompts, 1)
		assert.Contains(t, provider.prompts[0], "Anna walks on the beach.")
		assert.Equal(t, "Anna walks on the beach.", got.OriginalText)
		assert.Equal(t, "INT. BEACH - DAY\nANNA\nHi.", got.Script)

		require.Len(t, saver.saves, 1)
		assert.NotNil(t, saver.saves[0].OriginalText)
		assert.NotNil(t, saver.saves[0].Script)
		assert.Nil(t, saver.saves[0].Characters)
	})

	t.Run("formatted text is kept verbatim", func(t *testing.T) {
		saver := &memorySaver{project: newProject()}
		provider := &fakeProvider{}

		got, err := New(saver, provider, nil).Ingest(ctx, saver.project, twoSceneScript)
		require.NoError(t, err)
		assert.Empty(t, provider.prompts)
		assert.Equal(t, twoSceneScript, got.Script)
	})

	t.Run("empty text", func(t *testing.T) {
		saver := &memorySaver{project: newProject()}
		_, err := New(saver, &fakeProvider{}, nil).Ingest(ctx, saver.project, "  ")
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Empty(t, saver.saves)
	})

	t.Run("prose without provider", func(t *testing.T) {
		saver := &memorySaver{project: newProject()}
		_, err := New(saver, nil, nil).Ingest(ctx, saver.project, "plain prose")
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

// ==================== STEP 2 ====================

func TestCharacters(t *testing.T) {
	ctx := context.Background()

	t.Run("derives from script and fills every field", func(t *testing.T) {
		p := newProject()
		p.Script = twoSceneScript
		saver := &memorySaver{project: p}
		provider := &fakeProvider{}

		got, err := New(saver, provider, nil).Characters(ctx, p)
		require.NoError(t, err)

		require.Len(t, got.Characters, 2)
		assert.Equal(t, "JOHN", got.Characters[0].Name)
		assert.Equal(t, "JANE", got.Characters[1].Name)
		assert.Len(t, provider.prompts, 6)
		for _, c := range got.Characters {
			assert.NotEmpty(t, c.Description)
			assert.NotEmpty(t, c.HeadshotPrompt)
			assert.NotEmpty(t, c.FullbodyPrompt)
		}
		assert.Contains(t, provider.prompts[0], "character description for JOHN")
	})

	t.Run("second run is additive and sends nothing", func(t *testing.T) {
		p := newProject()
		p.Script = twoSceneScript
		saver := &memorySaver{project: p}
		provider := &fakeProvider{}
		runner := New(saver, provider, nil)

		first, err := runner.Characters(ctx, p)
		require.NoError(t, err)
		requests := len(provider.prompts)

		second, err := runner.Characters(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, requests, len(provider.prompts))
		assert.Equal(t, first.Characters, second.Characters)
		assert.Len(t, saver.saves, 1)
	})

	t.Run("only missing fields are requested", func(t *testing.T) {
		p := newProject()
		p.Characters = []project.Character{{Name: "ANNA", Description: "kept", HeadshotPrompt: "kept too"}}
		saver := &memorySaver{project: p}
		provider := &fakeProvider{}

		got, err := New(saver, provider, nil).Characters(ctx, p)
		require.NoError(t, err)
		require.Len(t, provider.prompts, 1)
		assert.Contains(t, provider.prompts[0], "full-body")
		assert.Equal(t, "kept", got.Characters[0].Description)
		assert.Equal(t, "kept too", got.Characters[0].HeadshotPrompt)
		assert.Equal(t, "reply-1", got.Characters[0].FullbodyPrompt)
	})

	t.Run("failure aborts without saving", func(t *testing.T) {
		p := newProject()
		p.Script = twoSceneScript
		saver := &memorySaver{project: p}
		provider := &fakeProvider{failAt: 4}

		_, err := New(saver, provider, nil).Characters(ctx, p)
		require.Error(t, err)
		assert.Len(t, provider.prompts, 4)
		assert.Empty(t, saver.saves)
		assert.Empty(t, p.Characters)
	})

	t.Run("nothing to derive", func(t *testing.T) {
		p := newProject()
		_, err := New(&memorySaver{project: p}, &fakeProvider{}, nil).Characters(ctx, p)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

// ==================== STEP 3 ====================

func TestScenePrompts(t *testing.T) {
	ctx := context.Background()

	t.Run("one prompt per block with style keywords", func(t *testing.T) {
		p := newProject()
		p.Script = twoSceneScript
		saver := &memorySaver{project: p}
		provider := &fakeProvider{}

		got, err := New(saver, provider, nil).ScenePrompts(ctx, p, StyleNoir)
		require.NoError(t, err)

		require.Len(t, provider.prompts, 2)
		assert.Contains(t, provider.prompts[0], "Noir style")
		assert.Contains(t, provider.prompts[0], "moody shadows")
		assert.Contains(t, provider.prompts[0], "INT. HOUSE - DAY")
		assert.NotContains(t, provider.prompts[0], "EXT. YARD")
		assert.Equal(t, []project.Scene{
			{SceneNumber: 1, Prompt: "reply-1"},
			{SceneNumber: 2, Prompt: "reply-2"},
		}, got.Scenes)
	})

	t.Run("rerun overwrites every prompt and keeps images", func(t *testing.T) {
		p := newProject()
		p.Script = twoSceneScript
		saver := &memorySaver{project: p}
		provider := &fakeProvider{}
		runner := New(saver, provider, nil)

		first, err := runner.ScenePrompts(ctx, p, StyleCinematic)
		require.NoError(t, err)

		first.Scenes[1].GeneratedImageURL = "https://img.example/keep.png"
		second, err := runner.ScenePrompts(ctx, first, StyleAnime)
		require.NoError(t, err)

		require.Len(t, second.Scenes, 2)
		for i := range second.Scenes {
			assert.NotEqual(t, first.Scenes[i].Prompt, second.Scenes[i].Prompt)
		}
		assert.Contains(t, provider.prompts[2], "Anime style")
		assert.Equal(t, "https://img.example/keep.png", second.Scenes[1].GeneratedImageURL)
	})

	t.Run("script without headings is one scene", func(t *testing.T) {
		p := newProject()
		p.OriginalText = "A quiet morning."
		saver := &memorySaver{project: p}

		got, err := New(saver, &fakeProvider{}, nil).ScenePrompts(ctx, p, StyleFantasy)
		require.NoError(t, err)
		require.Len(t, got.Scenes, 1)
		assert.Equal(t, 1, got.Scenes[0].SceneNumber)
	})

	t.Run("failure aborts without saving", func(t *testing.T) {
		p := newProject()
		p.Script = twoSceneScript
		saver := &memorySaver{project: p}

		_, err := New(saver, &fakeProvider{failAt: 2}, nil).ScenePrompts(ctx, p, StyleNoir)
		require.Error(t, err)
		assert.Empty(t, saver.saves)
	})

	t.Run("unknown style", func(t *testing.T) {
		p := newProject()
		p.Script = twoSceneScript
		_, err := New(&memorySaver{project: p}, &fakeProvider{}, nil).ScenePrompts(ctx, p, Style("Pastel"))
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle(" noir ")
	require.NoError(t, err)
	assert.Equal(t, StyleNoir, style)

	_, err = ParseStyle("pastel")
	assert.Error(t, err)
}

// ==================== STEP 4 ====================

func TestForgeImage(t *testing.T) {
	ctx := context.Background()

	p := newProject()
	p.Scenes = []project.Scene{
		{SceneNumber: 1, Prompt: "a house at dawn"},
		{SceneNumber: 2},
	}

	t.Run("updates only the chosen scene", func(t *testing.T) {
		saver := &memorySaver{project: p}
		provider := &fakeProvider{}

		got, err := New(saver, provider, nil).ForgeImage(ctx, p, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a house at dawn"}, provider.imagePrompts)
		assert.Equal(t, "https://img.example/1.png", got.Scenes[0].GeneratedImageURL)
		assert.Empty(t, got.Scenes[1].GeneratedImageURL)
		assert.Empty(t, p.Scenes[0].GeneratedImageURL, "caller copy untouched")
	})

	t.Run("missing prompt", func(t *testing.T) {
		saver := &memorySaver{project: p}
		provider := &fakeProvider{}

		_, err := New(saver, provider, nil).ForgeImage(ctx, p, 2)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Missing prompt for this scene", verr.Message)
		assert.Empty(t, provider.imagePrompts)
		assert.Empty(t, saver.saves)
	})

	t.Run("unknown scene", func(t *testing.T) {
		_, err := New(&memorySaver{project: p}, &fakeProvider{}, nil).ForgeImage(ctx, p, 9)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

// ==================== UPLOAD ====================

func TestAttachCharacterImage(t *testing.T) {
	ctx := context.Background()

	p := newProject()
	p.Characters = []project.Character{{Name: "JOHN"}, {Name: "JANE"}}
	saver := &memorySaver{project: p}
	uploader := &fakeUploader{}
	runner := New(saver, nil, uploader)

	got, err := runner.AttachCharacterImage(ctx, p, "JANE", Fullbody, "jane.png", "image/png", []byte("png"))
	require.NoError(t, err)

	require.Len(t, uploader.requests, 1)
	assert.Equal(t, "fullbody", uploader.requests[0].Folder)
	assert.Equal(t, "image/png", uploader.requests[0].FileType)
	assert.Equal(t, [][]byte{[]byte("png")}, uploader.puts)
	assert.Equal(t, "https://cdn.example/fullbody/1-abc.png", got.Characters[1].FullbodyURL)
	assert.Empty(t, got.Characters[0].FullbodyURL)

	got, err = runner.AttachCharacterImage(ctx, got, "JOHN", Headshot, "john.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "headshots", uploader.requests[1].Folder)
	assert.True(t, strings.HasPrefix(got.Characters[0].HeadshotURL, "https://cdn.example/headshots/"))

	_, err = runner.AttachCharacterImage(ctx, got, "NOBODY", Headshot, "x.png", "image/png", nil)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
