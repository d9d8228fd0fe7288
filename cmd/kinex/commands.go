package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kinex-backend/internal/domains/project"
	"kinex-backend/internal/domains/user"
	"kinex-backend/internal/genai"
	"kinex-backend/internal/imageprep"
	"kinex-backend/internal/workflow"
	"kinex-backend/pkg/client"
	"kinex-backend/pkg/logger"
)

var errUsage = errors.New("invalid arguments")

type app struct {
	api     *client.Client
	session *genai.Session
	out     io.Writer
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":   cmdRegister,
	"login":      cmdLogin,
	"me":         cmdMe,
	"projects":   cmdProjects,
	"new":        cmdNew,
	"show":       cmdShow,
	"ingest":     cmdIngest,
	"characters": cmdCharacters,
	"scenes":     cmdScenes,
	"forge":      cmdForge,
	"attach":     cmdAttach,
	"provider":   cmdProvider,
}

func expectArgs(args []string, min, max int, form string) error {
	if len(args) < min || len(args) > max {
		return fmt.Errorf("%w: expected %s", errUsage, form)
	}
	return nil
}

// describeError: message ngắn gọn cho từng loại lỗi
func describeError(err error) string {
	var apiErr *client.APIError
	var upstream *genai.UpstreamError
	var invalid *workflow.ValidationError
	switch {
	case errors.As(err, &invalid):
		return invalid.Message
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusUnauthorized {
			return apiErr.Error() + " (run `kinex login` first)"
		}
		return apiErr.Error()
	case errors.As(err, &upstream):
		return upstream.Error()
	}
	return err.Error()
}

// ==================== ACCOUNT ====================

func cmdRegister(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 2, 3, "register <email> <password> [name]"); err != nil {
		return err
	}
	req := user.RegisterRequest{Email: args[0], Password: args[1]}
	if len(args) == 3 {
		req.Name = &args[2]
	}

	res, err := a.api.Register(ctx, req)
	if err != nil {
		return err
	}
	if err := a.saveToken(res.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s\n", res.User.Email)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 2, 2, "login <email> <password>"); err != nil {
		return err
	}

	res, err := a.api.Login(ctx, user.LoginRequest{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	if err := a.saveToken(res.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", res.User.Email)
	return nil
}

func cmdMe(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 0, 0, "me"); err != nil {
		return err
	}

	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	name := ""
	if u.Name != nil {
		name = " (" + *u.Name + ")"
	}
	fmt.Fprintf(a.out, "%s%s %s\n", u.Email, name, u.ID)
	return nil
}

func (a *app) saveToken(token string) error {
	a.session.Token = token
	if err := a.session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ==================== PROJECTS ====================

func cmdProjects(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 0, 0, "projects"); err != nil {
		return err
	}

	projects, err := a.api.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects yet")
		return nil
	}
	for _, p := range projects {
		fmt.Fprintf(a.out, "%s  %-30s  %s\n", p.ID, p.ProjectName, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func cmdNew(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, 2, "new <name> [text-file]"); err != nil {
		return err
	}
	req := project.CreateProjectRequest{ProjectName: args[0]}
	if len(args) == 2 {
		text, err := readText(args[1])
		if err != nil {
			return err
		}
		req.OriginalText = &text
	}

	p, err := a.api.CreateProject(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created project %s (%s)\n", p.ProjectName, p.ID)
	return nil
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, 1, "show <project-id>"); err != nil {
		return err
	}

	p, err := a.api.GetProject(ctx, args[0])
	if err != nil {
		return err
	}
	printProject(a.out, p)
	return nil
}

func printProject(w io.Writer, p *project.Project) {
	fmt.Fprintf(w, "%s  %s\n", p.ID, p.ProjectName)
	fmt.Fprintf(w, "  updated:    %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  text:       %d chars\n", len(p.OriginalText))
	fmt.Fprintf(w, "  script:     %d chars\n", len(p.Script))
	fmt.Fprintf(w, "  characters: %d\n", len(p.Characters))
	for _, c := range p.Characters {
		fmt.Fprintf(w, "    - %s%s%s\n", c.Name, marker(c.HeadshotURL != "", " [headshot]"), marker(c.FullbodyURL != "", " [fullbody]"))
	}
	fmt.Fprintf(w, "  scenes:     %d\n", len(p.Scenes))
	for _, s := range p.Scenes {
		fmt.Fprintf(w, "    %d. %s%s\n", s.SceneNumber, truncate(s.Prompt, 60), marker(s.GeneratedImageURL != "", " [image]"))
	}
}

func marker(on bool, s string) string {
	if on {
		return s
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// ==================== WORKFLOW ====================

// runner: provider là optional; bước nào cần provider sẽ tự báo lỗi
func (a *app) runner() *workflow.Runner {
	var provider genai.Provider
	if p, err := genai.New(a.session); err == nil {
		provider = p
	} else {
		logger.Debug("no generative provider configured: " + err.Error())
	}
	return workflow.New(a.api, provider, a.api)
}

func cmdIngest(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 2, 2, "ingest <project-id> <text-file>"); err != nil {
		return err
	}
	text, err := readText(args[1])
	if err != nil {
		return err
	}
	p, err := a.api.GetProject(ctx, args[0])
	if err != nil {
		return err
	}

	saved, err := a.runner().Ingest(ctx, p, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Script saved (%d chars)\n", len(saved.Script))
	return nil
}

func cmdCharacters(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 1, 1, "characters <project-id>"); err != nil {
		return err
	}
	p, err := a.api.GetProject(ctx, args[0])
	if err != nil {
		return err
	}

	saved, err := a.runner().Characters(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Characters saved (%d)\n", len(saved.Characters))
	return nil
}

func cmdScenes(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 2, 2, "scenes <project-id> <style>"); err != nil {
		return err
	}
	style, err := workflow.ParseStyle(args[1])
	if err != nil {
		return err
	}
	p, err := a.api.GetProject(ctx, args[0])
	if err != nil {
		return err
	}

	saved, err := a.runner().ScenePrompts(ctx, p, style)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Scene prompts saved (%d scenes, %s)\n", len(saved.Scenes), style)
	return nil
}

func cmdForge(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 2, 2, "forge <project-id> <scene-number>"); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: scene number must be an integer", errUsage)
	}
	p, err := a.api.GetProject(ctx, args[0])
	if err != nil {
		return err
	}

	if _, err := a.runner().ForgeImage(ctx, p, n); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Image generated for scene %d\n", n)
	return nil
}

// maxImageDimension theo loại ảnh character
var maxImageDimension = map[workflow.ImageKind]int{
	workflow.Headshot: 1024,
	workflow.Fullbody: 1536,
}

func cmdAttach(ctx context.Context, a *app, args []string) error {
	if err := expectArgs(args, 4, 4, "attach <project-id> <character> <headshot|fullbody> <image-file>"); err != nil {
		return err
	}
	kind := workflow.ImageKind(strings.ToLower(args[2]))
	maxDim, ok := maxImageDimension[kind]
	if !ok {
		return fmt.Errorf("%w: image kind must be headshot or fullbody", errUsage)
	}

	raw, err := os.ReadFile(args[3])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	img, err := imageprep.NewProcessor(maxDim).Prepare(raw)
	if err != nil {
		return err
	}
	if img.Resized {
		logger.Info("image resized before upload", map[string]interface{}{
			"width":  img.Width,
			"height": img.Height,
			"bytes":  len(img.Data),
		})
	}
	base := filepath.Base(args[3])
	fileName := strings.TrimSuffix(base, filepath.Ext(base)) + img.Ext

	p, err := a.api.GetProject(ctx, args[0])
	if err != nil {
		return err
	}

	if _, err := a.runner().AttachCharacterImage(ctx, p, args[1], kind, fileName, img.ContentType, img.Data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s image for %s\n", kind, args[1])
	return nil
}

// ==================== SETTINGS ====================

func cmdProvider(_ context.Context, a *app, args []string) error {
	if len(args) == 0 {
		keyState := "no API key"
		if a.session.APIKey != "" {
			keyState = "API key set"
		}
		fmt.Fprintf(a.out, "%s (%s); available: %s\n", a.session.Provider, keyState, strings.Join(genai.Providers(), ", "))
		return nil
	}
	if err := expectArgs(args, 2, 2, "provider <OpenAI|Gemini|Anthropic> <api-key>"); err != nil {
		return err
	}

	if err := a.session.SetProvider(args[0], args[1]); err != nil {
		return err
	}
	if err := a.session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Fprintf(a.out, "Provider set to %s\n", a.session.Provider)
	return nil
}

func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(raw), nil
}
