// cmd/kinex/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"kinex-backend/internal/genai"
	"kinex-backend/pkg/client"
	"kinex-backend/pkg/logger"

	_ "kinex-backend/internal/genai/providers/anthropic"
	_ "kinex-backend/internal/genai/providers/gemini"
	_ "kinex-backend/internal/genai/providers/openai"
)

const usage = `kinex - screenplay workflow client

Usage:
  kinex [-api URL] [-session FILE] <command> [args]

Account:
  register <email> <password> [name]   create an account and save the token
  login <email> <password>             sign in and save the token
  me                                   show the signed-in user

Projects:
  projects                             list your projects (most recent first)
  new <name> [text-file]               create a project
  show <project-id>                    show a project

Workflow:
  ingest <project-id> <text-file>      step 1: save text, formatting it as a screenplay if needed
  characters <project-id>              step 2: fill missing character descriptions and prompts
  scenes <project-id> <style>          step 3: regenerate scene prompts (Cinematic, Anime, Noir, Fantasy)
  forge <project-id> <scene-number>    step 4: generate the image for one scene
  attach <project-id> <character> <headshot|fullbody> <image-file>
                                       upload a character image

Settings:
  provider                             show the selected provider
  provider <OpenAI|Gemini|Anthropic> <api-key>
                                       select a provider and store its key locally
`

func main() {
	_ = godotenv.Load()
	logger.Init(getEnv("APP_ENV", "production"), getEnv("LOG_LEVEL", "warn"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run trả về exit code; mọi output đi qua stdout/stderr được truyền vào
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("kinex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("api", getEnv("KINEX_API_URL", "http://localhost:5000"), "kinex API base URL")
	sessionPath := fs.String("session", getEnv("KINEX_SESSION", defaultSessionPath()), "session file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "error: unknown command %q\n", name)
		fs.Usage()
		return 2
	}

	session, err := genai.LoadSession(*sessionPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	api := client.New(*apiURL, nil)
	api.SetToken(session.Token)

	a := &app{api: api, session: session, out: stdout}
	if err := cmd(ctx, a, rest); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", describeError(err))
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kinex-session.json"
	}
	return filepath.Join(home, ".kinex", "session.json")
}

// getEnv lấy environment variable với fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
