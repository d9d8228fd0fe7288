package workflow

import "fmt"

func formatPrompt(text string) string {
	return "Format this text into a standard screenplay format (sluglines, dialogue, character names in caps). " +
		"Keep content faithful and concise.\n\nText:\n" + text
}

func descriptionPrompt(name string) string {
	return fmt.Sprintf("Provide a concise character description for %s. Use 2-3 sentences.", name)
}

func headshotPrompt(name string) string {
	return fmt.Sprintf("Create a photorealistic portrait prompt for %s. Return a single line describing the headshot.", name)
}

func fullbodyPrompt(name string) string {
	return fmt.Sprintf("Create a full-body portrait prompt for %s. Return a single line.", name)
}

func scenePrompt(style Style, keywords, block string) string {
	return fmt.Sprintf("Create a concise image generation prompt for this scene in %s style adding keywords (%s). Return one line.\n\nScene:\n%s",
		style, keywords, block)
}
