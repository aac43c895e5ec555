package genai

import "strings"

// StripFences removes a wrapping markdown code fence from model output.
// Models sometimes wrap whole documents in ```markdown ... ``` (or ```json
// for structured replies); callers want the bare payload.
func StripFences(content string) string {
	content = strings.TrimSpace(content)

	for _, prefix := range []string{"```markdown", "```md", "```json", "```"} {
		if strings.HasPrefix(content, prefix) {
			content = strings.TrimSpace(content[len(prefix):])
			break
		}
	}

	if strings.HasSuffix(content, "```") {
		content = strings.TrimSpace(content[:len(content)-3])
	}

	return content
}
