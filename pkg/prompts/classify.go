package prompts

import (
	"fmt"
	"strings"

	"github.com/helmcode/ticketctl/pkg/model"
)

const ClassifySystem = "You classify support tickets into strict enums."

func BuildClassifyPrompt(description string) string {
	return fmt.Sprintf(`You are an assistant that classifies support tickets.
Return ONLY valid JSON with keys: category and priority.
Allowed category values: %s.
Allowed priority values: %s.
Choose the single best values based on the user's description.

Ticket description:
%s
`, joinValues(model.Categories), joinValues(model.Priorities), strings.TrimSpace(description))
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
