package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/helmcode/ticketctl/pkg/model"
)

var fences = regexp.MustCompile("```[a-zA-Z]*\n|```")

// Fallback is the suggestion used when a model reply is unusable.
var Fallback = model.Suggestion{Category: model.CategoryGeneral, Priority: model.PriorityMedium}

// ParseSuggestion reads a classification reply such as
// {"category": "billing", "priority": "high"}. Missing or unknown values
// fall back field by field; the second result reports whether the reply
// was usable as a whole.
func ParseSuggestion(raw string) (model.Suggestion, bool) {
	var reply struct {
		Category string `json:"category"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &reply); err != nil {
		return Fallback, false
	}

	suggestion := Fallback
	ok := true
	if c, err := model.ParseCategory(reply.Category); err == nil {
		suggestion.Category = c
	} else {
		ok = false
	}
	if p, err := model.ParsePriority(reply.Priority); err == nil {
		suggestion.Priority = p
	} else {
		ok = false
	}
	return suggestion, ok
}

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed
func stripFences(text string) string {
	return strings.TrimSpace(fences.ReplaceAllString(text, ""))
}
