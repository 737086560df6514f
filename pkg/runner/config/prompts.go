package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// promptLine is one JSONL record from a --prompts file: either a bare
// {"id", "prompt"} pair or a golden-task record with a template and input
// bindings (spec.md §6 "Golden task JSONL").
type promptLine struct {
	ID             string                 `json:"id"`
	Prompt         string                 `json:"prompt"`
	PromptTemplate string                 `json:"prompt_template"`
	Input          map[string]interface{} `json:"input"`
}

// LoadPrompts reads a JSONL prompts file into a PromptSpec slice, one per
// line, substituting `{{key}}` placeholders in prompt_template from input
// when prompt is not given directly.
func LoadPrompts(path string) ([]domain.PromptSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading prompts file %q: %w", path, err)
	}
	defer f.Close()

	var prompts []domain.PromptSpec
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec promptLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("config: %s:%d: invalid JSON: %w", path, lineNum, err)
		}
		text := rec.Prompt
		if text == "" && rec.PromptTemplate != "" {
			text = renderTemplate(rec.PromptTemplate, rec.Input)
		}
		id := rec.ID
		if id == "" {
			id = fmt.Sprintf("prompt-%d", lineNum)
		}
		prompts = append(prompts, domain.PromptSpec{ID: id, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: reading prompts file %q: %w", path, err)
	}
	return prompts, nil
}

func renderTemplate(template string, input map[string]interface{}) string {
	result := template
	for key, value := range input {
		placeholder := "{{" + key + "}}"
		result = strings.ReplaceAll(result, placeholder, fmt.Sprintf("%v", value))
	}
	return result
}

// Repeat expands prompts so each appears `times` times in sequence, each
// repetition suffixed with its repeat index (spec.md §6 `--repeat`), so
// repeated attempts at the same prompt still get distinct PromptSpec IDs
// in the metrics log.
func Repeat(prompts []domain.PromptSpec, times int) []domain.PromptSpec {
	if times <= 1 {
		return prompts
	}
	out := make([]domain.PromptSpec, 0, len(prompts)*times)
	for _, p := range prompts {
		for i := 0; i < times; i++ {
			out = append(out, domain.PromptSpec{ID: fmt.Sprintf("%s#%d", p.ID, i), Text: p.Text})
		}
	}
	return out
}
