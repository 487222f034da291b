package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

const sessionSuffix = ".session.json"

type usageData struct {
	PromptTokens    int32 `json:"prompt_tokens"`
	CandidateTokens int32 `json:"candidate_tokens"`
	TotalTokens     int32 `json:"total_tokens"`
}

type sessionData struct {
	Model   string           `json:"model"`
	Size    string           `json:"size,omitempty"`
	History []*genai.Content `json:"history"`
	Usage   *usageData       `json:"usage,omitempty"`
}

// readSession parses a session file and returns the session data and file
// size. It validates that history is present but does not check model names.
func readSession(path string) (*sessionData, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %q: %v", path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %q: %v", path, err)
	}
	var sess sessionData
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, 0, fmt.Errorf("failed to parse %q: %v", path, err)
	}
	if sess.History == nil {
		return nil, 0, fmt.Errorf("%q is not an infopix session", path)
	}
	return &sess, info.Size(), nil
}

// writeSession stores the conversation next to the output image so a later
// run can continue it.
func writeSession(path string, sess *sessionData) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %v", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write session: %v", err)
	}
	return nil
}

// listSessionFiles returns paths to all .session.json files in a directory (non-recursive).
func listSessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %v", err)
	}
	var paths []string
	for _, d := range entries {
		if d.IsDir() || !strings.HasSuffix(d.Name(), sessionSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, d.Name()))
	}
	return paths, nil
}

// sessionPath converts an output image path to the corresponding session file path.
func sessionPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + sessionSuffix
}

// loadSession reads a session file for continuation, validating that its
// model is compatible with the requested one. Returns the conversation history.
func loadSession(path, model string) ([]*genai.Content, error) {
	sess, _, err := readSession(path)
	if err != nil {
		return nil, err
	}
	if sess.Model == "" || sess.Model == model {
		return sess.History, nil
	}
	// Sessions may store aliases ("flash", "pro"); allow if same family.
	stored, storedDef, ok := resolveModel(sess.Model)
	if ok {
		if stored == model {
			return sess.History, nil
		}
		if _, def, known := resolveModel(model); known && def.Family == storedDef.Family {
			return sess.History, nil
		}
	}
	return nil, fmt.Errorf("session was created with %q but -m is %q; pass -m %s to continue this session", sess.Model, model, sess.Model)
}
