package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"infopix/pngmeta"

	"google.golang.org/genai"
)

const metadataVersion = 1
const provenanceKey = "infopix"

// imageMetadata is the tool-specific provenance record embedded alongside
// the standard descriptive fields.
type imageMetadata struct {
	Version   int           `json:"version"`
	Model     string        `json:"model"`
	ModelID   string        `json:"model_id"`
	Ratio     string        `json:"ratio"`
	Size      string        `json:"size,omitempty"`
	Inputs    []string      `json:"inputs,omitempty"`
	Session   string        `json:"session,omitempty"`
	Timestamp string        `json:"timestamp"`
	Prompts   []promptEntry `json:"prompts"`
}

type promptEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// buildRecord assembles the descriptive metadata record from the flags. If
// any field is set and no creation date was given, the record is stamped
// with the current time.
func buildRecord(opts *options, now func() time.Time) pngmeta.Metadata {
	meta := pngmeta.Metadata{
		Title:       opts.title,
		Author:      opts.author,
		Description: opts.description,
		Keywords:    opts.keywords,
		Copyright:   opts.copyright,
		Date:        opts.date,
	}
	hasField := meta.Title != "" || meta.Author != "" || meta.Description != "" ||
		meta.Keywords != "" || meta.Copyright != ""
	if hasField && strings.TrimSpace(meta.Date) == "" {
		meta.Date = now().UTC().Format(time.RFC3339)
	}
	return meta
}

// buildProvenance collects the generation context (model, prompts, inputs)
// into the JSON record stored under the tool's own keyword.
func buildProvenance(opts *options, history []*genai.Content) imageMetadata {
	var prompts []promptEntry
	for _, c := range history {
		if c == nil {
			continue
		}
		var textBuf strings.Builder
		for _, p := range c.Parts {
			if p == nil || p.InlineData != nil || p.Thought {
				continue
			}
			if p.Text != "" {
				if textBuf.Len() > 0 {
					textBuf.WriteByte('\n')
				}
				textBuf.WriteString(p.Text)
			}
		}
		if textBuf.Len() > 0 {
			prompts = append(prompts, promptEntry{Role: c.Role, Text: textBuf.String()})
		}
	}

	var inputs []string
	for _, p := range opts.inputs {
		inputs = append(inputs, filepath.Base(p))
	}

	var session string
	if opts.session != "" {
		session = filepath.Base(opts.session)
	}

	return imageMetadata{
		Version:   metadataVersion,
		Model:     opts.model,
		ModelID:   opts.modelID,
		Ratio:     opts.ratio,
		Size:      opts.size,
		Inputs:    inputs,
		Session:   session,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Prompts:   prompts,
	}
}

// embedMetadata decorates the image with the descriptive record and the
// provenance chunk. Failures downgrade to the original bytes with a note;
// the image is never withheld over metadata.
func embedMetadata(imageData []byte, meta pngmeta.Metadata, prov imageMetadata) []byte {
	if !pngmeta.HasSignature(imageData) {
		fmt.Fprintln(os.Stderr, "note: output is not PNG, skipping metadata embedding")
		return imageData
	}
	out := pngmeta.Embed(imageData, meta)
	jsonBytes, err := json.Marshal(prov)
	if err != nil {
		fmt.Fprintf(os.Stderr, "note: failed to marshal provenance: %v\n", err)
		return out
	}
	return pngmeta.EmbedText(out, provenanceKey, string(jsonBytes))
}

var standardKeywords = []string{
	"Title", "Author", "Description", "Keywords", "Copyright", "Creation Time",
}

func runMeta(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: infopix meta <image.png>")
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %v", path, err)
	}

	if !pngmeta.HasSignature(data) {
		return fmt.Errorf("%q is not a PNG file (metadata is only embedded in PNG output)", path)
	}

	entries, err := pngmeta.TextEntries(data)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %v", path, err)
	}

	byKeyword := map[string][]string{}
	var provRaw string
	for _, e := range entries {
		if e.Keyword == provenanceKey {
			provRaw = e.Value
			continue
		}
		byKeyword[e.Keyword] = append(byKeyword[e.Keyword], e.Value)
	}

	printed := false
	for _, kw := range standardKeywords {
		for _, v := range byKeyword[kw] {
			fmt.Printf("%-14s %s\n", strings.ToLower(kw)+":", v)
			printed = true
		}
	}

	if provRaw != "" {
		var prov imageMetadata
		if err := json.Unmarshal([]byte(provRaw), &prov); err != nil {
			return fmt.Errorf("failed to parse provenance: %v", err)
		}
		if printed {
			fmt.Println()
		}
		fmt.Printf("model:     %s (%s)\n", prov.Model, prov.ModelID)
		fmt.Printf("ratio:     %s\n", prov.Ratio)
		if prov.Size != "" {
			fmt.Printf("size:      %s\n", prov.Size)
		}
		fmt.Printf("timestamp: %s\n", prov.Timestamp)
		if len(prov.Inputs) > 0 {
			fmt.Printf("inputs:    %s\n", strings.Join(prov.Inputs, ", "))
		}
		if prov.Session != "" {
			fmt.Printf("session:   %s\n", prov.Session)
		}
		if len(prov.Prompts) > 0 {
			fmt.Println()
			fmt.Println("prompts:")
			for i, p := range prov.Prompts {
				fmt.Printf("  [%d] %s: %s\n", i+1, p.Role, p.Text)
			}
		}
		printed = true
	}

	if !printed {
		return fmt.Errorf("no metadata found in %q", path)
	}
	return nil
}
