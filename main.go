package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"
)

const usageLine = "usage: infopix -p <prompt> -o <output> [-i <input>] [-s <session>] [-m <model>] [-r <ratio>] [-z 1k|2k|4k] [-f] [metadata flags]\n" +
	"       infopix meta <image.png>\n" +
	"       infopix clean [-f] <directory>\n" +
	"       infopix cost <session-file-or-directory>"

// options holds everything a generation run needs, resolved from flags.
type options struct {
	prompt  string
	output  string
	inputs  []string
	session string
	model   string // pinned catalog name
	modelID string
	ratio   string
	size    string
	force   bool

	title       string
	author      string
	description string
	keywords    string
	copyright   string
	date        string
}

func parseOptions(args []string) (*options, error) {
	fs := flag.NewFlagSet("infopix", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	prompt := fs.String("p", "", "text prompt (required)")
	output := fs.String("o", "", "output file path (required)")
	session := fs.String("s", "", "session file to continue from")
	model := fs.String("m", "flash", "model: flash, pro, or a pinned name")
	ratio := fs.String("r", "1:1", "aspect ratio")
	size := fs.String("z", "", "output size: 1k, 2k, or 4k (pro models only)")
	force := fs.Bool("f", false, "overwrite output file if it exists")

	title := fs.String("title", "", "image title")
	author := fs.String("author", "", "image author")
	description := fs.String("desc", "", "image description")
	keywords := fs.String("keywords", "", "comma-separated keywords")
	copyright := fs.String("copyright", "", "copyright notice")
	date := fs.String("date", "", "creation date (defaults to now when other metadata is set)")

	var inputs []string
	fs.Func("i", "input image path (repeatable, for editing)", func(v string) error {
		inputs = append(inputs, v)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return nil, errors.New(usageLine)
	}
	if *prompt == "" || *output == "" {
		return nil, errors.New(usageLine)
	}

	pinned, def, ok := resolveModel(*model)
	if !ok {
		return nil, fmt.Errorf("unknown model %q: use \"flash\" or \"pro\"", *model)
	}

	if !validRatios[*ratio] {
		return nil, fmt.Errorf("invalid aspect ratio %q", *ratio)
	}

	var imageSize string
	if *size != "" {
		normalized := strings.ToUpper(*size)
		if normalized != "1K" && normalized != "2K" && normalized != "4K" {
			return nil, fmt.Errorf("invalid size %q: use 1k, 2k, or 4k", *size)
		}
		if def.Family != "pro" {
			return nil, errors.New("-z (size) requires a pro model")
		}
		imageSize = normalized
	}

	return &options{
		prompt:      *prompt,
		output:      *output,
		inputs:      inputs,
		session:     *session,
		model:       pinned,
		modelID:     def.ID,
		ratio:       *ratio,
		size:        imageSize,
		force:       *force,
		title:       *title,
		author:      *author,
		description: *description,
		keywords:    *keywords,
		copyright:   *copyright,
		date:        *date,
	}, nil
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "meta":
			exitOn(runMeta(args[1:]))
			return
		case "clean":
			exitOn(runClean(args[1:]))
			return
		case "cost":
			exitOn(runCost(args[1:]))
			return
		}
	}

	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	exitOn(runGenerate(context.Background(), opts))
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, opts *options) error {
	if os.Getenv("GOOGLE_API_KEY") == "" {
		return errors.New("GOOGLE_API_KEY is not set. Get one at https://aistudio.google.com")
	}

	if _, err := mimeFromPath(opts.output); err != nil {
		return fmt.Errorf("output file %q has unsupported extension (supported: png, jpg, webp)", opts.output)
	}
	if info, err := os.Stat(filepath.Dir(opts.output)); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory %q does not exist", filepath.Dir(opts.output))
	}
	if _, err := os.Stat(opts.output); err == nil && !opts.force {
		return fmt.Errorf("output file %q already exists (use -f to overwrite)", opts.output)
	}
	for _, in := range opts.inputs {
		if _, err := os.Stat(in); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input file %q does not exist", in)
		} else if err != nil {
			return fmt.Errorf("cannot access input file %q: %v", in, err)
		}
	}

	var history []*genai.Content
	if opts.session != "" {
		var err error
		history, err = loadSession(opts.session, opts.model)
		if err != nil {
			return err
		}
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to create client: %v", err)
	}

	config := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: opts.ratio,
			ImageSize:   opts.size,
		},
	}

	chat, err := client.Chats.Create(ctx, opts.modelID, config, history)
	if err != nil {
		return fmt.Errorf("failed to create chat: %v", err)
	}

	var parts []genai.Part
	parts = append(parts, *genai.NewPartFromText(opts.prompt))
	for _, in := range opts.inputs {
		imgData, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("failed to read input image: %v", err)
		}
		mime, err := mimeFromPath(in)
		if err != nil {
			return err
		}
		parts = append(parts, genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: imgData}})
	}

	result, err := chat.SendMessage(ctx, parts...)
	if err != nil {
		return fmt.Errorf("generation failed: %v", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return errors.New("no response from model")
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil {
		reason := "unknown"
		if candidate.FinishReason != "" {
			reason = string(candidate.FinishReason)
		}
		return fmt.Errorf("generation blocked (reason: %s)", reason)
	}

	saved := false
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			fmt.Println(part.Text)
			continue
		}
		if part.InlineData == nil {
			continue
		}
		imageData, err := ensurePNG(part.InlineData.Data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "note: %v, saving as received\n", err)
			imageData = part.InlineData.Data
		}
		imageData = embedMetadata(imageData, buildRecord(opts, time.Now), buildProvenance(opts, chat.History(false)))
		if err := os.WriteFile(opts.output, imageData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %v", err)
		}
		fmt.Printf("saved %s (%d bytes)\n", opts.output, len(imageData))
		saved = true
	}
	if !saved {
		return errors.New("model returned no image data")
	}

	sess := &sessionData{
		Model:   opts.model,
		Size:    opts.size,
		History: chat.History(false),
	}
	if result.UsageMetadata != nil {
		sess.Usage = &usageData{
			PromptTokens:    result.UsageMetadata.PromptTokenCount,
			CandidateTokens: result.UsageMetadata.CandidatesTokenCount,
			TotalTokens:     result.UsageMetadata.TotalTokenCount,
		}
	}
	sessPath := sessionPath(opts.output)
	if err := writeSession(sessPath, sess); err != nil {
		return err
	}
	fmt.Printf("session: %s\n", sessPath)
	return nil
}
