package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Document is the JSON contract handed to the external renderer on stdin.
// The renderer writes the finished PDF to the path passed as its last
// argument.
type Document struct {
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Contact  string  `json:"contact"`
	Date     string  `json:"date"`
	MaxItems int     `json:"max_items"`
	Orders   []Order `json:"orders"`
}

// Renderer turns an order document into a PDF on disk.
type Renderer interface {
	Render(ctx context.Context, doc Document, outputPath string) error
}

// CommandRenderer shells out to the configured render command. The command
// receives the document kind and output path as arguments and the document
// JSON on stdin.
type CommandRenderer struct {
	command string
}

// NewCommandRenderer builds a renderer around a configured command line.
func NewCommandRenderer(command string) *CommandRenderer {
	return &CommandRenderer{command: strings.TrimSpace(command)}
}

func (r *CommandRenderer) Render(ctx context.Context, doc Document, outputPath string) error {
	fields := strings.Fields(r.command)
	if len(fields) == 0 {
		return errors.New("render command not configured")
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode render document: %w", err)
	}

	args := append(fields[1:], doc.Kind, outputPath)
	cmd := commandContext(ctx, fields[0], args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(payload)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("render %s: %w: %s", doc.Kind, err, detail)
		}
		return fmt.Errorf("render %s: %w", doc.Kind, err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("render %s: command succeeded but %s is missing", doc.Kind, outputPath)
	}
	return nil
}

var _ Renderer = (*CommandRenderer)(nil)
