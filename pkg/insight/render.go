package insight

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
)

// DefaultWordWrap is the terminal wrap width.
const DefaultWordWrap = 80

var htmlMarkdown = goldmark.New()

// HTML converts a block's markdown to an HTML fragment.
func HTML(block Block) (string, error) {
	source := block.Markdown()
	if source == "" {
		return "", fmt.Errorf("unknown insight block %q", block)
	}

	var buffer bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("failed to render %s insights: %w", block, err)
	}
	return buffer.String(), nil
}

// TerminalRenderer renders insight blocks with glamour.
type TerminalRenderer struct {
	renderer *glamour.TermRenderer
}

// NewTerminalRenderer creates a renderer. An empty style selects the
// terminal's light or dark theme automatically; "notty" produces plain text.
func NewTerminalRenderer(style string, wordWrap int) (*TerminalRenderer, error) {
	if wordWrap <= 0 {
		wordWrap = DefaultWordWrap
	}

	styleOption := glamour.WithAutoStyle()
	if style != "" {
		styleOption = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return &TerminalRenderer{renderer: renderer}, nil
}

// Render returns the block formatted for a terminal.
func (terminalRenderer *TerminalRenderer) Render(block Block) (string, error) {
	source := block.Markdown()
	if source == "" {
		return "", fmt.Errorf("unknown insight block %q", block)
	}

	rendered, err := terminalRenderer.renderer.Render(source)
	if err != nil {
		return "", fmt.Errorf("failed to render %s insights: %w", block, err)
	}
	return rendered, nil
}
