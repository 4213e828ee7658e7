package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Yates-Labs/postcraft/internal/extract"
	"github.com/Yates-Labs/postcraft/internal/orchestrator"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// LipGloss signature purple/pink palette
var (
	headerColor  = lipgloss.Color("#F780FF") // Bright pink
	numberColor  = lipgloss.Color("#FF79C6") // Pink
	textColor    = lipgloss.Color("#E9E9F4") // Light purple/white
	borderColor  = lipgloss.Color("#6272A4") // Muted purple
	summaryColor = lipgloss.Color("#8BE9FD") // Cyan accent
	errorColor   = lipgloss.Color("#FF5555") // Red
	successColor = lipgloss.Color("#50FA7B") // Green
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	numberStyle  = lipgloss.NewStyle().Foreground(numberColor).Bold(true).Width(5).Align(lipgloss.Right).PaddingRight(1)
	textStyle    = lipgloss.NewStyle().Foreground(textColor).Width(76)
	borderStyle  = lipgloss.NewStyle().Foreground(borderColor)
	summaryStyle = lipgloss.NewStyle().Foreground(summaryColor).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
)

// readInput returns the first argument, the named file, or stdin, in that order.
func readInput(cmd *cobra.Command, args []string, file string) (string, error) {
	var content string
	switch {
	case len(args) > 0:
		content = strings.Join(args, " ")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		content = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		content = string(data)
	}

	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("no input provided: pass it as an argument, with --file, or on stdin")
	}
	return content, nil
}

func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func printPosts(w io.Writer, posts []extract.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, summaryStyle.Render("No posts could be extracted from the model output"))
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Posts:"))
	fmt.Fprintln(w, borderStyle.Render(strings.Repeat("─", 82)))
	for i, p := range posts {
		text := strings.TrimSpace(p.Text)
		if text == "" && len(p.Raw) > 0 {
			text = string(p.Raw)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			numberStyle.Render(fmt.Sprintf("%d.", i+1)),
			textStyle.Render(text),
		)
		fmt.Fprintln(w, row)
		fmt.Fprintln(w, borderStyle.Render(strings.Repeat("─", 82)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf("Total: %d posts", len(posts))))
}

func handleExport(w io.Writer, posts []extract.Post, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := orchestrator.ExportPosts(posts, string(orchestrator.FormatJSON), file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ Exported %d posts to %s", len(posts), filename)))
	return nil
}

// newOrchestrator wires the chat client into a post pipeline.
func newOrchestrator() (*orchestrator.Orchestrator, error) {
	client, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(client, cfg.OrchestratorConfig(), orchestrator.WithLogger(logger))
}
