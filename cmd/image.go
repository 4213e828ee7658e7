package cmd

import (
	"fmt"
	"time"

	"github.com/Yates-Labs/postcraft/internal/studio"
	"github.com/spf13/cobra"
)

var (
	imageBase64  bool
	imageTimeout time.Duration
)

var imagePromptCmd = &cobra.Command{
	Use:   "image-prompt [description]",
	Short: "Expand a short description into a detailed image prompt",
	Long: `Expand a short description and style into a long, descriptive prompt for an
image model.

Examples:
  postcraft image-prompt "a lighthouse at dusk, realistic"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImagePrompt,
}

var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "Render an image from a prompt",
	Long: `Render one image from a prompt and print its URL, or its base64 payload
with --b64.

Examples:
  postcraft image "A lighthouse at dusk, shot on 35mm film"
  postcraft image "Flat vector logo of a fox" --b64 > fox.b64`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImage,
}

func init() {
	rootCmd.AddCommand(imagePromptCmd)
	rootCmd.AddCommand(imageCmd)
	imagePromptCmd.Flags().DurationVar(&imageTimeout, "timeout", 2*time.Minute, "Time limit for the model call (0 disables)")
	imageCmd.Flags().DurationVar(&imageTimeout, "timeout", 2*time.Minute, "Time limit for the model call (0 disables)")
	imageCmd.Flags().BoolVar(&imageBase64, "b64", false, "Print the base64 payload instead of a URL")
}

func newStudio() (*studio.Studio, error) {
	client, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}
	return studio.New(client, cfg.StudioConfig(), logger)
}

func runImagePrompt(cmd *cobra.Command, args []string) error {
	description, err := readInput(cmd, args, "")
	if err != nil {
		return err
	}

	s, err := newStudio()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, imageTimeout)
	defer cancel()

	prompt, err := s.GenerateImagePrompt(ctx, description)
	if err != nil {
		return err
	}
	if prompt == "" {
		fmt.Fprintln(cmd.OutOrStdout(), summaryStyle.Render("The model returned no prompt"))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render("Image prompt:"))
	fmt.Fprintln(out, textStyle.Render(prompt))
	return nil
}

func runImage(cmd *cobra.Command, args []string) error {
	prompt, err := readInput(cmd, args, "")
	if err != nil {
		return err
	}

	s, err := newStudio()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, imageTimeout)
	defer cancel()

	result, err := s.GenerateImage(ctx, prompt, !imageBase64)
	if err != nil {
		return err
	}
	if result == "" {
		fmt.Fprintln(cmd.OutOrStdout(), summaryStyle.Render("The model returned no image"))
		return nil
	}

	// Raw output so it can be piped
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
