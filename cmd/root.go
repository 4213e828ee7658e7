package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yates-Labs/postcraft/internal/config"
	"github.com/Yates-Labs/postcraft/internal/llm"
	"github.com/Yates-Labs/postcraft/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

// newLLMClient is swapped out in tests.
var newLLMClient = func(c config.Config) (llm.Client, error) {
	return llm.NewOpenAIClient(c.LLMConfig())
}

var rootCmd = &cobra.Command{
	Use:   "postcraft",
	Short: "Postcraft - social post and image generation tool",
	Long: `Postcraft turns a piece of content into ready-to-publish social posts.

It asks a chat model for several candidate posts under different writing
strategies at once, salvages whatever JSON the model returned, and shuffles
the candidates together. It can also pull the article out of a web page first,
and expand a short description into an image prompt or an image.

Required environment variables:
  OPENAI_API_KEY     - OpenAI API key

A .env file in the working directory is loaded if present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		stop()
		os.Exit(1)
	}
}
