package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Yates-Labs/postcraft/internal/orchestrator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	postsFile      string
	strategiesFile string
	postsExport    string
	postsTimeout   time.Duration
)

var postsCmd = &cobra.Command{
	Use:   "posts [content]",
	Short: "Generate social posts from a piece of content",
	Long: `Generate candidate social posts from a piece of content.

One completion request is issued per writing strategy, all at once. By default
two strategies run (short posts and a thread), five samples each. Every sample
is salvaged for a JSON array of {"post": ...} objects and the results are
shuffled together.

Custom strategies can be supplied as a YAML list:

  - name: hook
    instruction: 'Write a one-line hook. Answer as [{"post": string}]'
    samples: 3
    temperature: 0.9

Examples:
  postcraft posts "We just released v2 with offline sync"
  postcraft posts --file notes.md --export posts.json
  cat changelog.txt | postcraft posts --strategies strategies.yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: runPosts,
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.Flags().StringVarP(&postsFile, "file", "f", "", "Read content from a file instead of arguments or stdin")
	postsCmd.Flags().StringVar(&strategiesFile, "strategies", "", "YAML file of custom writing strategies")
	postsCmd.Flags().StringVar(&postsExport, "export", "", "Export posts to JSON file: --export <filename>")
	postsCmd.Flags().DurationVar(&postsTimeout, "timeout", 2*time.Minute, "Overall time limit for the model calls (0 disables)")
}

func runPosts(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, args, postsFile)
	if err != nil {
		return err
	}

	strategies := orchestrator.DefaultStrategies()
	if strategiesFile != "" {
		f, err := os.Open(strategiesFile)
		if err != nil {
			return fmt.Errorf("failed to open strategies file: %w", err)
		}
		strategies, err = orchestrator.LoadStrategies(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, postsTimeout)
	defer cancel()

	logger.Info("Generating posts",
		zap.Int("strategies", len(strategies)),
		zap.Int("content_length", len(content)))

	posts, err := orch.GeneratePostsWith(ctx, content, strategies)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if postsExport != "" {
		return handleExport(cmd.OutOrStdout(), posts, postsExport)
	}

	printPosts(cmd.OutOrStdout(), posts)
	return nil
}
