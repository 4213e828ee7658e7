package cmd

import (
	"fmt"
	"time"

	"github.com/Yates-Labs/postcraft/internal/webpage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	articleURL     string
	articleFile    string
	articleExport  string
	articleTimeout time.Duration
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Extract the article from a web page and generate posts from it",
	Long: `Pull the main article out of a scraped web page, then run the post
generator on it.

The page text comes from --url (downloaded and flattened to text), --file, or
stdin. The model is asked to return the article verbatim, dropping navigation,
ads and other page chrome.

Examples:
  postcraft article --url https://example.com/blog/launch
  postcraft article --file page.txt --export posts.json`,
	Args: cobra.NoArgs,
	RunE: runArticle,
}

func init() {
	rootCmd.AddCommand(articleCmd)
	articleCmd.Flags().StringVar(&articleURL, "url", "", "Fetch the page from a URL")
	articleCmd.Flags().StringVarP(&articleFile, "file", "f", "", "Read the page text from a file")
	articleCmd.Flags().StringVar(&articleExport, "export", "", "Export posts to JSON file: --export <filename>")
	articleCmd.Flags().DurationVar(&articleTimeout, "timeout", 3*time.Minute, "Overall time limit (0 disables)")
}

func runArticle(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, articleTimeout)
	defer cancel()

	var page string
	if articleURL != "" {
		fetcher := webpage.NewFetcher(logger)
		text, err := fetcher.Fetch(ctx, articleURL)
		if err != nil {
			return err
		}
		page = text
	} else {
		text, err := readInput(cmd, nil, articleFile)
		if err != nil {
			return err
		}
		page = text
	}

	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	logger.Info("Extracting article", zap.Int("page_length", len(page)))

	posts, err := orch.ExtractArticleAndGenerate(ctx, page)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if articleExport != "" {
		return handleExport(cmd.OutOrStdout(), posts, articleExport)
	}

	printPosts(cmd.OutOrStdout(), posts)
	return nil
}
