package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/warpgrep/warpgrep/pkg/llm"
	"github.com/warpgrep/warpgrep/pkg/searcher"
)

// SearchOptions contains all options for the search command
type SearchOptions struct {
	repoRoot   string
	debug      bool
	jsonOutput bool
}

var searchOptions = &SearchOptions{}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one agentic search session against a repository",
	Long: `Run one search session: the query and a bounded repository tree are
handed to the model, which searches with grep/read/list_directory and
finishes by naming the relevant file sections.`,
	Args: cobra.MinimumNArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr, "\nCancellation requested, shutting down...")
			cancel()
		}()

		query, err := readQuery(args)
		if err != nil {
			return err
		}

		client, err := llm.NewClient(llm.ConfigFromViper())
		if err != nil {
			return err
		}

		s, err := searcher.New(searcher.Config{
			RepoRoot: searchOptions.repoRoot,
			Client:   client,
			Debug:    searchOptions.debug,
		})
		if err != nil {
			return err
		}

		result := s.Search(ctx, query)

		if searchOptions.jsonOutput {
			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
		} else {
			printResult(result)
		}

		if !result.Success {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchOptions.repoRoot, "repo", "r", ".", "repository root to search")
	searchCmd.Flags().BoolVar(&searchOptions.debug, "debug", false, "enable verbose per-turn diagnostics")
	searchCmd.Flags().BoolVar(&searchOptions.jsonOutput, "json", false, "emit the result as JSON")
}

// readQuery takes the query from args, stdin when piped, or both.
func readQuery(args []string) (string, error) {
	stat, _ := os.Stdin.Stat()
	isPipe := (stat.Mode() & os.ModeCharDevice) == 0

	if isPipe {
		stdinBytes, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		stdinContent := strings.TrimSpace(string(stdinBytes))
		if len(args) > 0 {
			return strings.Join(args, " ") + "\n" + stdinContent, nil
		}
		return stdinContent, nil
	}

	if len(args) == 0 {
		return "", fmt.Errorf("no query provided")
	}
	return strings.Join(args, " "), nil
}

func printResult(result *searcher.Result) {
	if !result.Success {
		color.Red("search failed after %d turn(s): %s", result.Turns, result.Error)
		return
	}

	color.Green("%s", result.Summary)
	for _, c := range result.Contexts {
		header := c.File
		if c.Lines != "" {
			header += ":" + c.Lines
		}
		color.Yellow("\n--- %s ---", header)
		fmt.Println(c.Content)
	}
}
