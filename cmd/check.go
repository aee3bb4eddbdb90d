package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/patlang/repat/check"
	"github.com/patlang/repat/formatter"
	"github.com/patlang/repat/internal"
	tt "github.com/patlang/repat/internal/types"
)

var (
	checkJSONOutput bool
	outPath         string
	watchMode       bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check pattern-set files for syntax and reference errors",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine := check.New(logger)

		if watchMode {
			runWatch(engine, args)
			return
		}

		runCheckProcess(ctx, logger, engine, args, checkJSONOutput, outPath)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSONOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-check pattern files whenever they change")
}

func runCheckProcess(ctx context.Context, logger *zap.Logger, engine check.Engine, paths []string, isJson bool, jsonOutput string) {
	issues, err := check.ProcessFiles(ctx, logger, engine, paths, check.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	printIssues(logger, issues, isJson, jsonOutput)

	if len(issues) > 0 {
		os.Exit(1)
	}
}

func runWatch(engine *internal.Engine, paths []string) {
	if err := engine.StartWatching(paths...); err != nil {
		logger.Error("Failed to start watching", zap.Error(err))
		os.Exit(1)
	}
	defer engine.StopWatching()

	logger.Info("watching for pattern file changes", zap.Strings("paths", paths))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func printIssues(logger *zap.Logger, issues []tt.Issue, isJson bool, jsonOutput string) {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJson {
		// text output
		for _, filename := range sortedFiles {
			fileIssues := issuesByFile[filename]
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading pattern file", zap.String("file", filename), zap.Error(err))
				continue
			}
			output := formatter.GenerateFormattedIssue(fileIssues, sourceCode)
			fmt.Println(output)
		}
	} else {
		// JSON output
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			logger.Error("Error marshalling issues to JSON", zap.Error(err))
			return
		}
		if jsonOutput == "" {
			fmt.Println(string(d))
		} else {
			f, err := os.Create(jsonOutput)
			if err != nil {
				logger.Error("Error creating JSON output file", zap.Error(err))
				return
			}
			defer f.Close()
			_, err = f.Write(d)
			if err != nil {
				logger.Error("Error writing JSON output file", zap.Error(err))
				return
			}
		}
	}
}
