// Package main is the kotae CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/cli"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/prompt"
	"github.com/hyperjump/kotae/internal/server"
	"github.com/hyperjump/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if it exists; when neither exists the built-in defaults are used.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg, err := config.Default()
			if err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "classify":
		runClassify()
	case "prompt":
		runPrompt()
	case "knowledge":
		runKnowledge()
	case "data":
		runData()
	case "config":
		runConfig()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (request log, knowledge reloads, prompts)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := initializeComponents(ctx, cfg, logger, cfg.Knowledge.Cache)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if components.Cache != nil {
		if err := components.Cache.Start(ctx); err != nil {
			logger.Warn("knowledge cache not started", zap.Error(err))
		}
	}

	srv := server.NewServer(components.Orchestrator, &cfg.Server, logger, debugMode)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// buildQuestion joins all positional args with spaces so multi-word questions work the same
// with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the question to the front
// of the slice so that flag.Parse() sees them. Go's flag package stops at the first non-flag
// argument, so `kotae ask "batch status" -output json` would otherwise leave -output unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// localSetup loads config, creates a CLI logger and wires uncached components.
// It exits the process on failure.
func localSetup(configPath string, debug bool) (*Components, *config.Config, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewCLILogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(context.Background(), cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg, logger
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func printQuestionUsage(fs *flag.FlagSet, name string) {
	fmt.Fprintf(fs.Output(), "Usage: kotae %s [flags] <question>\n\n", name)
	fmt.Fprintf(fs.Output(), "The question is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL, e.g. http://localhost:3001 (empty = answer in-process)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() { printQuestionUsage(fs, "ask") }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" {
		printQuestionUsage(fs, "ask")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	var spec models.ChartSpec
	if *serverURL != "" {
		var err error
		spec, err = askViaHTTP(*serverURL, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, _, logger := localSetup(*configPath, *debug)
		defer logger.Sync()
		var err error
		spec, err = components.Orchestrator.Handle(context.Background(), question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.WriteChart(os.Stdout, spec, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if spec.IsError() {
		os.Exit(1)
	}
}

// askViaHTTP posts question to a running server. Error replies carry a chart spec body too,
// so any decodable body is returned as is.
func askViaHTTP(serverURL, question string) (models.ChartSpec, error) {
	body, err := json.Marshal(models.ChatRequest{Question: question})
	if err != nil {
		return models.ChartSpec{}, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return models.ChartSpec{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ChartSpec{}, fmt.Errorf("read response: %w", err)
	}
	var spec models.ChartSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return models.ChartSpec{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return spec, nil
}

type classifyResult struct {
	Question string           `json:"question"`
	Tag      models.DomainTag `json:"tag"`
	Keyword  string           `json:"keyword,omitempty"`
}

func runClassify() {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printQuestionUsage(fs, "classify") }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" {
		printQuestionUsage(fs, "classify")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)
	components, _, logger := localSetup(*configPath, false)
	defer logger.Sync()

	tag, keyword := components.Classifier.Explain(question)
	if format == cli.OutputJSON {
		_ = cli.WriteJSON(os.Stdout, classifyResult{Question: question, Tag: tag, Keyword: keyword})
		return
	}
	fmt.Println(describeClassification(tag, keyword))
}

func describeClassification(tag models.DomainTag, keyword string) string {
	if keyword == "" {
		return fmt.Sprintf("%s (default, no keyword matched)", tag)
	}
	return fmt.Sprintf("%s (matched %q)", tag, keyword)
}

type promptResult struct {
	RequestID string           `json:"requestId"`
	Question  string           `json:"question"`
	Tag       models.DomainTag `json:"tag"`
	Keyword   string           `json:"keyword,omitempty"`
	Records   int              `json:"records"`
	Knowledge string           `json:"knowledge"`
	Prompt    string           `json:"prompt"`
}

// runPrompt prints the prompt a question would send, without calling the model.
func runPrompt() {
	fs := flag.NewFlagSet("prompt", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() { printQuestionUsage(fs, "prompt") }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" {
		printQuestionUsage(fs, "prompt")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)
	components, _, logger := localSetup(*configPath, *debug)
	defer logger.Sync()

	p, err := components.Orchestrator.Prepare(context.Background(), question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Prompt failed: %v\n", err)
		os.Exit(1)
	}
	if format == cli.OutputJSON {
		_ = cli.WriteJSON(os.Stdout, promptResult{
			RequestID: p.RequestID,
			Question:  p.Question,
			Tag:       p.Tag,
			Keyword:   p.Keyword,
			Records:   len(p.Records),
			Knowledge: p.Knowledge,
			Prompt:    p.Prompt,
		})
		return
	}
	fmt.Print(p.Prompt)
	if !strings.HasSuffix(p.Prompt, "\n") {
		fmt.Println()
	}
}

type knowledgeEntry struct {
	Source   string `json:"source"`
	Bytes    int    `json:"bytes"`
	Selected bool   `json:"selected,omitempty"`
}

type knowledgeResult struct {
	Directory string           `json:"directory"`
	Documents []knowledgeEntry `json:"documents"`
	Retrieved string           `json:"retrieved,omitempty"`
}

func runKnowledge() {
	fs := flag.NewFlagSet("knowledge", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	question := fs.String("question", "", "show which documents this question would retrieve")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := parseFormat(*outputFormat)
	components, _, logger := localSetup(*configPath, false)
	defer logger.Sync()

	docs, err := components.Loader.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load knowledge: %v\n", err)
		os.Exit(1)
	}

	selected := map[string]bool{}
	result := knowledgeResult{Directory: components.Loader.Dir(), Documents: []knowledgeEntry{}}
	if *question != "" {
		for _, d := range components.Retriever.Select(*question, docs) {
			selected[d.Source] = true
		}
		result.Retrieved = components.Retriever.Retrieve(*question, docs)
	}
	for _, d := range docs {
		result.Documents = append(result.Documents, knowledgeEntry{
			Source:   d.Source,
			Bytes:    len(d.Content),
			Selected: selected[d.Source],
		})
	}

	if format == cli.OutputJSON {
		_ = cli.WriteJSON(os.Stdout, result)
		return
	}
	fmt.Printf("directory: %s\n", result.Directory)
	if len(result.Documents) == 0 {
		fmt.Println("no documents")
		return
	}
	for _, e := range result.Documents {
		mark := " "
		if e.Selected {
			mark = "*"
		}
		fmt.Printf("%s %-40s %10s\n", mark, e.Source, cli.FormatBytes(e.Bytes))
	}
	if *question != "" {
		fmt.Printf("\n%s\n", result.Retrieved)
	}
}

func runData() {
	fs := flag.NewFlagSet("data", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	domain := fs.String("domain", "", "domain tag to dump (default: the deployment's default tag)")
	list := fs.Bool("list", false, "list the deployment's domain tags and record counts")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := parseFormat(*outputFormat)
	components, _, logger := localSetup(*configPath, false)
	defer logger.Sync()
	gw := components.Gateway

	if *list {
		counts := make(map[models.DomainTag]int, len(gw.Tags()))
		for _, tag := range gw.Tags() {
			counts[tag] = len(gw.ListByDomain(tag))
		}
		if format == cli.OutputJSON {
			_ = cli.WriteJSON(os.Stdout, map[string]any{
				"deployment": gw.Name(),
				"default":    gw.DefaultTag(),
				"counts":     counts,
			})
			return
		}
		fmt.Printf("deployment: %s\n", gw.Name())
		for _, tag := range gw.Tags() {
			suffix := ""
			if tag == gw.DefaultTag() {
				suffix = " (default)"
			}
			fmt.Printf("  %-12s %d records%s\n", tag, counts[tag], suffix)
		}
		return
	}

	tag := gw.DefaultTag()
	if *domain != "" {
		tag = models.DomainTag(*domain)
	}
	records := gw.ListByDomain(tag)
	if format == cli.OutputJSON {
		_ = cli.WriteJSON(os.Stdout, records)
		return
	}
	text, err := prompt.FormatRecords(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to format records: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s/%s: %d records\n%s\n", gw.Name(), tag, len(records), text)
}

func runConfig() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: kotae config <init|show> [flags]")
		os.Exit(1)
	}
	switch os.Args[2] {
	case "init":
		fs := flag.NewFlagSet("config init", flag.ExitOnError)
		path := fs.String("path", "config.yaml", "where to write the config file")
		force := fs.Bool("force", false, "overwrite an existing file")
		_ = fs.Parse(os.Args[3:])

		if _, err := os.Stat(*path); err == nil && !*force {
			fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", *path)
			os.Exit(1)
		}
		cfg := &config.Config{}
		config.ApplyDefaults(cfg)
		if err := config.Save(*path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *path)
	case "show":
		fs := flag.NewFlagSet("config show", flag.ExitOnError)
		configPath := fs.String("config", defaultConfigPath, "config file path")
		_ = fs.Parse(os.Args[3:])

		cfg, resolved, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if resolved == "" {
			resolved = "(built-in defaults)"
		}
		fmt.Printf("# %s\n", resolved)
		_ = cli.WriteJSON(os.Stdout, redactConfig(cfg))
	default:
		fmt.Printf("Unknown config command: %s\n", os.Args[2])
		os.Exit(1)
	}
}

// redactConfig returns a copy of cfg with the API key masked.
func redactConfig(cfg *config.Config) config.Config {
	out := *cfg
	if out.Completion.APIKey != "" {
		out.Completion.APIKey = "****"
	}
	return out
}

func printUsage() {
	fmt.Println(`kotae - Ask questions about your production data and get charts back

Usage:
  kotae server [flags]                Start the HTTP server
  kotae ask [flags] <question>        Answer a question with a chart
  kotae classify [flags] <question>   Show which domain a question maps to
  kotae prompt [flags] <question>     Print the prompt without calling the model
  kotae knowledge [flags]             List knowledge documents
  kotae data [flags]                  Dump the records of a domain
  kotae config <init|show>            Write or show the configuration
  kotae version                       Show version
  kotae help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotae/config.yaml, or ./config.yaml if present)
  --debug            Enable debug logging

Ask Flags:
  --config string    Config file path (direct mode)
  --server string    Server URL (empty = answer in-process)
  --output string    Output format: text or json (default: text)

Knowledge Flags:
  --question string  Mark the documents a question would retrieve and print the retrieved text

Data Flags:
  --domain string    Domain tag (default: the deployment's default tag)
  --list             List domain tags and record counts

Environment:
  OLLAMA_URL, OLLAMA_MODEL, OPENAI_API_KEY, PORT (read from .env when present)

Examples:
  kotae server
  kotae ask "show batch release status by line"
  kotae ask --output json what is our equipment utilization
  kotae ask --server http://localhost:3001 "orders due this week"
  kotae classify "which machines are down"
  kotae prompt "revenue by product"
  kotae knowledge --question "profit margin by region"
  kotae data --list
  kotae config init`)
}
