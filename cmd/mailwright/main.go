// Package main provides the mailwright command line interface: a
// cross-provider email composition agent driven by natural language
// instructions, runnable as a one-shot command, an interactive prompt,
// or an HTTP API server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mailwright/mailwright/pkg/agent"
	"github.com/mailwright/mailwright/pkg/api"
	"github.com/mailwright/mailwright/pkg/config"
	"github.com/mailwright/mailwright/pkg/logging"
)

const version = "0.1.0"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var (
	flagConfig   string
	flagProvider string
	flagHeadless bool
)

func main() {
	root := &cobra.Command{
		Use:     "mailwright",
		Short:   "Compose email through drifting web UIs from natural language",
		Version: version,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "mailwright.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&flagHeadless, "headless", false, "run browsers headless")

	sendCmd := &cobra.Command{
		Use:   "send [instruction]",
		Short: "Execute one instruction, or start an interactive prompt",
		RunE:  runSend,
	}
	sendCmd.Flags().StringVar(&flagProvider, "provider", "both", `provider: "gmail", "outlook", or "both"`)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  runServe,
	}

	root.AddCommand(sendCmd, serveCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

func loadAgent() (*agent.Agent, *config.Config, *logging.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	if flagHeadless {
		cfg.Browser.Headless = true
	}

	logger, err := logging.NewLogger("cli")
	if err != nil {
		fmt.Fprintln(os.Stderr, yellow(fmt.Sprintf("file logging unavailable: %v", err)))
	}

	ag, err := agent.New(cfg, logger)
	if err != nil {
		logger.Close()
		return nil, nil, nil, err
	}
	return ag, cfg, logger, nil
}

func runSend(cmd *cobra.Command, args []string) error {
	ag, _, logger, err := loadAgent()
	if err != nil {
		return err
	}
	defer logger.Close()
	defer ag.Close()

	ctx := signalContext()

	if len(args) > 0 {
		return executeOnce(ctx, ag, strings.Join(args, " "))
	}

	// Interactive mode
	fmt.Println(bold("Cross-Platform Email Agent"))
	fmt.Println(gray(`Example: "Send an email to john@example.com about the project deadline"`))
	fmt.Println(gray(`Type "quit" to exit`))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter instruction: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		instruction := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(instruction) {
		case "quit", "exit":
			return nil
		case "":
			continue
		}
		if err := executeOnce(ctx, ag, instruction); err != nil {
			fmt.Println(red(err.Error()))
		}
		fmt.Println("\n" + strings.Repeat("=", 50) + "\n")
	}
}

func executeOnce(ctx context.Context, ag *agent.Agent, instruction string) error {
	results, err := ag.Execute(ctx, instruction, []string{flagProvider})
	if err != nil {
		return err
	}

	for _, result := range results {
		fmt.Println(bold(result.Provider))
		for _, step := range result.Steps {
			fmt.Println(gray("  [STEP] " + step))
		}
		switch {
		case result.Simulated:
			fmt.Println(yellow("  " + result.Message))
		case result.Success:
			fmt.Println(green("  " + result.Message))
		default:
			fmt.Println(red("  " + result.Message))
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ag, cfg, logger, err := loadAgent()
	if err != nil {
		return err
	}
	defer logger.Close()
	defer ag.Close()

	server := api.NewServer(ag, cfg.Server)
	fmt.Printf("mailwright API listening on %s\n", cfg.Server.Addr)
	return server.Run(cfg.Server.Addr)
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	return ctx
}
