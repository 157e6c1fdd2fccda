// llmchat
//
// A command-line client for OpenAI-compatible chat-completion endpoints.
// Ask one question, or hold a multi-turn conversation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/llm-chat-client/internal/chat/client"
	"github.com/lk2023060901/llm-chat-client/internal/chat/history"
	"github.com/lk2023060901/llm-chat-client/internal/chat/types"
	"github.com/lk2023060901/llm-chat-client/internal/conf"
	"github.com/lk2023060901/llm-chat-client/internal/pkg/logger"
)

var (
	version = "dev"

	configPath   string
	baseURL      string
	model        string
	systemPrompt string
	apiKey       string
	temperature  float64
	maxTokens    int
)

var rootCmd = &cobra.Command{
	Use:   "llmchat",
	Short: "llmchat - chat with an OpenAI-compatible endpoint",
	Long: `llmchat sends chat-completion requests to any OpenAI-compatible endpoint.

  llmchat ask "What is the capital of France?"     One-shot question
  llmchat chat                                     Interactive conversation
  llmchat ask "..." --model mistral --temperature 0.2

The endpoint URL must be the full completions URL, e.g.
http://localhost:8000/v1/chat/completions`,
	Version: version,
}

var askCmd = &cobra.Command{
	Use:   "ask \"prompt\"",
	Short: "Send a single prompt and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, params, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer cli.Close()
		defer log.Sync()

		params.UserPrompt = args[0]

		text, err := cli.Complete(cmd.Context(), params, nil)
		if err != nil {
			return err
		}

		fmt.Println(text)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive multi-turn conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, params, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer cli.Close()
		defer log.Sync()

		fmt.Println("Type your message and press Enter. Type 'exit' to leave.")

		transcript := history.New()
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}

			// 历史消息不含本轮输入，Complete 自行追加当前用户消息
			prior := transcript.Messages()
			transcript.Append(history.SpeakerUser, line)

			params.UserPrompt = line
			text, err := cli.Complete(cmd.Context(), params, prior)
			if err != nil {
				transcript.Append(history.SpeakerNotice, err.Error())
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}

			transcript.Append(history.SpeakerAssistant, text)
			fmt.Println(text)
		}

		return scanner.Err()
	},
}

// setup loads config, applies flag overrides and builds the client
func setup(cmd *cobra.Command) (*client.Client, *types.Params, *logger.Logger, error) {
	cfg, err := conf.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Chat.BaseURL = baseURL
	}
	if flags.Changed("model") {
		cfg.Chat.Model = model
	}
	if flags.Changed("system") {
		cfg.Chat.SystemPrompt = systemPrompt
	}
	if flags.Changed("api-key") {
		cfg.Chat.APIKey = apiKey
	}
	if flags.Changed("temperature") {
		cfg.Chat.Temperature = temperature
	}
	if flags.Changed("max-tokens") {
		cfg.Chat.MaxTokens = maxTokens
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	cli, err := client.New(cfg.Chat.ClientConfig(), log)
	if err != nil {
		return nil, nil, nil, err
	}

	params := &types.Params{
		BaseURL:      cfg.Chat.BaseURL,
		Model:        cfg.Chat.Model,
		SystemPrompt: cfg.Chat.SystemPrompt,
		Temperature:  cfg.Chat.Temperature,
		MaxTokens:    cfg.Chat.MaxTokens,
		APIKey:       cfg.Chat.APIKey,
	}

	return cli, params, log, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "full chat completions URL")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model identifier")
	rootCmd.PersistentFlags().StringVar(&systemPrompt, "system", "", "system prompt")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "bearer API key")
	rootCmd.PersistentFlags().Float64Var(&temperature, "temperature", 0.7, "sampling temperature")
	rootCmd.PersistentFlags().IntVar(&maxTokens, "max-tokens", 2000, "max output tokens")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)

	rootCmd.SilenceUsage = true
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
