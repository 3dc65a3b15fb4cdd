package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	serverURL string

	// Ask command flags
	contextTag string
	imagePath  string
	modelName  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "assistctl",
	Short:   "Operator CLI for the Elderly Care Assistant API",
	Version: version,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show server and backend health",
	RunE:  showHealth,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the backend",
	RunE:  showModels,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question",
	Long: `Ask the assistant a question and print the guidance with its
extracted steps.

Examples:
  # Plain question
  assistctl ask "How do I make a phone call?"

  # Question about a specific app
  assistctl ask "How do I send a photo?" --context whatsapp

  # Attach a screenshot
  assistctl ask "What is on this screen?" --image screen.png`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "base URL of the assistant API")
	askCmd.Flags().StringVar(&contextTag, "context", "general", "app context (whatsapp, phone, settings, general)")
	askCmd.Flags().StringVar(&imagePath, "image", "", "path to a screenshot to attach")
	askCmd.Flags().StringVar(&modelName, "model", "", "override the model to use")

	rootCmd.AddCommand(healthCmd, modelsCmd, askCmd)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 90 * time.Second}
}

func showHealth(cmd *cobra.Command, args []string) error {
	var out struct {
		ServerStatus    string   `json:"server_status"`
		OllamaStatus    string   `json:"ollama_status"`
		AvailableModels []string `json:"available_models"`
		GemmaAvailable  bool     `json:"gemma_available"`
	}
	if err := getJSON(serverURL+"/health", &out); err != nil {
		return err
	}

	fmt.Printf("Server: %s\n", out.ServerStatus)
	fmt.Printf("Ollama: %s\n", out.OllamaStatus)
	fmt.Printf("Target family available: %v\n", out.GemmaAvailable)
	for _, m := range out.AvailableModels {
		fmt.Printf("  - %s\n", m)
	}
	return nil
}

func showModels(cmd *cobra.Command, args []string) error {
	var out struct {
		Models      []string `json:"models"`
		Recommended string   `json:"recommended"`
	}
	if err := getJSON(serverURL+"/api/models", &out); err != nil {
		return err
	}

	for _, m := range out.Models {
		marker := " "
		if m == out.Recommended {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, m)
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	payload := map[string]string{
		"query":   args[0],
		"context": contextTag,
	}
	if modelName != "" {
		payload["model"] = modelName
	}
	if imagePath != "" {
		raw, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		payload["image"] = base64.StdEncoding.EncodeToString(raw)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := newHTTPClient().Post(serverURL+"/api/analyze", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Guidance  string   `json:"guidance"`
		Steps     []string `json:"steps"`
		ModelUsed string   `json:"model_used"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Println(out.Guidance)
	if len(out.Steps) > 0 {
		fmt.Println()
		fmt.Println("Steps:")
		for i, s := range out.Steps {
			fmt.Printf("  %d. %s\n", i+1, s)
		}
	}
	fmt.Printf("\n(model: %s)\n", out.ModelUsed)
	return nil
}

func getJSON(url string, out any) error {
	resp, err := newHTTPClient().Get(url)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
