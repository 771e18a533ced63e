package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/groomlane/concierge/internal/support"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askVerbose bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the support assistant a question",
	Long: `Ask the support assistant a one-off question from the command line.

This command:
1. Embeds the question and searches the knowledge store for relevant chunks
2. Assembles the retrieved chunks into a bounded context block
3. Generates a grounded answer, or the fallback support message

Required environment variables:
  OPENAI_API_KEY     - OpenAI API key for embeddings and generation

Examples:
  concierge ask "How long does delivery to Accra take?"
  concierge ask "Do you ship outside Ghana?" --config concierge.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askVerbose, "verbose", false, "Show detailed progress")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	// Styling
	var (
		headerColor   = lipgloss.Color("#F780FF") // Bright pink
		questionColor = lipgloss.Color("#8BE9FD") // Cyan
		answerColor   = lipgloss.Color("#E9E9F4") // Light purple/white
		progressColor = lipgloss.Color("#6272A4") // Muted purple
		errorColor    = lipgloss.Color("#FF5555") // Red
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true)

	questionStyle := lipgloss.NewStyle().
		Foreground(questionColor).
		Italic(true)

	answerStyle := lipgloss.NewStyle().
		Foreground(answerColor)

	progressStyle := lipgloss.NewStyle().
		Foreground(progressColor).
		Italic(true)

	errorStyle := lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	fmt.Println()
	fmt.Println(headerStyle.Render("Question:"))
	fmt.Println(questionStyle.Render(question))
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	logger := zap.NewNop()
	if askVerbose {
		logger, _ = zap.NewDevelopment()
	}

	if askVerbose {
		fmt.Println(progressStyle.Render("→ Initializing answering pipeline..."))
	}

	service, err := support.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s Failed to create pipeline: %w", errorStyle.Render("Error:"), err)
	}
	defer service.Close()

	if askVerbose {
		fmt.Println(progressStyle.Render("→ Retrieving context and generating answer..."))
	}

	ans, err := service.Answer(ctx, question)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	fmt.Println(headerStyle.Render("Answer:"))
	fmt.Println()
	fmt.Println(answerStyle.Render(strings.TrimSpace(ans.Text)))
	fmt.Println()

	return nil
}
