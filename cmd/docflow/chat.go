package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive intake loop",
	Long: `Reads one input per line, runs it through the pipeline, and
prints the outcome. Inputs can be a path to a PDF file, a raw JSON
object, or free-form email text. Type 'exit' to quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	pipe, err := newPipeline()
	if err != nil {
		return err
	}
	defer pipe.Close()

	cmd.Println("docFlow ready. Paste a PDF path, a JSON object, or an email. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(cmd.OutOrStdout(), "You: ")
		if !scanner.Scan() {
			break // EOF ends the session like "exit"
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" {
			break
		}

		res, err := pipe.Process(context.Background(), input)
		if err != nil {
			cmd.Println("Assistant:", err)
			continue
		}
		cmd.Println("Assistant:", res.Message)
	}

	return scanner.Err()
}
