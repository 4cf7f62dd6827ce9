package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"airesume/internal/render"
	"airesume/internal/schemas"
	"airesume/internal/types"
)

var (
	renderOutput string
	renderTheme  string
)

var renderCmd = &cobra.Command{
	Use:   "render <document.json>",
	Short: "Render a document file without starting the server",
	Long: `Render a structured document to its output format. The format is
picked from the output extension: .html and .pdf expect a resume
document, .pptx expects a presentation.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "resume.html", "Output file (.html, .pdf or .pptx)")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "Accent color, e.g. #2563eb")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var out []byte
	switch ext := strings.ToLower(filepath.Ext(renderOutput)); ext {
	case ".html":
		html, err := renderResumeHTML(raw)
		if err != nil {
			return err
		}
		out = []byte(html)

	case ".pdf":
		html, err := renderResumeHTML(raw)
		if err != nil {
			return err
		}
		out, err = render.PDF(context.Background(), html)
		if err != nil {
			return fmt.Errorf("failed to print PDF: %w", err)
		}

	case ".pptx":
		var deck types.Presentation
		if err := json.Unmarshal(raw, &deck); err != nil {
			return fmt.Errorf("invalid presentation document: %w", err)
		}
		out, err = render.PPTX(deck)
		if err != nil {
			return fmt.Errorf("failed to build PPTX: %w", err)
		}

	default:
		return fmt.Errorf("unsupported output extension: %s", ext)
	}

	if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", renderOutput, len(out))
	return nil
}

func renderResumeHTML(raw []byte) (string, error) {
	if err := schemas.ValidateResume(raw); err != nil {
		return "", err
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("invalid resume document: %w", err)
	}

	return render.HTML(doc, types.Theme{Primary: renderTheme}.Normalize())
}
