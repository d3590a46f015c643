package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xenking/md2pptx/internal/adapters"
	"github.com/xenking/md2pptx/internal/app"
	"github.com/xenking/md2pptx/internal/domain"
)

var (
	convertTitle  string
	convertTheme  string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file.md]",
	Short: "Convert a Markdown file (or stdin) to a .pptx file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConvert,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx>",
	Short: "Print the title and texts of every slide in a presentation",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTitle, "title", "t", "", "presentation title (default \"Presentation\")")
	convertCmd.Flags().StringVar(&convertTheme, "theme", "", "theme name (default \"default\")")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default derived from the title)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
		if convertTitle == "" {
			base := filepath.Base(args[0])
			convertTitle = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}
	markdown, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}

	tool := app.NewPptTool(e.converter, e.logger)
	var text string
	for msg := range tool.Invoke(cmd.Context(), map[string]any{
		domain.ParamMarkdownContent: string(markdown),
		domain.ParamTitle:           convertTitle,
		domain.ParamTheme:           convertTheme,
	}) {
		switch msg.Type {
		case domain.ToolMessageText:
			text = msg.Text
		case domain.ToolMessageBlob:
			out := convertOutput
			if out == "" {
				out = msg.Meta.Filename
			}
			if err := os.WriteFile(out, msg.Blob, 0o644); err != nil {
				return fmt.Errorf("write deck: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", text, out)
			return nil
		}
	}
	return errors.New(text)
}

func runInspect(cmd *cobra.Command, args []string) error {
	slides, err := adapters.NewPPTXPreviewer().PreviewFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range slides {
		fmt.Fprintf(out, "%d. %s\n", s.Index, s.Title)
		for _, text := range s.Texts {
			if text == s.Title {
				continue
			}
			fmt.Fprintf(out, "   %s\n", text)
		}
	}
	return nil
}
