package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/styleseeker/client/config"
	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/internal/infrastructure/searchapi"
	"github.com/styleseeker/client/internal/usecase"
)

var searchCmd = &cobra.Command{
	Use:   "search <image>",
	Short: "Search the backend for products similar to an image",
	Long: `Search uploads one JPEG or PNG image and prints the matches in the order
the backend returned them. Use --output json or --output yaml for machine
readable output. Notices go to stderr; the exit code is non-zero when the
search fails.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: loadConfig,
	RunE:    runSearch,
}

func init() {
	searchCmd.Flags().StringP("output", "o", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format); err != nil {
		return err
	}

	file, err := loadImage(args[0])
	if err != nil {
		return err
	}

	return searchImage(cmd.Context(), cfg, file, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// searchImage runs one search for file and writes the rendered results to out.
func searchImage(ctx context.Context, cfg *config.Config, file *domain.SelectedFile, format string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client := searchapi.NewClient(cfg.SearchAPI.BaseURL, cfg.SearchAPI.Timeout)
	client.SetDebug(cfg.SearchAPI.Debug)

	controller := usecase.NewUploadController(client)
	renderer := usecase.NewResultsRenderer(cfg.SearchAPI.ImageBaseURL())

	state := domain.NewViewState()
	controller.SelectFile(state, file)

	if err := controller.SubmitSearch(ctx, state, writerNotifier{w: errOut}); err != nil {
		return err
	}

	return writeModel(out, format, renderer.Render(state.Snapshot()))
}

// imageTypes is the picker filter keyed by file extension.
var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// loadImage reads path if its extension passes the picker filter.
func loadImage(path string) (*domain.SelectedFile, error) {
	if path == "" {
		return nil, domain.ErrNoFileSelected
	}

	contentType, ok := imageTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s (accepted: %s)", domain.ErrUnsupportedImage, filepath.Base(path), strings.Join(domain.AcceptedImageTypes, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return &domain.SelectedFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output %q: use text, json or yaml", format)
	}
}

func writeModel(w io.Writer, format string, model usecase.RenderModel) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(model)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(model); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeText(w, model)
	default:
		return fmt.Errorf("unsupported output %q: use text, json or yaml", format)
	}
}

func writeText(w io.Writer, model usecase.RenderModel) error {
	if len(model.Results) == 0 {
		_, err := fmt.Fprintln(w, model.Message)
		return err
	}

	for i, result := range model.Results {
		if _, err := fmt.Fprintf(w, "%2d. %s\n    %s\n", i+1, result.Caption, result.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

// writerNotifier prints notices as "level: message" lines
type writerNotifier struct {
	w io.Writer
}

func (n writerNotifier) Notify(ctx context.Context, notice domain.Notice) {
	fmt.Fprintf(n.w, "%s: %s\n", notice.Level, notice.Message)
}
