package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-constraintgen/pkg/gen"
	"github.com/goliatone/go-constraintgen/pkg/generator"
	"github.com/goliatone/go-constraintgen/pkg/sources/openapi"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	model := flag.String("model", "", "shape model JSON file")
	openAPIDoc := flag.String("openapi", "", "OpenAPI document path or URL")
	output := flag.String("output", "", "output directory (stdout if empty)")
	pkgName := flag.String("package", "", "generated package name (default \"model\")")
	renderer := flag.String("renderer", "", "renderer to use")
	public := flag.Bool("public", false, "export constrained and violation types")
	exceptionType := flag.String("exception-type", "", "wire error type name for the envelope helper")
	interactive := flag.Bool("interactive", false, "prompt for missing inputs")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg := Config{
		Model:                   *model,
		OpenAPI:                 *openAPIDoc,
		Output:                  *output,
		Package:                 *pkgName,
		Renderer:                *renderer,
		PublicConstrainedTypes:  *public,
		ValidationExceptionType: *exceptionType,
	}
	if *configPath != "" {
		fileCfg, err := loadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		cfg = fileCfg.merge(cfg)
	}

	if *interactive {
		if err := promptMissing(&cfg); err != nil {
			log.Fatal().Err(err).Msg("prompt")
		}
	}
	if cfg.Model == "" && cfg.OpenAPI == "" {
		log.Fatal().Msg("either -model or -openapi is required")
	}

	ctx := context.Background()
	g := generator.New(
		generator.WithLogger(log),
		generator.WithOpenAPILoader(openapi.NewLoader(openapi.WithHTTPFallback(0))),
	)

	req := generator.Request{
		ModelPath: cfg.Model,
		Renderer:  cfg.Renderer,
		Options: gen.Options{
			Package:                 cfg.Package,
			PublicConstrainedTypes:  cfg.PublicConstrainedTypes,
			ValidationExceptionType: cfg.ValidationExceptionType,
		},
	}
	if cfg.Model == "" {
		req.OpenAPI = parseSource(cfg.OpenAPI)
	}

	files, err := g.Generate(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("generate")
	}

	for _, f := range files {
		if cfg.Output == "" {
			fmt.Println(string(f.Contents))
			continue
		}
		dest := filepath.Join(cfg.Output, f.Path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			log.Fatal().Err(err).Str("path", dest).Msg("create output dir")
		}
		if err := os.WriteFile(dest, f.Contents, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", dest).Msg("write output")
		}
		log.Info().Str("path", dest).Msg("written")
	}
}

// promptMissing asks for any required value the flags and config left empty.
func promptMissing(cfg *Config) error {
	if cfg.Model == "" && cfg.OpenAPI == "" {
		var kind string
		if err := survey.AskOne(&survey.Select{
			Message: "Input kind:",
			Options: []string{"shape model", "openapi document"},
		}, &kind); err != nil {
			return err
		}
		prompt := &survey.Input{Message: "Path or URL:"}
		if kind == "shape model" {
			return survey.AskOne(prompt, &cfg.Model, survey.WithValidator(survey.Required))
		}
		if err := survey.AskOne(prompt, &cfg.OpenAPI, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if cfg.Package == "" {
		if err := survey.AskOne(&survey.Input{Message: "Package name:", Default: "model"}, &cfg.Package); err != nil {
			return err
		}
	}
	return nil
}

func parseSource(raw string) openapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return openapi.SourceFromURL(path)
	}
	return openapi.SourceFromFile(path)
}
