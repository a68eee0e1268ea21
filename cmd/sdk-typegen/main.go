package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/blimu-dev/sdk-typegen/internal/cli"
	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/generator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "sdk-typegen",
		Short:         "Synthesize operations and types from OpenAPI documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.SetupLogging(cmd.ErrOrStderr(), verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	svc := generator.NewService()
	root.AddCommand(newGenerateCmd(svc))
	root.AddCommand(newSynthCmd(svc))
	root.AddCommand(newValidateCmd())
	return root
}

// optionFlags binds the synthesis options to command flags. Environment
// overrides apply first; flags set on the command line win.
type optionFlags struct {
	opts config.Options
}

func (f *optionFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.opts.FullRequest, "full-request", false, "Always group inputs as {body, path, query, headers}")
	fs.BoolVar(&f.opts.FullResponse, "full-response", false, "Wrap every response with status and headers")
	fs.StringSliceVar(&f.opts.OptionalHeaders, "optional-headers", nil, "Parameter names forced to optional")
	fs.BoolVar(&f.opts.PropsOptional, "props-optional", false, "Make every object property optional")
	fs.IntVar(&f.opts.Concurrency, "concurrency", 0, "Operations synthesized in parallel (0 = GOMAXPROCS)")
}

func (f *optionFlags) resolve(cmd *cobra.Command) (config.Options, error) {
	var out config.Options
	if err := out.ApplyEnv(); err != nil {
		return config.Options{}, err
	}
	fs := cmd.Flags()
	if fs.Changed("full-request") {
		out.FullRequest = f.opts.FullRequest
	}
	if fs.Changed("full-response") {
		out.FullResponse = f.opts.FullResponse
	}
	if fs.Changed("optional-headers") {
		out.OptionalHeaders = f.opts.OptionalHeaders
	}
	if fs.Changed("props-optional") {
		out.PropsOptional = f.opts.PropsOptional
	}
	if fs.Changed("concurrency") {
		out.Concurrency = f.opts.Concurrency
	}
	return out, nil
}

func newGenerateCmd(svc *generator.Service) *cobra.Command {
	var configPath string
	var singleClient string
	var fb cli.FallbackParams
	var options optionFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript declarations",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options.resolve(cmd)
			if err != nil {
				return err
			}
			return cli.RunGenerate(cmd.Context(), svc, cli.RunGenerateParams{
				ConfigPath:   configPath,
				SingleClient: singleClient,
				Fallback:     fb,
				Options:      opts,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to sdkgen.yaml config")
	cmd.Flags().StringVar(&singleClient, "client", "", "Generate only the named client from config")
	// Fallback single-client flags
	cmd.Flags().StringVar(&fb.Spec, "input", "", "OpenAPI spec file (yaml/json) or URL")
	cmd.Flags().StringVar(&fb.Type, "type", "typescript", "Client type")
	cmd.Flags().StringVar(&fb.OutDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&fb.PackageName, "package-name", "", "Package name")
	cmd.Flags().StringVar(&fb.Name, "client-name", "", "Client interface name")
	cmd.Flags().StringArrayVar(&fb.IncludeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&fb.ExcludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")
	options.register(cmd)

	return cmd
}

func newSynthCmd(svc *generator.Service) *cobra.Command {
	var p cli.RunSynthParams
	var output string
	var options optionFlags

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Print the synthesized operations and types",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options.resolve(cmd)
			if err != nil {
				return err
			}
			p.Options = opts
			if output == "" || output == "-" {
				return cli.RunSynth(cmd.Context(), svc, cmd.OutOrStdout(), p)
			}
			w, err := cli.OpenOutput(output)
			if err != nil {
				return err
			}
			defer w.Close()
			return cli.RunSynth(cmd.Context(), svc, w, p)
		},
	}

	cmd.Flags().StringVar(&p.Spec, "input", "", "OpenAPI spec file (yaml/json) or URL")
	cmd.Flags().StringVarP(&p.Format, "format", "f", cli.FormatYAML, "Output format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringArrayVar(&p.IncludeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&p.ExcludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")
	_ = cmd.MarkFlagRequired("input")
	options.register(cmd)

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json) or URL")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
