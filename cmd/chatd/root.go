package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chatd/internal/config"
)

const rootLongDesc string = `chatd serves chat completions from a local GGUF model.

The model is loaded on the first /chat request and kept for the life of
the process. Settings come from flags, then the environment (including an
optional .env file), then an optional config file, then built-in defaults.

Examples:
  chatd --model ~/models/ursa_minor-q8_0.gguf --port 8000
  chatd --config chatd.yaml
  MODEL_PATH=/models/m.gguf chatd check`

// flagValues holds the raw flag values; only flags the user set override
// lower-precedence sources.
type flagValues struct {
	configPath    string
	envFile       string
	modelPath     string
	contextSize   int
	threads       int
	batchSize     int
	gpuLayers     int
	host          string
	port          int
	logLevel      string
	logFormat     string
	corsOrigins   string
	maxQueueDepth int
	maxWait       time.Duration
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&flagValues{})
}

func buildRootCmd(fv *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chatd",
		Short:         "Chat completion server for a local LLM",
		Long:          rootLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&fv.configPath, "config", "c", "", "Path to a .yaml, .json or .toml config file")
	pf.StringVar(&fv.envFile, "env-file", ".env", "Path to a .env file (ignored if missing)")
	pf.StringVarP(&fv.modelPath, "model", "m", "", "GGUF model file, or a directory containing one (env MODEL_PATH)")
	pf.IntVar(&fv.contextSize, "ctx", 0, "Context window in tokens (env N_CTX)")
	pf.IntVar(&fv.threads, "threads", 0, "CPU threads for inference (env N_THREADS)")
	pf.IntVar(&fv.batchSize, "batch", 0, "Prompt batch size (env N_BATCH)")
	pf.IntVar(&fv.gpuLayers, "gpu-layers", 0, "Layers to offload to the GPU (env N_GPU_LAYERS)")
	pf.StringVar(&fv.host, "host", "", "Listen host (env HOST)")
	pf.IntVarP(&fv.port, "port", "p", 0, "Listen port (env PORT)")
	pf.StringVar(&fv.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (env CHATD_LOG_LEVEL)")
	pf.StringVar(&fv.logFormat, "log-format", "", "Log format: json|console (env CHATD_LOG_FORMAT)")
	pf.StringVar(&fv.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; empty disables CORS (env CHATD_CORS_ORIGINS)")
	pf.IntVar(&fv.maxQueueDepth, "max-queue-depth", 0, "Maximum admitted generations, in flight plus waiting (env CHATD_MAX_QUEUE_DEPTH)")
	pf.DurationVar(&fv.maxWait, "max-wait", 0, "Maximum wait for the generation slot; 0 waits until the client gives up (env CHATD_MAX_WAIT)")

	cmd.AddCommand(newCheckCmd(fv))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// resolveConfig layers defaults, config file, environment and flags.
func resolveConfig(cmd *cobra.Command, fv *flagValues) (config.Config, error) {
	cfg := config.Defaults()
	if fv.configPath != "" {
		fc, err := config.Load(fv.configPath)
		if err != nil {
			return cfg, fmt.Errorf("could not load config %s: %w", fv.configPath, err)
		}
		cfg = cfg.Merge(fc)
	}
	if err := config.LoadDotEnv(fv.envFile); err != nil {
		return cfg, err
	}
	cfg, err := cfg.FromEnv(os.LookupEnv)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.ModelPath = fv.modelPath
	}
	if flags.Changed("ctx") {
		cfg.ContextSize = fv.contextSize
	}
	if flags.Changed("threads") {
		cfg.Threads = fv.threads
	}
	if flags.Changed("batch") {
		cfg.BatchSize = fv.batchSize
	}
	if flags.Changed("gpu-layers") {
		cfg.GPULayers = fv.gpuLayers
	}
	if flags.Changed("host") {
		cfg.Host = fv.host
	}
	if flags.Changed("port") {
		cfg.Port = fv.port
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fv.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = fv.logFormat
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins = config.SplitCSV(fv.corsOrigins)
	}
	if flags.Changed("max-queue-depth") {
		cfg.MaxQueueDepth = fv.maxQueueDepth
	}
	if flags.Changed("max-wait") {
		cfg.MaxWait = config.Duration(fv.maxWait)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
