package main

import (
	"os"

	"github.com/spf13/cobra"

	"calculator/internal/config"
	"calculator/internal/logging"
	"calculator/internal/server"
	ui "calculator/internal/ui"
	"calculator/processing/engine"
)

type options struct {
	configPath string
	modelPath  string
	engine     string
	listen     string
}

func (o *options) load() *config.Config {
	cfg := config.LoadConfigFile(o.configPath)
	if o.modelPath != "" {
		cfg.SetModelPath(o.modelPath)
	}
	if o.engine != "" {
		cfg.SetEngine(config.EngineType(o.engine))
	}
	if o.listen != "" {
		cfg.Server.Listen = o.listen
	}
	return cfg
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "calculator",
		Short: "Handwritten digit calculator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.load()
			entry := logging.Setup(cfg)

			model := engine.Load(cfg, entry)
			if model.Ready() {
				entry.WithField("engine", cfg.GetEngine()).Info("[Main] model loaded")
			}

			app := ui.CreateApp(cfg, opts.configPath, model, entry)
			app.Run()
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath, "config file")
	root.PersistentFlags().StringVarP(&opts.modelPath, "model", "m", "", "model artifact path")
	root.PersistentFlags().StringVarP(&opts.engine, "engine", "e", "", "inference engine (dense|remote)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the model to remote calculators",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.load()
			entry := logging.Setup(cfg)

			model := engine.Load(cfg, entry)
			if !model.Ready() {
				entry.WithError(model.Err).Warn("[Main] Model not loaded, serving errors only")
			}

			s := server.New(model, entry)
			defer s.Close()
			return s.Run(cfg.GetListenAddr())
		},
	}
	serve.Flags().StringVarP(&opts.listen, "listen", "l", "", "listen address")
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
