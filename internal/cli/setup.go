package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mockd/mockd/internal/config"
	"github.com/mockd/mockd/internal/loader"
	"github.com/mockd/mockd/internal/logging"
	"github.com/mockd/mockd/internal/mock"
	"github.com/mockd/mockd/internal/server"
)

// setup resolves config and logging, loads the specification, and builds a
// loaded (not started) façade. Every command goes through here.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, *server.Server, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	spec, err := loader.Load(cfg.Spec, loader.Options{
		Validate: cfg.Validate,
		Logger:   log,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	srv := server.New(cfg.Addr(), newGenerator(cfg), mockOptions(cfg), log)
	if err := srv.Load(spec); err != nil {
		return nil, nil, nil, err
	}

	return cfg, log, srv, nil
}

func newGenerator(cfg *config.Config) *mock.Generator {
	if cfg.Mock.Seed != 0 {
		return mock.NewSeededGenerator(cfg.Mock.Seed)
	}
	return mock.NewGenerator()
}

func mockOptions(cfg *config.Config) mock.Options {
	return mock.Options{
		MaxArrayLength:        cfg.Mock.MaxArrayLength,
		UseExamples:           cfg.Mock.UseExamples,
		GenerateRandomStrings: cfg.Mock.RandomStrings,
	}
}
