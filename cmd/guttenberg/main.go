package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/guttenberg/internal/adapters/driven/config/file"
	"github.com/custodia-labs/guttenberg/internal/adapters/driven/search/google"
	"github.com/custodia-labs/guttenberg/internal/adapters/driven/similarity"
	"github.com/custodia-labs/guttenberg/internal/adapters/driven/stackexchange"
	"github.com/custodia-labs/guttenberg/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/guttenberg/internal/adapters/driving/cli"
	"github.com/custodia-labs/guttenberg/internal/core/services"
	"github.com/custodia-labs/guttenberg/internal/logger"
	"github.com/custodia-labs/guttenberg/internal/normalisers/post"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(Version)
	cli.SetBootstrap(func(configDir string) (*cli.Services, error) {
		return bootstrap(ctx, configDir)
	})

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

func bootstrap(ctx context.Context, configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	settingsSvc := services.NewSettingsService(configStore)

	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, err
	}

	out := &cli.Services{
		Feedback: services.NewFeedbackService(store.FeedbackStore()),
		Settings: settingsSvc,
	}

	checkSvc, err := buildChecker(ctx, configStore, settingsSvc)
	if err != nil {
		out.CheckerErr = err
	} else {
		out.Checker = checkSvc
		out.Site = checkSvc.Settings().Site
	}

	out.Watch = func(ctx context.Context) error {
		return configStore.Watch(ctx, func() {
			if checkSvc == nil {
				return
			}
			settings, err := settingsSvc.Matcher()
			if err != nil {
				logger.Warn("ignoring config change: %v", err)
				return
			}
			if err := checkSvc.Reload(settings); err != nil {
				logger.Warn("ignoring config change: %v", err)
				return
			}
			logger.Info("reloaded settings from %s", configStore.Path())
		})
	}
	out.Close = func() error {
		if checkSvc != nil {
			checkSvc.Close()
		}
		return store.Close()
	}
	return out, nil
}

func buildChecker(ctx context.Context, configStore *file.ConfigStore, settingsSvc *services.SettingsService) (*services.CheckService, error) {
	settings, err := settingsSvc.Matcher()
	if err != nil {
		return nil, err
	}

	provider, err := google.NewProvider(ctx, google.Config{
		APIKey: configStore.GetString(services.KeyGoogleAPIKey),
		CX:     configStore.GetString(services.KeyGoogleCX),
	})
	if err != nil {
		return nil, err
	}

	lookup := stackexchange.NewClient(stackexchange.Config{
		Key:    configStore.GetString(services.KeyStackExchangeKey),
		Site:   configStore.GetString(services.KeyStackExchangeSite),
		Filter: configStore.GetString(services.KeyStackExchangeFilter),
	})

	checkSvc, err := services.NewCheckService(provider, lookup, post.New(), similarity.NewJaroWinkler(), settings)
	if err != nil {
		return nil, fmt.Errorf("build check service: %w", err)
	}
	return checkSvc, nil
}
