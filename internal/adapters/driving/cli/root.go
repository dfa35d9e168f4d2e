package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driving"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services wired by SetServices or the bootstrap function.
var (
	checkService    driving.PlagiarismChecker
	checkServiceErr error
	feedbackService driving.FeedbackService
	settingsService driving.SettingsService
	site            = domain.DefaultSite
	watchConfig     func(ctx context.Context) error
	closeServices   func() error

	bootstrap     func(configDir string) (*Services, error)
	servicesReady bool
)

// Services holds everything the commands need.
type Services struct {
	// Checker runs plagiarism checks. Nil when it could not be built.
	Checker driving.PlagiarismChecker

	// CheckerErr explains why Checker is nil, e.g. missing API keys.
	CheckerErr error

	// Feedback records reviewer verdicts.
	Feedback driving.FeedbackService

	// Settings reads and writes the configuration.
	Settings driving.SettingsService

	// Site is the protected Q&A host.
	Site string

	// Watch reloads settings on configuration changes until ctx is done.
	Watch func(ctx context.Context) error

	// Close releases pools and database handles.
	Close func() error
}

var rootCmd = &cobra.Command{
	Use:   "guttenberg",
	Short: "Find plagiarised answers on Stack Exchange sites",
	Long: `Guttenberg searches the web for near-duplicates of a Stack Exchange
answer and scores the answers it finds on the same site by code, prose
and quote similarity.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd == versionCmd {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.guttenberg)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap sets the function that builds services once flags are
// parsed. It is not called when services were set with SetServices.
func SetBootstrap(fn func(configDir string) (*Services, error)) {
	bootstrap = fn
}

// SetServices injects the services used by all commands.
func SetServices(s *Services) {
	checkService = s.Checker
	checkServiceErr = s.CheckerErr
	feedbackService = s.Feedback
	settingsService = s.Settings
	watchConfig = s.Watch
	closeServices = s.Close
	site = s.Site
	if site == "" {
		site = domain.DefaultSite
	}
	servicesReady = true
}

func initServices() error {
	if servicesReady || bootstrap == nil {
		return nil
	}
	s, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Error("closing services: %v", err)
			}
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// requireChecker returns the checker or explains why there is none.
func requireChecker() (driving.PlagiarismChecker, error) {
	if checkService != nil {
		return checkService, nil
	}
	if checkServiceErr != nil {
		if errors.Is(checkServiceErr, domain.ErrMissingCredentials) {
			return nil, fmt.Errorf("%w\nset them with: guttenberg settings set google.api_key <key>", checkServiceErr)
		}
		return nil, checkServiceErr
	}
	return nil, errors.New("check service not configured")
}

// startWatch reloads settings in the background while ctx is live.
func startWatch(ctx context.Context) {
	if watchConfig == nil {
		return
	}
	go func() {
		if err := watchConfig(ctx); err != nil {
			logger.Warn("config watch stopped: %v", err)
		}
	}()
}
