package main

import (
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amasbarry223/blasira-admin/internal/config"
	"github.com/amasbarry223/blasira-admin/internal/platform/logging"
)

// cobra annotation keys
const (
	annotationRoute = "route"
	annotationNoApp = "noapp"
)

type rootOptions struct {
	env        string
	configDir  string
	apiURL     string
	jsonOutput bool
	debug      bool
}

type cli struct {
	opts   rootOptions
	out    io.Writer
	errOut io.Writer
	conf   config.Config
	app    *app
	// overridable in tests
	openApp func(config.Config) (*app, error)
	prompt  promptFunc
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:     out,
		errOut:  errOut,
		openApp: openApp,
		prompt:  huhPrompt,
	}
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		log.Warn().Err(err).Msg("[CLI] failed to close storage")
	}
	c.app = nil
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "blasiractl",
		Short: "Blasira back-office client",
		Long: `blasiractl signs an administrator in to the Blasira API and calls the back-office endpoints.

The session is kept in a local SQLite file (storage.path) and expires after session.duration.

Environment Variables:
  NEXT_PUBLIC_API_URL   Backend API URL (overrides api.base_url)
  BLASIRA_*             Any configuration key, e.g. BLASIRA_API_TIMEOUT=5s`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.preRun,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.env, "env", goEnv, "configuration environment (development or production)")
	flags.StringVar(&c.opts.configDir, "config-dir", "config", "directory holding config.<env>.yaml")
	flags.StringVar(&c.opts.apiURL, "api-url", "", "backend API URL (overrides configuration)")
	flags.BoolVar(&c.opts.jsonOutput, "json", false, "output JSON instead of human-readable text")
	flags.BoolVar(&c.opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newSignupCmd(c),
		newWhoamiCmd(c),
		newStatsCmd(c),
		newUsersCmd(c),
		newDocumentsCmd(c),
		newVerificationsCmd(c),
		newResourceCmd(c),
		newRequestCmd(c),
		newConfigCmd(c),
	)
	return root
}

func (c *cli) preRun(cmd *cobra.Command, args []string) error {
	logging.Setup(logging.Options{Debug: c.opts.debug, Output: c.errOut})

	conf, err := config.Load(c.opts.env, c.opts.configDir)
	if err != nil {
		return err
	}
	if c.opts.apiURL != "" {
		conf.API.BaseURL = strings.TrimRight(c.opts.apiURL, "/")
	}
	c.conf = conf

	if cmd.Annotations[annotationNoApp] != "" || c.app != nil {
		return nil
	}

	a, err := c.openApp(conf)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

// guarded runs content behind the route guard of cmd.
func (c *cli) guarded(cmd *cobra.Command, content func() error) error {
	route := cmd.Annotations[annotationRoute]
	if route == "" {
		return content()
	}
	return c.app.guarded(cmd.Context(), route, content)
}

func route(path string) map[string]string {
	return map[string]string{annotationRoute: path}
}
