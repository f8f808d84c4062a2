package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/app"
	"github.com/zjrosen/signup/internal/config"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/tracing"
	"github.com/zjrosen/signup/internal/ui/form"
)

func init() {
	// Query the terminal background before any program starts, otherwise the
	// OSC 11 reply can race the input loop and land in the username field.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config.
const localConfigPath = ".signup/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	cfgUsed string
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:          "signup",
	Short:        "Create an account from the terminal",
	Long:         `A terminal registration form. Fill in a username, a favorite language and food, accept the terms and submit.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/signup/config.yaml)")
	rootCmd.PersistentFlags().StringP("endpoint", "e", "",
		"registration endpoint URL")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write a debug log to log_file")

	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	cfg, cfgUsed, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads configuration into v. Lookup order:
//  1. explicit path (--config)
//  2. .signup/config.yaml (current directory)
//  3. ~/.config/signup/config.yaml (user config)
//
// A missing file is not an error; defaults and SIGNUP_* variables still apply.
func loadConfig(v *viper.Viper, path string) (config.Config, string, error) {
	setDefaults(v)
	v.SetEnvPrefix("SIGNUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "signup"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "No config file, using defaults")
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	return c, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("ui.show_footer", d.UI.ShowFooter)
	v.SetDefault("ui.width", d.UI.Width)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// session holds what every registering command needs.
type session struct {
	client   *api.Client
	provider *tracing.Provider
	closeLog func()
}

// openSession validates c, starts logging and tracing, and builds the client.
func openSession(c config.Config) (*session, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &session{closeLog: func() {}}
	if c.Debug {
		closeLog, err := log.Init(c.LogFile)
		if err != nil {
			return nil, err
		}
		s.closeLog = closeLog
		level, err := log.ParseLevel(c.LogLevel)
		if err != nil {
			s.closeLog()
			return nil, err
		}
		log.SetMinLevel(level)
		log.Info(log.CatConfig, "Configuration loaded", "file", cfgUsed, "endpoint", c.Endpoint)
	}

	provider, err := tracing.NewProvider(c.Tracing.Provider())
	if err != nil {
		s.closeLog()
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	s.provider = provider

	client, err := api.NewClient(c.Endpoint, api.WithTracer(provider.Tracer()))
	if err != nil {
		s.close()
		return nil, err
	}
	s.client = client
	return s, nil
}

func (s *session) close() {
	if err := s.provider.Shutdown(context.Background()); err != nil {
		log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
	}
	s.closeLog()
}

func runApp(cmd *cobra.Command, _ []string) error {
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == tracing.ExporterStdout {
		return errors.New("the stdout trace exporter cannot be used with the form UI; use file or otlp, or run `signup submit`")
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	zone.NewGlobal()
	model := app.New(app.Config{
		Form: form.Config{
			Registrar: s.client,
			Width:     cfg.UI.Width,
			Context:   ctx,
		},
		ShowFooter: cfg.UI.ShowFooter,
		Context:    ctx,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
