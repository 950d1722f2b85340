package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AltairaLabs/speechkit/pkg/config"
	"github.com/AltairaLabs/speechkit/runtime/logger"
)

const envPrefix = "SPEECHKIT"

// Setting keys shared by flags, environment variables and the config overlay.
const (
	keyConfig        = "config"
	keyEnvFile       = "env_file"
	keyVerbose       = "verbose"
	keySTTBaseURL    = "stt.base_url"
	keySTTAPIKey     = "stt.api_key"
	keyTTSBaseURL    = "tts.base_url"
	keyTTSAPIKey     = "tts.api_key"
	keyArtifactsDir  = "artifacts.dir"
	keyLogLevel      = "log.level"
	keyLogFormat     = "log.format"
	keyOTLPEndpoint  = "telemetry.otlp_endpoint"
	keyServerAddr    = "server.addr"
	defaultEnvFile   = ".env"
	defaultConfigEnv = "SPEECHKIT_CONFIG"
)

// legacyEnv lists the unprefixed variable names older deployments export.
var legacyEnv = map[string]string{
	keySTTBaseURL: "STT_BASE_URL",
	keySTTAPIKey:  "STT_API_KEY",
	keyTTSBaseURL: "TTS_BASE_URL",
	keyTTSAPIKey:  "TTS_API_KEY",
}

var (
	settingsViper = newViper()
	settings      *config.SpeechConfig
)

func newViper() *viper.Viper {
	vp := viper.New()
	vp.SetEnvPrefix(envPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	for key, legacy := range legacyEnv {
		_ = vp.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy)
	}
	return vp
}

func registerGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to a SpeechConfig manifest (env "+defaultConfigEnv+")")
	flags.String("env-file", defaultEnvFile, "dotenv file loaded before reading the environment")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("stt-base-url", "", "Base URL of the STT service")
	flags.String("stt-api-key", "", "API key of the STT service")
	flags.String("tts-base-url", "", "Base URL of the TTS service")
	flags.String("tts-api-key", "", "API key of the TTS service")
	flags.String("artifacts-dir", "", "Directory for generated audio (local backend)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("otlp-endpoint", "", "OTLP/HTTP endpoint for traces; empty disables export")

	bind := map[string]string{
		keyConfig:       "config",
		keyEnvFile:      "env-file",
		keyVerbose:      "verbose",
		keySTTBaseURL:   "stt-base-url",
		keySTTAPIKey:    "stt-api-key",
		keyTTSBaseURL:   "tts-base-url",
		keyTTSAPIKey:    "tts-api-key",
		keyArtifactsDir: "artifacts-dir",
		keyLogLevel:     "log-level",
		keyLogFormat:    "log-format",
		keyOTLPEndpoint: "otlp-endpoint",
	}
	for key, flag := range bind {
		_ = settingsViper.BindPFlag(key, flags.Lookup(flag))
	}
}

// loadSettings resolves the configuration once per process and configures logging.
func loadSettings() error {
	if err := loadEnvFile(settingsViper.GetString(keyEnvFile)); err != nil {
		return err
	}
	cfg, err := resolveConfig(settingsViper)
	if err != nil {
		return err
	}
	logger.Configure(cfg.Spec.Logging.LoggerSpec())
	if settingsViper.GetBool(keyVerbose) {
		logger.SetVerbose(true)
	}
	settings = cfg
	return nil
}

// loadEnvFile loads a dotenv file without overriding variables already set.
// A missing default file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !(path == defaultEnvFile && errors.Is(err, fs.ErrNotExist)) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// resolveConfig reads the manifest named by the config setting, or starts
// from defaults, then overlays flags and environment variables.
func resolveConfig(vp *viper.Viper) (*config.SpeechConfig, error) {
	var (
		cfg *config.SpeechConfig
		err error
	)
	if path := vp.GetString(keyConfig); path != "" {
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	spec := &cfg.Spec
	overlay := []struct {
		key string
		dst *string
	}{
		{keySTTBaseURL, &spec.STT.BaseURL},
		{keySTTAPIKey, &spec.STT.APIKey},
		{keyTTSBaseURL, &spec.TTS.BaseURL},
		{keyTTSAPIKey, &spec.TTS.APIKey},
		{keyArtifactsDir, &spec.Artifacts.Local.Dir},
		{keyLogLevel, &spec.Logging.DefaultLevel},
		{keyLogFormat, &spec.Logging.Format},
		{keyOTLPEndpoint, &spec.Telemetry.OTLPEndpoint},
		{keyServerAddr, &spec.Server.Addr},
	}
	for _, o := range overlay {
		if vp.IsSet(o.key) {
			*o.dst = vp.GetString(o.key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}
