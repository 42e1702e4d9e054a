// Package config loads the process-wide runtime configuration.
//
// The configuration is resolved once at startup from defaults, an optional
// shipmate.yaml in the working directory, and SHIPMATE_* environment
// variables, in increasing order of precedence. The resulting Config value is
// immutable and passed explicitly to every component that needs it; no
// component reads configuration from globals.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SHIPMATE"

// Config holds the constants shared by the role scripts and the build
// pipeline. The session bundler serializes this value into each payload so
// the remote interpreter starts from the same configuration as the control
// host.
type Config struct {
	// ArtifactVersion is the version of the runtime artifact to provision.
	ArtifactVersion string
	// ArtifactBaseURL is the download location for released runtime artifacts.
	ArtifactBaseURL string
	// SourceURL is the download location for source archives used by the
	// build pipeline.
	SourceURL string
	// InstallDir is the directory runtime executables are unpacked into on
	// each provisioned machine.
	InstallDir string
	// LogDir is the directory daemon output is redirected into.
	LogDir string
	// ClusterFile is the path of the JSON cluster-membership descriptor
	// written on every machine.
	ClusterFile string
	// BuildImage is the container image used by the containerized build
	// pipeline.
	BuildImage string
}

// Load resolves the configuration from defaults, an optional shipmate.yaml in
// the working directory, and SHIPMATE_* environment variables.
func Load() (Config, error) {
	vip := viper.New()

	vip.SetDefault("artifact.version", "0.7.0")
	vip.SetDefault("artifact.base-url", "https://artifacts.shipmate.dev/releases")
	vip.SetDefault("source.url", "https://github.com/devantler-tech/shipmate-runtime/archive/refs/tags")
	vip.SetDefault("install.dir", "/opt/shipmate")
	vip.SetDefault("log.dir", "/var/log/shipmate")
	vip.SetDefault("cluster.file", "/etc/shipmate/cluster.json")
	vip.SetDefault("build.image", "debian:bookworm-slim")

	vip.SetConfigName("shipmate")
	vip.SetConfigType("yaml")
	vip.AddConfigPath(".")

	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	err := vip.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read configuration file: %w", err)
		}
	}

	return Config{
		ArtifactVersion: vip.GetString("artifact.version"),
		ArtifactBaseURL: vip.GetString("artifact.base-url"),
		SourceURL:       vip.GetString("source.url"),
		InstallDir:      vip.GetString("install.dir"),
		LogDir:          vip.GetString("log.dir"),
		ClusterFile:     vip.GetString("cluster.file"),
		BuildImage:      vip.GetString("build.image"),
	}, nil
}

// ArtifactArchive returns the file name of the versioned runtime artifact.
func (c Config) ArtifactArchive() string {
	return fmt.Sprintf("shipmate-runtime-%s.tar.gz", c.ArtifactVersion)
}

// ArtifactURL returns the full download URL of the versioned runtime artifact.
func (c Config) ArtifactURL() string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(c.ArtifactBaseURL, "/"), c.ArtifactArchive())
}
