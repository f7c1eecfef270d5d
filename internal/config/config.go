package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lwjgl3ify-tools/clientgen/internal/branding"
	"github.com/spf13/viper"
)

const fileType = "yaml"

// Settings holds every knob a generation run reads.
type Settings struct {
	Location        string        `mapstructure:"location"`
	UseDirtySource  bool          `mapstructure:"use_dirty_source"`
	Template        string        `mapstructure:"template"`
	LibrariesDir    string        `mapstructure:"libraries_dir"`
	OutDir          string        `mapstructure:"out_dir"`
	PatchDir        string        `mapstructure:"patch_dir"`
	ExcludedPatches []string      `mapstructure:"excluded_patches"`
	Mavens          []string      `mapstructure:"mavens"`
	IDPrefix        string        `mapstructure:"id_prefix"`
	Project         string        `mapstructure:"project"`
	ForgePatches    ForgePatches  `mapstructure:"forge_patches"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
}

// ForgePatches locates the aggregated forge patches jar published per tag.
type ForgePatches struct {
	Repository string `mapstructure:"repository"`
	Group      string `mapstructure:"group"`
	Artifact   string `mapstructure:"artifact"`
	Classifier string `mapstructure:"classifier"`
}

// FilePath returns the default config file path inside workDir.
func FilePath(workDir string) string {
	return filepath.Join(workDir, branding.ConfigName()+"."+fileType)
}

// Load reads settings into v and returns the decoded result. An explicit
// configFile must exist; the default clientgen.yaml in workDir is optional.
func Load(v *viper.Viper, workDir, configFile string) (*Settings, error) {
	SetDefaults(v)

	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	} else {
		path := FilePath(workDir)
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// PatchDirPath returns the patch directory, resolved against Location when relative.
func (s *Settings) PatchDirPath() string {
	if filepath.IsAbs(s.PatchDir) {
		return s.PatchDir
	}
	return filepath.Join(s.Location, s.PatchDir)
}

// Validate reports settings that would make a run meaningless.
func (s *Settings) Validate() error {
	var errs []error
	if s.Location == "" {
		errs = append(errs, errors.New("location must not be empty"))
	}
	if s.Template == "" {
		errs = append(errs, errors.New("template must not be empty"))
	}
	if len(s.Mavens) == 0 {
		errs = append(errs, errors.New("at least one maven repository is required"))
	}
	if s.IDPrefix == "" || s.Project == "" {
		errs = append(errs, errors.New("id_prefix and project must be set"))
	}
	if s.ForgePatches.Repository == "" || s.ForgePatches.Group == "" || s.ForgePatches.Artifact == "" {
		errs = append(errs, errors.New("forge_patches repository, group and artifact must be set"))
	}
	if s.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("http_timeout must not be negative, got %s", s.HTTPTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Settings) normalize() {
	s.Location = strings.TrimSpace(s.Location)
	s.Template = strings.TrimSpace(s.Template)

	mavens := make([]string, 0, len(s.Mavens))
	for _, m := range s.Mavens {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		mavens = append(mavens, withTrailingSlash(m))
	}
	s.Mavens = mavens

	if s.ForgePatches.Repository != "" {
		s.ForgePatches.Repository = withTrailingSlash(strings.TrimSpace(s.ForgePatches.Repository))
	}
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
