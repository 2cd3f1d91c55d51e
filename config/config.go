// Package config loads and exposes the configuration keys the core reads
// (spec.md §6). It does not parse a full driver configuration grammar —
// that remains an external collaborator's job — it only recognizes the
// keys its callers (pipeline and the cmd tools, which map them onto
// cosmology, transfer, whitenoise and grid inputs) actually consume.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the recognized setup/cosmology/random/output keys.
type Config struct {
	Setup     SetupConfig     `yaml:"setup"`
	Cosmology CosmologyConfig `yaml:"cosmology"`
	Random    RandomConfig    `yaml:"random"`
	Output    map[string]any  `yaml:"output"`

	Derived DerivedConfig `yaml:"-"`
}

// SetupConfig holds the setup/* keys.
type SetupConfig struct {
	BoxLength float64 `yaml:"boxlength"`
	ZStart    float64 `yaml:"zstart"`
	LevelMin  int     `yaml:"levelmin"`
	LevelMax  int     `yaml:"levelmax"`
	Baryons   bool    `yaml:"baryons"`
	ShiftX    float64 `yaml:"shift_x"`
	ShiftY    float64 `yaml:"shift_y"`
	ShiftZ    float64 `yaml:"shift_z"`
	DoSPH     bool    `yaml:"do_SPH"`
}

// CosmologyConfig holds the cosmology/* keys.
type CosmologyConfig struct {
	OmegaM   float64 `yaml:"Omega_m"`
	OmegaB   float64 `yaml:"Omega_b"`
	OmegaL   float64 `yaml:"Omega_L"`
	H0       float64 `yaml:"H0"`
	Sigma8   float64 `yaml:"sigma_8"`
	NSpec    float64 `yaml:"nspec"`
	TCMB     float64 `yaml:"Tcmb"`
	YHe      float64 `yaml:"YHe"`
	Gamma    float64 `yaml:"gamma"`
	WDMMass  float64 `yaml:"WDMmass"`
	WDMGx    float64 `yaml:"WDMg_x"`
	OmegaHDM float64 `yaml:"Omega_HDM"`
	DegenHDM float64 `yaml:"degen_HDM"`
	AStart   float64 `yaml:"astart"`
}

// RandomSeed is a tagged union: either a numeric base seed or the name of
// an externally supplied white-noise file, per spec.md §4.4 rule 1.
type RandomSeed struct {
	Numeric  int64
	FileName string
	IsFile   bool
}

// UnmarshalYAML accepts either a YAML integer scalar or a string scalar;
// a string that parses as an integer is still treated as numeric (the
// distinction that matters downstream is filename-vs-seed).
func (s *RandomSeed) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		var n int64
		if err2 := value.Decode(&n); err2 != nil {
			return fmt.Errorf("random seed: %w", err)
		}
		s.Numeric = n
		s.IsFile = false
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		s.Numeric = n
		s.IsFile = false
		return nil
	}
	s.FileName = raw
	s.IsFile = true
	return nil
}

// RandomConfig holds the random/* keys.
type RandomConfig struct {
	Seeds    []RandomSeed `yaml:"seed"`
	CubeSize int          `yaml:"cubesize"`
}

// DerivedConfig holds values computed after loading.
type DerivedConfig struct {
	H       float64 // H0/100
	NLevels int     // LevelMax - LevelMin + 1
	FBaryon float64 // Omega_b / Omega_m
}

var global *Config

// Init loads configuration from path (embedded defaults if path == "")
// and installs it as the package-global config. Must be called before Cfg.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error — for test init() functions
// and small cmd tools that have no caller to propagate an error to.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was never called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merged over embedded
// defaults. If path is empty, only the embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	c.Derived.H = c.Cosmology.H0 / 100.0
	c.Derived.NLevels = c.Setup.LevelMax - c.Setup.LevelMin + 1
	if c.Cosmology.OmegaM != 0 {
		c.Derived.FBaryon = c.Cosmology.OmegaB / c.Cosmology.OmegaM
	}
}
