package apla

import (
	"fmt"
	"strings"

	"github.com/magiconair/properties"
)

// CONFIG_FILE is looked up in the working directory when no file is given.
const CONFIG_FILE = "aplac.properties"

type Config struct {
	SourceExt string `properties:"source.ext,default=.apla"`
	OutDir    string `properties:"out.dir,default=./out"`
	TabWidth  int    `properties:"lexer.tab_width,default=4"`
	FailFast  bool   `properties:"check.fail_fast,default=false"`
	MaxErrors int    `properties:"check.max_errors,default=25"`
	EmitMain  bool   `properties:"emit.main,default=true"`
}

func DefaultConfig() Config {
	cfg, err := ParseConfig("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return decodeConfig(p)
}

func ParseConfig(text string) (Config, error) {
	p, err := properties.LoadString(text)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return decodeConfig(p)
}

func decodeConfig(p *properties.Properties) (Config, error) {
	var cfg Config
	if err := p.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !strings.HasPrefix(c.SourceExt, ".") {
		return fmt.Errorf("config: source.ext must start with a dot, got %q", c.SourceExt)
	}
	if c.TabWidth < 1 {
		return fmt.Errorf("config: lexer.tab_width must be positive, got %d", c.TabWidth)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("config: check.max_errors must not be negative, got %d", c.MaxErrors)
	}
	if c.OutDir == "" {
		return fmt.Errorf("config: out.dir must not be empty")
	}
	return nil
}

// NewChecker returns a checker that collects errors as configured.
func (c Config) NewChecker() *Checker {
	checker := NewChecker()
	checker.FailFast = c.FailFast
	checker.MaxErrors = c.MaxErrors
	return checker
}

func (c Config) LowerOptions() LowerOptions {
	return LowerOptions{EmitMain: c.EmitMain}
}
