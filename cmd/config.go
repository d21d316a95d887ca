package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ColumnConfig struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	Tooltip string `yaml:"tooltip,omitempty" json:"tooltip,omitempty"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
	Width   int    `yaml:"width,omitempty" json:"width,omitempty"`
}

type DecoderConfig struct {
	UnknownOptions string `yaml:"unknownOptions" json:"unknownOptions"`
	MaxBlockLength uint32 `yaml:"maxBlockLength" json:"maxBlockLength"`
}

type PacketsConfig struct {
	TimeFormat string          `yaml:"timeFormat" json:"timeFormat"`
	Columns    []*ColumnConfig `yaml:"columns" json:"columns"`
}

type BrowseConfig struct {
	MaxPayload int `yaml:"maxPayload" json:"maxPayload"`
}

type Config struct {
	Decoder DecoderConfig `yaml:"decoder" json:"decoder"`
	Packets PacketsConfig `yaml:"packets" json:"packets"`
	Browse  BrowseConfig  `yaml:"browse" json:"browse"`
}

var (
	//go:embed config.yaml
	rawConfig []byte
	cfg       Config
)

// LoadConfig loads the embedded defaults then, when path is set, the keys of that file on top of them.
func LoadConfig(path string) error {
	cfg = Config{}
	if err := yaml.Unmarshal(rawConfig, &cfg); err != nil {
		return fmt.Errorf("can't parse embedded config: %w", err)
	}
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("can't read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return fmt.Errorf("can't parse config file %s: %w", path, err)
	}
	return nil
}

// defaultColumns returns the ids of the packet columns shown when --columns is not set.
func defaultColumns() []string {
	var ids []string
	for _, c := range cfg.Packets.Columns {
		if c.Default {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func columnConfig(id string) *ColumnConfig {
	for _, c := range cfg.Packets.Columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}
