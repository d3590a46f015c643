package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	File      = "manifest.yaml"
	assetsDir = "assets"
)

// I18n is a text keyed by locale, e.g. en_US.
type I18n map[string]string

func (t I18n) String() string {
	if s, ok := t["en_US"]; ok {
		return s
	}
	for _, s := range t {
		return s
	}
	return ""
}

type Plugin struct {
	Version     string    `yaml:"version"`
	Type        string    `yaml:"type"`
	Author      string    `yaml:"author"`
	Name        string    `yaml:"name"`
	Label       I18n      `yaml:"label"`
	Description I18n      `yaml:"description"`
	Icon        string    `yaml:"icon"`
	Resource    Resource  `yaml:"resource"`
	Plugins     Plugins   `yaml:"plugins"`
	Meta        Meta      `yaml:"meta"`
	CreatedAt   time.Time `yaml:"created_at"`

	Providers []Provider `yaml:"-"`
}

type Resource struct {
	Memory int64 `yaml:"memory"`
}

type Plugins struct {
	Tools []string `yaml:"tools"`
}

type Meta struct {
	Version string   `yaml:"version"`
	Arch    []string `yaml:"arch"`
	Runner  Runner   `yaml:"runner"`
}

type Runner struct {
	Language   string `yaml:"language"`
	Version    string `yaml:"version"`
	Entrypoint string `yaml:"entrypoint"`
}

type Identity struct {
	Author      string `yaml:"author"`
	Name        string `yaml:"name"`
	Label       I18n   `yaml:"label"`
	Description I18n   `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type Provider struct {
	Identity  Identity `yaml:"identity"`
	ToolFiles []string `yaml:"tools"`

	Tools []Tool `yaml:"-"`
}

type Tool struct {
	Identity    Identity        `yaml:"identity"`
	Description ToolDescription `yaml:"description"`
	Parameters  []Parameter     `yaml:"parameters"`
}

type ToolDescription struct {
	Human I18n   `yaml:"human"`
	LLM   string `yaml:"llm"`
}

type Parameter struct {
	Name             string `yaml:"name"`
	Type             string `yaml:"type"`
	Required         bool   `yaml:"required"`
	Default          any    `yaml:"default,omitempty"`
	Form             string `yaml:"form"`
	Label            I18n   `yaml:"label"`
	HumanDescription I18n   `yaml:"human_description"`
	LLMDescription   string `yaml:"llm_description"`
}

// DefaultString returns the default value formatted as a string.
func (p Parameter) DefaultString() string {
	if p.Default == nil {
		return ""
	}
	if s, ok := p.Default.(string); ok {
		return s
	}
	return fmt.Sprint(p.Default)
}

var parameterTypes = map[string]struct{}{
	"string":       {},
	"number":       {},
	"boolean":      {},
	"select":       {},
	"secret-input": {},
	"file":         {},
}

// Load reads manifest.yaml from fsys and resolves the provider and tool files
// it references.
func Load(fsys fs.FS) (*Plugin, error) {
	var p Plugin
	if err := readYAML(fsys, File, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, errors.New("manifest: plugin name is empty")
	}
	if p.Icon != "" {
		if _, err := fs.Stat(fsys, path.Join(assetsDir, p.Icon)); err != nil {
			return nil, fmt.Errorf("manifest: icon: %w", err)
		}
	}
	if len(p.Plugins.Tools) == 0 {
		return nil, errors.New("manifest: no tool providers declared")
	}

	for _, file := range p.Plugins.Tools {
		var prov Provider
		if err := readYAML(fsys, file, &prov); err != nil {
			return nil, err
		}
		if prov.Identity.Name == "" {
			return nil, fmt.Errorf("manifest: %s: provider name is empty", file)
		}
		for _, toolFile := range prov.ToolFiles {
			var tool Tool
			if err := readYAML(fsys, toolFile, &tool); err != nil {
				return nil, err
			}
			if err := tool.validate(); err != nil {
				return nil, fmt.Errorf("manifest: %s: %w", toolFile, err)
			}
			prov.Tools = append(prov.Tools, tool)
		}
		p.Providers = append(p.Providers, prov)
	}
	return &p, nil
}

func readYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("manifest: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("manifest: parse %s: %w", name, err)
	}
	return nil
}

func (t Tool) validate() error {
	if t.Identity.Name == "" {
		return errors.New("tool name is empty")
	}
	seen := make(map[string]struct{}, len(t.Parameters))
	required := false
	for _, param := range t.Parameters {
		if param.Name == "" {
			return errors.New("parameter name is empty")
		}
		if _, dup := seen[param.Name]; dup {
			return fmt.Errorf("duplicate parameter %q", param.Name)
		}
		seen[param.Name] = struct{}{}
		if _, ok := parameterTypes[param.Type]; !ok {
			return fmt.Errorf("parameter %q: unsupported type %q", param.Name, param.Type)
		}
		required = required || param.Required
	}
	if !required {
		return fmt.Errorf("tool %q has no required parameters", t.Identity.Name)
	}
	return nil
}

func (t Tool) Parameter(name string) (Parameter, bool) {
	for _, p := range t.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Tool finds a tool by name across all providers.
func (p *Plugin) Tool(name string) (Tool, bool) {
	for _, prov := range p.Providers {
		for _, t := range prov.Tools {
			if t.Identity.Name == name {
				return t, true
			}
		}
	}
	return Tool{}, false
}

func (p *Plugin) ToolNames() []string {
	var names []string
	for _, prov := range p.Providers {
		for _, t := range prov.Tools {
			names = append(names, t.Identity.Name)
		}
	}
	return names
}
