package config

// File is the optional YAML configuration. Empty fields leave the
// environment-derived setting untouched.
type File struct {
	WGCommand       string `yaml:"wgCommand"`
	Source          string `yaml:"source"` // command|device
	Interface       string `yaml:"interface"`
	RefreshInterval string `yaml:"refreshInterval"`
	FetchTimeout    string `yaml:"fetchTimeout"`
	TemplatesDir    string `yaml:"templatesDir"`
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	MaxConns        int    `yaml:"maxConns"`
	LogLevel        string `yaml:"logLevel"`
}
