package config

type Config struct {
	LogLevel    string    `yaml:"LogLevel"`
	Interval    int       `yaml:"Interval"`
	Timeout     int       `yaml:"Timeout"`
	CacheFile   string    `yaml:"CacheFile"`
	MetricsFile string    `yaml:"MetricsFile"`
	DryRun      bool      `yaml:"DryRun"`
	Resolver    *Resolver `yaml:"Resolver"`
	DDNS        *DDNS     `yaml:"DDNS"`
	Records     []*Record `yaml:"Records"`
	Notify      *Notify   `yaml:"Notify"`
}

type Resolver struct {
	Services []string `yaml:"Services"`
}

type DDNS struct {
	Token   string `yaml:"Token"`
	BaseURL string `yaml:"BaseURL"`
}

type Record struct {
	Name   string `yaml:"Name"`
	ZoneID string `yaml:"ZoneID"`
}

type Notify struct {
	Enable   bool              `yaml:"Enable"`
	Provider string            `yaml:"Provider"`
	Config   map[string]string `yaml:"Config"`
}
