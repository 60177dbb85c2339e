package model

import "time"

// Config is the complete runtime configuration, assembled from defaults,
// the config file, LETTERGEO_* environment variables and CLI flags.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus" mapstructure:"corpus"`
	NER       NERConfig       `yaml:"ner" mapstructure:"ner"`
	Normalize NormalizeConfig `yaml:"normalize" mapstructure:"normalize"`
	Dedupe    DedupeConfig    `yaml:"dedupe" mapstructure:"dedupe"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// CorpusConfig locates the input archive and the intermediate data files.
type CorpusConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`           // directory of letter XML files
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"` // txt/ and csv/ checkpoints live here
}

// NERConfig selects the recognizer provider.
type NERConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // prose, server, openai
	Model    string        `yaml:"model" mapstructure:"model"`       // server/openai model name
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"` // tagging server endpoint
	APIKey   string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// NormalizeConfig carries the cleaning rules for raw mentions.
type NormalizeConfig struct {
	// Denylist holds known-bad recognizer outputs that are always discarded.
	Denylist []string `yaml:"denylist" mapstructure:"denylist"`
	// KeepSuffix lists names whose trailing "s" is genuine and must not be stripped.
	KeepSuffix []string `yaml:"keep_suffix" mapstructure:"keep_suffix"`
}

// DedupeConfig controls the fuzzy clustering.
type DedupeConfig struct {
	// Threshold is the minimum similarity score (0-100) for merging a name
	// into an existing cluster.
	Threshold int `yaml:"threshold" mapstructure:"threshold"`
	// Seeds are preferred spellings preloaded as cluster representatives so
	// historic variants collapse onto them.
	Seeds []string `yaml:"seeds" mapstructure:"seeds"`
}

// GeocodeConfig configures the Nominatim client.
type GeocodeConfig struct {
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
	// RatePerSec caps outgoing requests; Nominatim policy is one per second.
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// CacheConfig configures the geocode result cache.
type CacheConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir         string        `yaml:"dir" mapstructure:"dir"`
	TTL         time.Duration `yaml:"ttl" mapstructure:"ttl"`
	NegativeTTL time.Duration `yaml:"negative_ttl" mapstructure:"negative_ttl"`
}

// RenderConfig locates the map artifacts.
type RenderConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	Title     string `yaml:"title" mapstructure:"title"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults. The denylist, keep list and
// seed spellings ship with the curated values for the Ibsen letter archive;
// other corpora override them in the config file.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:     "data/xml",
			DataDir: "data",
		},
		NER: NERConfig{
			Provider: "prose",
			Timeout:  60 * time.Second,
		},
		Normalize: NormalizeConfig{
			Denylist: []string{
				".", "’", "St. ", "s", "Øie", "Måské", "Maaské", "Mai",
				"Ala", "August", "Bergliot", "Brandes", "Byen", "Catilina",
				"Gaden", "Gage", "Humbug", "Jorden", "Jupiter", "Kasino",
				"Kbh.", "Kolera", "Kr: teater", "Mars", "Marts", "Myron",
				"Posten", "Kastanienallee 19/20.",
			},
			KeepSuffix: []string{
				"Als", "Hals", "Heliopolis", "Helsingfors", "Hinterhaus",
				"Kaukasus", "Libanius", "Bruxelles", "New-Orleans", "Paris",
				"Refsnæs", "Tunis", "Wales", "Falsens", "Basileus", "Gossensass",
			},
		},
		Dedupe: DedupeConfig{
			Threshold: 80,
			Seeds: []string{
				"Amerika", "Appenninerne", "Basileus", "Bayern", "Bergens teater",
				"Burgtheater", "Christiania Theater", "Finland", "Florenz",
				"Frankrig", "Frederikshavn", "Grand Hotel Oslo", "København",
				"Dresden", "Petersborg", "Rom", "Schweiz", "Sorrento",
				"Sverige", "Østrig",
			},
		},
		Geocode: GeocodeConfig{
			BaseURL:    "https://nominatim.openstreetmap.org",
			UserAgent:  "lettergeo/0.1 (+https://github.com/lettergeo/lettergeo)",
			Timeout:    10 * time.Second,
			MaxRetries: 3,
			RatePerSec: 1,
		},
		Cache: CacheConfig{
			Enabled:     true,
			Dir:         ".lettergeo-cache",
			TTL:         30 * 24 * time.Hour,
			NegativeTTL: 24 * time.Hour,
		},
		Render: RenderConfig{
			OutputDir: "output",
			Title:     "Locations mentioned in the letters, by count",
		},
	}
}
