package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server ServerConfig `toml:"server"`
	Graph  GraphConfig  `toml:"graph"`
	Ingest IngestConfig `toml:"ingest"`
	KV     KVConfig     `toml:"kv"`
}

type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	// CORS allowed origins.
	AllowedOrigins []string `toml:"allowed_origins"`
}

type GraphConfig struct {
	SnapshotPath string `toml:"snapshot_path"`
	// Workers. ukuran worker pool, <= 0 berarti jumlah cpu.
	Workers           int `toml:"workers"`
	ParallelThreshold int `toml:"parallel_threshold"`
}

// IngestConfig. layout kolom csv road centerline.
type IngestConfig struct {
	StartColumn  int  `toml:"start_column"`
	EndColumn    int  `toml:"end_column"`
	NameColumn   int  `toml:"name_column"`
	WeightColumn int  `toml:"weight_column"`
	Header       bool `toml:"header"`
	SelfLoops    bool `toml:"self_loops"`
	Strict       bool `toml:"strict"`
}

// KVConfig. Dir kosong berarti engine jalan tanpa badger: tanpa route cache, snapping koordinat pakai in-memory r-tree.
type KVConfig struct {
	Dir           string        `toml:"dir"`
	RouteCacheTTL time.Duration `toml:"route_cache_ttl"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":5000",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"https://*", "http://*"},
		},
		Graph: GraphConfig{
			SnapshotPath:      "./data/road_graph.zst",
			Workers:           0,
			ParallelThreshold: 2048,
		},
		Ingest: IngestConfig{
			StartColumn:  60,
			EndColumn:    61,
			NameColumn:   9,
			WeightColumn: 31,
			Header:       true,
			SelfLoops:    true,
		},
		KV: KVConfig{
			Dir:           "./data/kv",
			RouteCacheTTL: 24 * time.Hour,
		},
	}
}

// Load. baca file toml di atas Default. path kosong = Default. key yang tidak dikenal dianggap error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Graph.SnapshotPath == "" {
		return fmt.Errorf("%w: graph.snapshot_path is empty", ErrInvalidConfig)
	}
	if c.Graph.ParallelThreshold < 1 {
		return fmt.Errorf("%w: graph.parallel_threshold must be >= 1", ErrInvalidConfig)
	}
	for name, col := range map[string]int{
		"start_column":  c.Ingest.StartColumn,
		"end_column":    c.Ingest.EndColumn,
		"name_column":   c.Ingest.NameColumn,
		"weight_column": c.Ingest.WeightColumn,
	} {
		if col < 0 {
			return fmt.Errorf("%w: ingest.%s must be >= 0", ErrInvalidConfig, name)
		}
	}
	return nil
}
