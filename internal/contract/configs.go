package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// Default values for configuration.
const (
	DefaultReplicates       = 10
	MaxReplicates           = 64
	DefaultPrecision        = 2
	DefaultPageSize         = 10
	MaxPageSize             = 1000
	DefaultStatsInterval    = time.Hour
	DefaultMongoURI         = "mongodb://localhost:27017"
	DefaultMongoDatabase    = "phasmafood"
	DefaultMongoCollection  = "AltJsonSamples"
	DefaultReferenceUseCase = schema.WhiteReferenceCase
)

// Notification and blob drivers.
const (
	LogNotify  = "log"
	BlobNotify = "blob"
	FSBlob     = "fs"
	S3Blob     = "s3"
)

// DefaultWorkers is the default number of concurrent background jobs.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// S3Config holds the S3-compatible attachment sink settings.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	ExportDir        string
	Replicates       int
	ReferenceUseCase string
	Workers          int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	NotifyDriver string
	BlobDriver   string
	BlobDir      string
	S3           S3Config

	LogLevel      string
	StatsInterval time.Duration
	MetricsAddr   string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	DBBackend string `mapstructure:"db-backend"`
	DBConnect string `mapstructure:"db-connect"`

	MongoURI        string `mapstructure:"mongo-uri"`
	MongoDatabase   string `mapstructure:"mongo-db"`
	MongoCollection string `mapstructure:"mongo-collection"`

	ExportDir        string `mapstructure:"export-dir"`
	Replicates       int    `mapstructure:"replicates"`
	ReferenceUseCase string `mapstructure:"reference-use-case"`
	Workers          int    `mapstructure:"workers"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	NotifyDriver string `mapstructure:"notify-driver"`
	BlobDriver   string `mapstructure:"blob-driver"`
	BlobDir      string `mapstructure:"blob-dir"`
	S3Bucket     string `mapstructure:"s3-bucket"`
	S3Region     string `mapstructure:"s3-region"`
	S3Endpoint   string `mapstructure:"s3-endpoint"`
	S3PathStyle  bool   `mapstructure:"s3-path-style"`

	LogLevel      string `mapstructure:"log-level"`
	StatsInterval string `mapstructure:"stats-interval"`
	MetricsAddr   string `mapstructure:"metrics-addr"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateBackend(cfg, input); err != nil {
		return err
	}
	if err := validatePipeline(cfg, input); err != nil {
		return err
	}
	if err := validateOutput(cfg, input); err != nil {
		return err
	}
	return validateDelivery(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres") {
			return fmt.Errorf("PostgreSQL connection string must be a URL or contain 'host=' parameter")
		}
	}
	return nil
}

func validateBackend(cfg *Config, input *ConfigRawInput) error {
	backend := input.DBBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.DBBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect); err != nil {
		return err
	}

	cfg.MongoURI = orDefault(input.MongoURI, DefaultMongoURI)
	if !strings.HasPrefix(cfg.MongoURI, "mongodb://") && !strings.HasPrefix(cfg.MongoURI, "mongodb+srv://") {
		return fmt.Errorf("mongo-uri must start with mongodb:// or mongodb+srv://")
	}
	cfg.MongoDatabase = orDefault(input.MongoDatabase, DefaultMongoDatabase)
	cfg.MongoCollection = orDefault(input.MongoCollection, DefaultMongoCollection)
	return nil
}

func validatePipeline(cfg *Config, input *ConfigRawInput) error {
	cfg.Replicates = input.Replicates
	if cfg.Replicates == 0 {
		cfg.Replicates = DefaultReplicates
	}
	if err := ValidateReplicates(cfg.Replicates); err != nil {
		return err
	}

	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	cfg.ReferenceUseCase = orDefault(input.ReferenceUseCase, DefaultReferenceUseCase)
	cfg.ExportDir = input.ExportDir
	if cfg.ExportDir == "" {
		cfg.ExportDir = GetMediaRoot()
	}

	cfg.StatsInterval = DefaultStatsInterval
	if input.StatsInterval != "" {
		d, err := time.ParseDuration(input.StatsInterval)
		if err != nil {
			return fmt.Errorf("invalid stats-interval %q: %w", input.StatsInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("stats-interval must be positive")
		}
		cfg.StatsInterval = d
	}
	cfg.MetricsAddr = input.MetricsAddr
	return nil
}

// ValidateReplicates checks the replicate count bound.
func ValidateReplicates(r int) error {
	if r < 1 || r > MaxReplicates {
		return fmt.Errorf("replicates must be between 1 and %d, got %d", MaxReplicates, r)
	}
	return nil
}

func validateOutput(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = schema.OutputMode(strings.ToLower(orDefault(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Precision = input.Precision
	if cfg.Precision < 0 || cfg.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6")
	}
	if input.Width < 0 {
		return fmt.Errorf("width must be a non-negative integer")
	}
	cfg.Width = input.Width

	switch strings.ToLower(orDefault(input.Color, "yes")) {
	case "yes", "true", "1":
		cfg.UseColors = true
	case "no", "false", "0":
		cfg.UseColors = false
	default:
		return fmt.Errorf("invalid color value '%s'. must be yes, no, true, false, 1, 0", input.Color)
	}

	cfg.LogLevel = strings.ToLower(orDefault(input.LogLevel, "info"))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	return nil
}

func validateDelivery(cfg *Config, input *ConfigRawInput) error {
	cfg.NotifyDriver = strings.ToLower(orDefault(input.NotifyDriver, LogNotify))
	switch cfg.NotifyDriver {
	case LogNotify, BlobNotify:
	default:
		return fmt.Errorf("invalid notify-driver '%s'. must be log or blob", input.NotifyDriver)
	}

	cfg.BlobDriver = strings.ToLower(orDefault(input.BlobDriver, FSBlob))
	cfg.BlobDir = input.BlobDir
	if cfg.BlobDir == "" {
		cfg.BlobDir = filepath.Join(cfg.ExportDir, "notifications")
	}
	cfg.S3 = S3Config{
		Bucket:    input.S3Bucket,
		Region:    input.S3Region,
		Endpoint:  input.S3Endpoint,
		PathStyle: input.S3PathStyle,
	}
	switch cfg.BlobDriver {
	case FSBlob:
	case S3Blob:
		if cfg.NotifyDriver == BlobNotify && cfg.S3.Bucket == "" {
			return fmt.Errorf("s3-bucket is required when blob-driver is s3")
		}
	default:
		return fmt.Errorf("invalid blob-driver '%s'. must be fs or s3", input.BlobDriver)
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// GetMediaRoot returns the default directory for export bundles.
func GetMediaRoot() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "phasma")
	}
	return filepath.Join(homeDir, ".phasma", "media")
}

// GetDBFilePath returns the default SQLite file of the primary store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "phasma.db"
	}
	return filepath.Join(homeDir, ".phasma", "phasma.db")
}
