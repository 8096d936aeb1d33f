package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// PipelineConfig contains the knobs of the dataset pipeline
type PipelineConfig struct {
	// NAThreshold is the null fraction above which a column is pruned
	// during the initial cleaning pass.
	NAThreshold float64 `yaml:"na_threshold" envconfig:"NA_THRESHOLD" default:"0.9" validate:"gt=0,lte=1"`

	// ExcludedKeywords filter out bulk/non-qualifying activity types
	// before progressive aggregation. Case-insensitive substring match.
	ExcludedKeywords []string `yaml:"excluded_keywords" envconfig:"EXCLUDED_KEYWORDS" default:"mail,email,whatsapp,masivo,comunicación,envío"`

	// EarlyStages are funnel stages at which payment information cannot
	// legitimately be known yet.
	EarlyStages []string `yaml:"early_stages" envconfig:"EARLY_STAGES" default:"Solicitud,Pruebas,Admisión académica"`

	// PaymentFields are redacted by the stage-based leakage guard.
	PaymentFields []string `yaml:"payment_fields" envconfig:"PAYMENT_FIELDS" default:"PAID_AMOUNT,MINIMUMPAYMENTPAYED,CU_precioAplicado_def__c,PORCENTAJE_PAGADO_FINAL"`

	// MilestoneRedaction selects the milestone-timestamp leakage guard
	// instead of the stage-name one. The milestone variant is the
	// temporally correct one and is the default.
	MilestoneRedaction bool `yaml:"milestone_redaction" envconfig:"MILESTONE_REDACTION" default:"true"`

	// Delimiter is the output field separator, a single character.
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" default:";" validate:"len=1"`

	AnalysisFileName string `yaml:"analysis_file_name" envconfig:"ANALYSIS_FILE_NAME" default:"dataset_analisis.csv" validate:"required"`
	FinalFileName    string `yaml:"final_file_name" envconfig:"FINAL_FILE_NAME" default:"dataset_tratamiento_final.csv" validate:"required"`
}

// DelimiterRune returns the configured delimiter as a rune
func (p PipelineConfig) DelimiterRune() rune {
	for _, r := range p.Delimiter {
		return r
	}
	return ';'
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over the file; the file fills in
// whatever the environment left unset.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("ADM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	if envConfig.Pipeline.NAThreshold == 0 {
		envConfig.Pipeline.NAThreshold = fileConfig.Pipeline.NAThreshold
	}
	if len(envConfig.Pipeline.ExcludedKeywords) == 0 {
		envConfig.Pipeline.ExcludedKeywords = fileConfig.Pipeline.ExcludedKeywords
	}
	if len(envConfig.Pipeline.EarlyStages) == 0 {
		envConfig.Pipeline.EarlyStages = fileConfig.Pipeline.EarlyStages
	}
	if len(envConfig.Pipeline.PaymentFields) == 0 {
		envConfig.Pipeline.PaymentFields = fileConfig.Pipeline.PaymentFields
	}
	if envConfig.Pipeline.Delimiter == "" {
		envConfig.Pipeline.Delimiter = fileConfig.Pipeline.Delimiter
	}
	if envConfig.Pipeline.AnalysisFileName == "" {
		envConfig.Pipeline.AnalysisFileName = fileConfig.Pipeline.AnalysisFileName
	}
	if envConfig.Pipeline.FinalFileName == "" {
		envConfig.Pipeline.FinalFileName = fileConfig.Pipeline.FinalFileName
	}

	return envConfig
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// GetReportPath returns the full path of a file under the reports directory
func (p PathsConfig) GetReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// GetLogPath returns the full path of a file under the logs directory
func (p PathsConfig) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// EnsureDirectories creates the data, reports and logs directories
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// getConfigFilePath returns the config file location, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("ADM_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
