package config

import "time"

var (
	ServiceVersion string
	CommitSHA      string
)

const (
	Development = 1 << iota
	Sandbox
	Staging
	Production
)

type (
	ServiceConfig struct {
		App            App            `json:"app"`
		Repository     Repository     `json:"repository"`
		Query          Query          `json:"query"`
		SecretsStorage SecretsStorage `json:"secrets_storage"`
		Database       Database       `json:"database"`
		Cache          Cache          `json:"cache"`
		Logging        Logging        `json:"logging"`
		Telemetry      Telemetry      `json:"telemetry"`
	}

	App struct {
		ServiceName string      `envconfig:"APP_SERVICE_NAME" default:"docrepo" json:"service_name"`
		Env         Environment `json:"environment"`
	}

	Environment struct {
		Name string `envconfig:"APP_ENVIRONMENT" default:"development" json:"env"`
	}

	// Repository describes the document repository reached over the Browser binding.
	Repository struct {
		BrowserURL      string         `envconfig:"CMIS_BROWSER_URL" default:"http://localhost:8080/cmis/browser" json:"browser_url"`
		RepositoryID    string         `envconfig:"CMIS_REPOSITORY_ID" default:"" json:"repository_id"`
		Username        string         `envconfig:"CMIS_USERNAME" default:"" json:"username,omitempty"`
		Password        string         `envconfig:"CMIS_PASSWORD" default:"" json:"-"`
		Timeout         time.Duration  `envconfig:"CMIS_TIMEOUT" default:"30s" json:"timeout"`
		RetryMax        int            `envconfig:"CMIS_RETRY_MAX" default:"3" json:"retry_max"`
		RetryWaitMin    time.Duration  `envconfig:"CMIS_RETRY_WAIT_MIN" default:"200ms" json:"retry_wait_min"`
		RetryWaitMax    time.Duration  `envconfig:"CMIS_RETRY_WAIT_MAX" default:"2s" json:"retry_wait_max"`
		MaxItemsPerPage int            `envconfig:"CMIS_MAX_ITEMS_PER_PAGE" default:"100" json:"max_items_per_page"`
		CircuitBreaker  CircuitBreaker `json:"circuit_breaker"`
	}

	CircuitBreaker struct {
		Enabled          bool          `envconfig:"CMIS_BREAKER_ENABLED" default:"true" json:"enabled"`
		MaxRequests      uint          `envconfig:"CMIS_BREAKER_MAX_REQUESTS" default:"1" json:"max_requests"`
		Interval         time.Duration `envconfig:"CMIS_BREAKER_INTERVAL" default:"60s" json:"interval"`
		Timeout          time.Duration `envconfig:"CMIS_BREAKER_TIMEOUT" default:"30s" json:"timeout"`
		FailureThreshold uint          `envconfig:"CMIS_BREAKER_FAILURE_THRESHOLD" default:"5" json:"failure_threshold"`
	}

	// Query holds the defaults applied to document searches.
	Query struct {
		DefaultObjectType string `envconfig:"QUERY_DEFAULT_OBJECT_TYPE" default:"cmis:document" json:"default_object_type"`
		DefaultPageSize   int    `envconfig:"QUERY_DEFAULT_PAGE_SIZE" default:"100" json:"default_page_size"`
		MaxPageSize       int    `envconfig:"QUERY_MAX_PAGE_SIZE" default:"1000" json:"max_page_size"`
		SearchAllVersions bool   `envconfig:"QUERY_SEARCH_ALL_VERSIONS" default:"true" json:"search_all_versions"`
	}

	SecretsStorage struct {
		Enabled       bool          `envconfig:"VAULT_ENABLED" default:"false" json:"enabled"`
		Address       string        `envconfig:"VAULT_ADDRESS" default:"http://vault:8200" json:"address"`
		Token         string        `envconfig:"VAULT_TOKEN" default:"" json:"-"`
		RoleID        string        `envconfig:"VAULT_ROLE_ID" default:"" json:"role_id,omitempty"`
		SecretID      string        `envconfig:"VAULT_SECRET_ID" default:"" json:"-"`
		AuthMethod    string        `envconfig:"VAULT_AUTH_METHOD" default:"token" json:"auth_method"`
		MountPath     string        `envconfig:"VAULT_MOUNT_PATH" default:"docrepo" json:"mount_path"`
		Namespace     string        `envconfig:"VAULT_NAMESPACE" default:"" json:"namespace,omitempty"`
		Timeout       time.Duration `envconfig:"VAULT_TIMEOUT" default:"30s" json:"timeout"`
		MaxRetries    uint          `envconfig:"VAULT_MAX_RETRIES" default:"3" json:"max_retries"`
		TLSSkipVerify bool          `envconfig:"VAULT_TLS_SKIP_VERIFY" default:"false" json:"tls_skip_verify"`
	}

	// Database backs the query history. History is skipped when disabled.
	Database struct {
		Enabled         bool          `envconfig:"POSTGRES_ENABLED" default:"false" json:"enabled"`
		Host            string        `envconfig:"POSTGRES_HOST" default:"postgres" json:"host"`
		Port            uint          `envconfig:"POSTGRES_PORT" default:"5432" json:"port"`
		Database        string        `envconfig:"POSTGRES_DATABASE" default:"docrepo" json:"database"`
		Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres" json:"username"`
		Password        string        `envconfig:"POSTGRES_PASSWORD" default:"" json:"-"`
		SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable" json:"ssl_mode"`
		MaxConnections  int           `envconfig:"POSTGRES_MAX_CONNECTIONS" default:"5" json:"max_connections"`
		MinConnections  int           `envconfig:"POSTGRES_MIN_CONNECTIONS" default:"1" json:"min_connections"`
		ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		MaxConnLifetime time.Duration `envconfig:"POSTGRES_MAX_CONN_LIFETIME" default:"1h" json:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `envconfig:"POSTGRES_MAX_CONN_IDLE_TIME" default:"30m" json:"max_conn_idle_time"`
	}

	// Cache backs the search result page cache.
	Cache struct {
		Enabled      bool          `envconfig:"CACHE_ENABLED" default:"false" json:"enabled"`
		Address      string        `envconfig:"CACHE_ADDRESS" default:"redis:6379" json:"address"`
		Password     string        `envconfig:"CACHE_PASSWORD" default:"" json:"-"`
		DB           uint          `envconfig:"CACHE_DB" default:"0" json:"db"`
		PoolSize     uint          `envconfig:"CACHE_POOL_SIZE" default:"5" json:"pool_size"`
		DialTimeout  time.Duration `envconfig:"CACHE_DIAL_TIMEOUT" default:"5s" json:"dial_timeout"`
		ReadTimeout  time.Duration `envconfig:"CACHE_READ_TIMEOUT" default:"3s" json:"read_timeout"`
		WriteTimeout time.Duration `envconfig:"CACHE_WRITE_TIMEOUT" default:"3s" json:"write_timeout"`
		PageTTL      time.Duration `envconfig:"CACHE_PAGE_TTL" default:"1m" json:"page_ttl"`
	}

	Logging struct {
		Level  string `envconfig:"LOG_LEVEL" default:"warn" json:"level"`
		Format string `envconfig:"LOG_FORMAT" default:"console" json:"format"`
	}

	Telemetry struct {
		Enabled      bool    `envconfig:"OTEL_ENABLED" default:"false" json:"enabled"`
		ExporterType string  `envconfig:"OTEL_EXPORTER" default:"grpc" json:"exporter_type"`
		OTLPEndpoint string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"" json:"otlp_endpoint"`
		Metrics      Metrics `json:"metrics"`
		Traces       Traces  `json:"traces"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"false" json:"enabled"`
	}

	Traces struct {
		Enabled      bool    `envconfig:"TRACES_ENABLED" default:"false" json:"enabled"`
		SamplerRatio float64 `envconfig:"TRACES_SAMPLER_RATIO" default:"1.0" json:"sampler_ratio"`
	}
)

func (c *ServiceConfig) GetEnvironment() int {
	switch c.App.Env.Name {
	case "production", "prod":
		return Production
	case "staging", "stg":
		return Staging
	case "sandbox", "sbx":
		return Sandbox
	default:
		return Development
	}
}

func (c *ServiceConfig) IsProduction() bool {
	return c.GetEnvironment() == Production
}
