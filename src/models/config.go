package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	GrpcHost   string            `yaml:"grpc_host"`
	GrpcPort   int               `yaml:"grpc_port"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Dashboard  MDashboardConfig  `yaml:"dashboard"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"retries"`
	UserAgent      string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	BaseURL    string `yaml:"base_url"`
	StartYear  int    `yaml:"start_year"`
	EndYear    int    `yaml:"end_year"`
	TopN       int    `yaml:"top_n"`
	StockRange string `yaml:"stock_range"`
}

type MDashboardConfig struct {
	TickSteps      int  `yaml:"tick_steps"`
	DivergingLimit int  `yaml:"diverging_limit"`
	RefreshMinutes int  `yaml:"refresh_minutes"`
	EnableStocks   bool `yaml:"enable_stocks"`
}

// -----------------------------------------------------------------------------

// DefaultFetchParams builds the fetch parameters configured for startup loads.
func (c *MConfig) DefaultFetchParams() MFetchParams {
	return MFetchParams{
		StartYear: c.DataSource.StartYear,
		EndYear:   c.DataSource.EndYear,
		TopN:      c.DataSource.TopN,
	}
}
