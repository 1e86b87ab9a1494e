package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	LogFile    string            `yaml:"log_file"`
	StaticDir  string            `yaml:"static_dir"`
	Broker     MBrokerConfig     `yaml:"broker"`
	Instrument MInstrumentConfig `yaml:"instrument"`
	Stream     MStreamConfig     `yaml:"stream"`
	Historical MHistoricalConfig `yaml:"historical"`
	Order      MOrderConfig      `yaml:"order"`
	Cache      MCacheConfig      `yaml:"cache"`
	Storage    MStorageConfig    `yaml:"storage"`
}

type MBrokerConfig struct {
	BaseURL        string `yaml:"base_url"`
	RequestTimeout int    `yaml:"timeout"`
}

// MInstrumentConfig identifies the single instrument this gateway serves.
type MInstrumentConfig struct {
	Exchange      string `yaml:"exchange"`
	TradingSymbol string `yaml:"trading_symbol"`
	SymbolToken   string `yaml:"symbol_token"`
}

type MStreamConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

// MHistoricalConfig holds the candle query window. Blank from/to dates mean
// "most recent trading session", derived from the exchange calendar.
type MHistoricalConfig struct {
	Interval string `yaml:"interval"`
	FromDate string `yaml:"from_date"`
	ToDate   string `yaml:"to_date"`
}

// MOrderConfig holds the fixed parameters of the one order this gateway
// knows how to place.
type MOrderConfig struct {
	Variety         string `yaml:"variety"`
	TransactionType string `yaml:"transaction_type"`
	OrderType       string `yaml:"order_type"`
	ProductType     string `yaml:"product_type"`
	Duration        string `yaml:"duration"`
	Quantity        string `yaml:"quantity"`
}

type MCacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type MStorageConfig struct {
	Enabled            bool   `yaml:"enabled"`
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}
