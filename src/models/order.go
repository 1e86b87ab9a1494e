package models

// MOrderParams is the placeOrder request body.
type MOrderParams struct {
	Variety         string `json:"variety"`
	TradingSymbol   string `json:"tradingsymbol"`
	SymbolToken     string `json:"symboltoken"`
	TransactionType string `json:"transactiontype"`
	Exchange        string `json:"exchange"`
	OrderType       string `json:"ordertype"`
	ProductType     string `json:"producttype"`
	Duration        string `json:"duration"`
	Quantity        string `json:"quantity"`
}

// MCandleParams is the getCandleData query.
type MCandleParams struct {
	Exchange    string
	SymbolToken string
	Interval    string
	FromDate    string
	ToDate      string
}
