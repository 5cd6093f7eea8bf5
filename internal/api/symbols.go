package api

// SymbolInfo pairs a ticker with its display description.
type SymbolInfo struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// PopularSymbols is the curated ticker list offered by the UI. Order is
// presentation order: indices, then broad ETFs, then individual stocks.
func PopularSymbols() []SymbolInfo {
	return []SymbolInfo{
		{Symbol: "^GSPC", Description: "S&P 500 Index"},
		{Symbol: "^DJI", Description: "Dow Jones Industrial Average"},
		{Symbol: "^IXIC", Description: "NASDAQ Composite"},
		{Symbol: "^RUT", Description: "Russell 2000 Index"},
		{Symbol: "SPY", Description: "SPDR S&P 500 ETF"},
		{Symbol: "QQQ", Description: "Invesco QQQ Trust"},
		{Symbol: "IWM", Description: "iShares Russell 2000 ETF"},
		{Symbol: "VTI", Description: "Vanguard Total Stock Market ETF"},
		{Symbol: "VOO", Description: "Vanguard S&P 500 ETF"},
		{Symbol: "AAPL", Description: "Apple Inc."},
		{Symbol: "MSFT", Description: "Microsoft Corporation"},
		{Symbol: "GOOGL", Description: "Alphabet Inc."},
		{Symbol: "AMZN", Description: "Amazon.com Inc."},
		{Symbol: "TSLA", Description: "Tesla Inc."},
		{Symbol: "NVDA", Description: "NVIDIA Corporation"},
		{Symbol: "META", Description: "Meta Platforms Inc."},
		{Symbol: "BRK-B", Description: "Berkshire Hathaway Inc."},
		{Symbol: "JNJ", Description: "Johnson & Johnson"},
		{Symbol: "JPM", Description: "JPMorgan Chase & Co."},
		{Symbol: "V", Description: "Visa Inc."},
	}
}
