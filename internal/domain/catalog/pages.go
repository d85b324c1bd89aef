package catalog

import "StockWeather/internal/domain/models"

const (
	PageCommodities = "commodities"
	PageRegions     = "regions"
	PageSectors     = "sectors"
	PageEconomy     = "economy"
)

func Commodities() PageDef {
	return PageDef{
		ID:          PageCommodities,
		Title:       "Commodities",
		Description: "Energy, metals, agriculture, crypto and the dollar index side by side.",
		Kind:        models.PageMarket,
		Comparison:  models.CompareNormalized,
		Instruments: []models.Instrument{
			{Name: "Gold", Ticker: "GC=F"},
			{Name: "Crude oil (WTI)", Ticker: "CL=F"},
			{Name: "Brent oil", Ticker: "BZ=F"},
			{Name: "Natural Gas", Ticker: "NG=F"},
			{Name: "Silver", Ticker: "SI=F"},
			{Name: "Copper", Ticker: "HG=F"},
			{Name: "Corn", Ticker: "ZC=F"},
			{Name: "Wheat", Ticker: "ZW=F"},
			{Name: "Bitcoin", Ticker: "BTC-USD"},
			{Name: "USD Dollar Index", Ticker: "DX-Y.NYB"},
		},
		ShortMA: 50,
		LongMA:  200,
	}
}

func Regions() PageDef {
	return PageDef{
		ID:          PageRegions,
		Title:       "Regional Markets",
		Description: "Major equity indices by region, aligned across exchange calendars.",
		Kind:        models.PageMarket,
		Comparison:  models.CompareCumulative,
		Instruments: []models.Instrument{
			{Name: "US (S&P 500)", Ticker: "^GSPC"},
			{Name: "Europe (STOXX 600)", Ticker: "^STOXX"},
			{Name: "UK (FTSE 100)", Ticker: "^FTSE"},
			{Name: "Japan (Nikkei 225)", Ticker: "^N225"},
			{Name: "China (Shanghai)", Ticker: "000001.SS"},
			{Name: "India (Nifty 50)", Ticker: "^NSEI"},
			{Name: "Emerging Markets (EEM)", Ticker: "EEM"},
		},
		ShortMA:        30,
		LongMA:         90,
		AlignCalendars: true,
		ShowVolume:     true,
	}
}

func Sectors() PageDef {
	return PageDef{
		ID:          PageSectors,
		Title:       "U.S. Sectors",
		Description: "SPDR sector ETFs: growth of $100 and risk by sector.",
		Kind:        models.PageMarket,
		Comparison:  models.CompareCumulative,
		Instruments: []models.Instrument{
			{Name: "Technology", Ticker: "XLK"},
			{Name: "Energy", Ticker: "XLE"},
			{Name: "Financials", Ticker: "XLF"},
			{Name: "Healthcare", Ticker: "XLV"},
			{Name: "Consumer Discretionary", Ticker: "XLY"},
			{Name: "Industrials", Ticker: "XLI"},
			{Name: "Utilities", Ticker: "XLU"},
			{Name: "Materials", Ticker: "XLB"},
			{Name: "Real Estate", Ticker: "XLRE"},
			{Name: "Communication", Ticker: "XLC"},
		},
		ShortMA:        30,
		LongMA:         90,
		AlignCalendars: true,
	}
}

func Economy() PageDef {
	return PageDef{
		ID:          PageEconomy,
		Title:       "U.S. Economy",
		Description: "Inflation, labor, rates, output and consumption from FRED.",
		Kind:        models.PageMacro,
		Comparison:  models.CompareNormalized,
		Instruments: []models.Instrument{
			{Name: "CPI (Inflation)", Ticker: "CPIAUCSL"},
			{Name: "Core CPI", Ticker: "CPILFESL"},
			{Name: "Unemployment Rate", Ticker: "UNRATE"},
			{Name: "Fed Funds Rate", Ticker: "FEDFUNDS"},
			{Name: "GDP (US)", Ticker: "GDP"},
			{Name: "PCE (Consumption)", Ticker: "PCE"},
			{Name: "10-Year Treasury Yield", Ticker: "DGS10"},
			{Name: "Industrial Production", Ticker: "INDPRO"},
			{Name: "Retail Sales", Ticker: "RSXFS"},
		},
	}
}
