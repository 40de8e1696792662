package feature

// DefaultCalculators returns the full built-in calculator set in
// registration order.
func DefaultCalculators() []Calculator {
	return []Calculator{
		// Technical
		NewRSI(),
		NewMACD(),
		NewStochastic(),
		NewBollingerBands(),
		NewEMAPair(),
		NewSMADistance(),
		NewMACross(),
		NewPriceMomentum(),
		NewADXTrend(),
		NewSupertrend(),

		// Volatility
		NewATRRegime(),
		NewBBWidth(),

		// Volume
		NewVWAP(),
		NewVolumeRatio(),
		NewOBVTrend(),

		// Macro
		NewDXY(),
		NewVIX(),
		NewTreasury10Y(),
		NewRealYields(),
		NewInflationExpectations(),

		// Intermarket
		NewGoldSilverRatio(),
		NewCopperGoldRatio(),
		NewGoldOilRatio(),
		NewMinersGoldRatio(),
		NewGLDFlow(),
		NewBTCDominance(),

		// Crypto derivatives
		NewFundingRate(),
		NewOpenInterest(),
		NewBasis(),
		NewLiquidations(),
		NewOIVolumeRatio(),

		// Crypto spot
		NewOrderBookImbalance(),

		// Sentiment
		NewNewsSentiment(),
		NewMarketFearGauge(),
	}
}

// DefaultRegistry builds a registry over DefaultCalculators. The built-in
// set has no duplicate names, so this never fails.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultCalculators()...)
	if err != nil {
		panic(err)
	}
	return r
}
