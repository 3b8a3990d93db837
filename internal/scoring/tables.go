package scoring

// Le tabelle letterali di default: prezzi per stato (quintale) e suggerimenti citta' -> stato.
// L'ordine e' significativo: il primo match vince.

var defaultCityHints = []CityHint{
	{"chennai", "tamil nadu"},
	{"coimbatore", "tamil nadu"},
	{"madurai", "tamil nadu"},
	{"kolkata", "west bengal"},
	{"howrah", "west bengal"},
	{"lucknow", "uttar pradesh"},
	{"kanpur", "uttar pradesh"},
	{"patna", "bihar"},
	{"bhopal", "madhya pradesh"},
	{"indore", "madhya pradesh"},
	{"ahmedabad", "gujarat"},
	{"surat", "gujarat"},
	{"bengaluru", "karnataka"},
	{"bangalore", "karnataka"},
	{"mysuru", "karnataka"},
	{"mysore", "karnataka"},
	{"hyderabad", "andhra pradesh"},
	{"vijayawada", "andhra pradesh"},
	{"visakhapatnam", "andhra pradesh"},
	{"kochi", "kerala"},
	{"thiruvananthapuram", "kerala"},
	{"ernakulam", "kerala"},
	{"amritsar", "punjab"},
	{"ludhiana", "punjab"},
	{"gurugram", "haryana"},
	{"faridabad", "haryana"},
	{"guwahati", "assam"},
	{"ranchi", "jharkhand"},
}

var defaultRegionPrices = []RegionEntry{
	{"tamil nadu", map[string]float64{"Rice": 2200, "Maize": 1750, "Pulses": 4800, "Millets": 2400, "Potato": 1100}},
	{"jharkhand", map[string]float64{"Rice": 2200, "Maize": 1800, "Pulses": 5000, "Millets": 2500, "Potato": 1200}},
	{"kerala", map[string]float64{"Rice": 2300, "Maize": 1700, "Pulses": 4700, "Millets": 2300, "Potato": 1000}},
	{"punjab", map[string]float64{"Rice": 2100, "Maize": 1900, "Pulses": 5300, "Millets": 2600, "Potato": 1250}},
	{"west bengal", map[string]float64{"Rice": 2150, "Maize": 1850, "Pulses": 5100, "Millets": 2500, "Potato": 1150}},
	{"uttar pradesh", map[string]float64{"Rice": 2050, "Maize": 1800, "Pulses": 4950, "Millets": 2450, "Potato": 1175}},
	{"gujarat", map[string]float64{"Rice": 2250, "Maize": 1750, "Pulses": 4850, "Millets": 2400, "Potato": 1100}},
	{"haryana", map[string]float64{"Rice": 2100, "Maize": 1850, "Pulses": 5100, "Millets": 2600, "Potato": 1200}},
	{"madhya pradesh", map[string]float64{"Rice": 2100, "Maize": 1800, "Pulses": 5000, "Millets": 2550, "Potato": 1150}},
	{"assam", map[string]float64{"Rice": 2200, "Maize": 1650, "Pulses": 4700, "Millets": 2300, "Potato": 1050}},
	{"andhra pradesh", map[string]float64{"Rice": 2150, "Maize": 1750, "Pulses": 4900, "Millets": 2450, "Potato": 1100}},
	{"karnataka", map[string]float64{"Rice": 2150, "Maize": 1700, "Pulses": 4800, "Millets": 2400, "Potato": 1100}},
}

// boardStates are the states the connect board can infer; a superset of the priced regions.
var boardStates = []string{
	"tamil nadu", "jharkhand", "kerala", "punjab", "west bengal", "uttar pradesh",
	"gujarat", "haryana", "madhya pradesh", "assam", "andhra pradesh", "karnataka",
	"bihar", "maharashtra", "rajasthan",
}

// DefaultCityHints returns a copy of the built-in city hints.
func DefaultCityHints() []CityHint {
	return append([]CityHint(nil), defaultCityHints...)
}

// DefaultRegionPrices returns a copy of the built-in region price rows.
func DefaultRegionPrices() []RegionEntry {
	out := make([]RegionEntry, len(defaultRegionPrices))
	for i, e := range defaultRegionPrices {
		p := make(map[string]float64, len(e.Prices))
		for k, v := range e.Prices {
			p[k] = v
		}
		out[i] = RegionEntry{Region: e.Region, Prices: p}
	}
	return out
}

// DefaultPriceTable is the compiled-in price table.
func DefaultPriceTable() PriceTable {
	return NewPriceTable(defaultRegionPrices)
}

// DefaultResolver resolves locations to priced regions only.
func DefaultResolver() *Resolver {
	return NewResolver(defaultCityHints, DefaultPriceTable().Regions())
}

// BoardResolver resolves locations to any state with a connect board.
func BoardResolver() *Resolver {
	return NewResolver(defaultCityHints, boardStates)
}
