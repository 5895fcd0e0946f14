package pricing

// Manifest is the versioned table of rates and rounding parameters used
// by every estimator. A manifest is immutable once built; publishing new
// rates means constructing a new value with a new Version and passing it
// where the old one was passed. Nothing in this package mutates a
// manifest after construction, so it is safe to share across goroutines.
type Manifest struct {
	// Version identifies this rate table (e.g. "2026-06-01").
	Version string

	// Models maps a transcription model ID to its rate.
	Models []ModelRate

	// Duration quantization.
	QuantumSeconds     int
	MinBillableSeconds int

	// Flat per-item and per-run overheads, in processing units.
	PerItemOverhead int64
	PerRunOverhead  int64

	// Text-cost tuning. These were fixed constants in earlier deployments;
	// they are carried in the manifest so a new version can retune them
	// without a code change.
	CharsPerUnit      int64 // characters of normalized text per input unit
	PromptOverhead    int64 // units added per downstream request for the prompt
	PerTargetOverhead int64 // units added per target language
	OutputRatioPct    int64 // expected output length as percent of input (e.g. 130)

	// Duration-fallback heuristics for media without a transcript yet.
	WordsPerMinute int64
	CharsPerWord   int64

	// Currency conversion.
	VendorCentsPerMillion int64 // vendor list price, cents per 1M units
	TokensPerUSD          int64 // media tokens granted per whole dollar

	// Packs available for purchase, exported for the UI.
	Packs []Pack
}

// ModelRate is the per-minute price of one transcription model.
type ModelRate struct {
	ID              string
	Label           string
	TokensPerMinute int64
}

// Pack is a purchasable bundle of media tokens.
type Pack struct {
	ID     string
	Label  string
	Tokens int64
	USD    int64 // whole dollars
}

// RateFor returns the per-minute rate for a model ID. Unknown models
// price at zero rather than failing; the server re-estimates with the
// authoritative manifest before anything is charged.
func (m *Manifest) RateFor(modelID string) int64 {
	for _, mr := range m.Models {
		if mr.ID == modelID {
			return mr.TokensPerMinute
		}
	}
	return 0
}

// BillableSeconds applies the manifest's quantization policy.
func (m *Manifest) BillableSeconds(rawSeconds float64) int {
	return BillableSeconds(rawSeconds, m.QuantumSeconds, m.MinBillableSeconds)
}

// Default returns the manifest shipped with this build. Deployments
// normally override fields from the environment (see config.Load) and
// bump Version alongside any rate change.
func Default() *Manifest {
	return &Manifest{
		Version: "2026-06-01",
		Models: []ModelRate{
			{ID: "scribe-standard", Label: "Standard", TokensPerMinute: 24},
			{ID: "scribe-enhanced", Label: "Enhanced", TokensPerMinute: 48},
		},
		QuantumSeconds:     1,
		MinBillableSeconds: 1,
		PerItemOverhead:    2,
		PerRunOverhead:     5,

		CharsPerUnit:      4,
		PromptOverhead:    300,
		PerTargetOverhead: 20,
		OutputRatioPct:    130,

		WordsPerMinute: 150,
		CharsPerWord:   6,

		VendorCentsPerMillion: 20000, // $0.20 per 1K units at list
		TokensPerUSD:          100,

		Packs: []Pack{
			{ID: "starter", Label: "Starter", Tokens: 500, USD: 5},
			{ID: "creator", Label: "Creator", Tokens: 2200, USD: 20},
			{ID: "studio", Label: "Studio", Tokens: 6000, USD: 50},
		},
	}
}

// Export is the wire shape of the manifest consumed by the UI and the
// client-side estimator. All numeric fields are plain integers.
type Export struct {
	PricingVersion     string        `json:"pricing_version"`
	TokensPerUSD       int64         `json:"tokens_per_usd"`
	QuantumSeconds     int           `json:"quantum_seconds"`
	MinBillableSeconds int           `json:"min_billable_seconds"`
	PerItemOverhead    int64         `json:"per_item_overhead"`
	PerRunOverhead     int64         `json:"per_run_overhead"`
	Models             []ModelExport `json:"models"`
	Packs              []PackExport  `json:"packs"`
}

// ModelExport is one model row in the manifest export.
type ModelExport struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	TokensPerMinute int64  `json:"tokens_per_minute"`
}

// PackExport is one purchasable pack in the manifest export.
type PackExport struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Tokens int64  `json:"tokens"`
	USD    int64  `json:"usd"`
}

// Export builds the wire representation of the manifest.
func (m *Manifest) Export() Export {
	e := Export{
		PricingVersion:     m.Version,
		TokensPerUSD:       m.TokensPerUSD,
		QuantumSeconds:     m.QuantumSeconds,
		MinBillableSeconds: m.MinBillableSeconds,
		PerItemOverhead:    m.PerItemOverhead,
		PerRunOverhead:     m.PerRunOverhead,
		Models:             make([]ModelExport, 0, len(m.Models)),
		Packs:              make([]PackExport, 0, len(m.Packs)),
	}
	for _, mr := range m.Models {
		e.Models = append(e.Models, ModelExport{ID: mr.ID, Label: mr.Label, TokensPerMinute: mr.TokensPerMinute})
	}
	for _, p := range m.Packs {
		e.Packs = append(e.Packs, PackExport{ID: p.ID, Label: p.Label, Tokens: p.Tokens, USD: p.USD})
	}
	return e
}
