package main

// modelDef describes one image model: the pinned API identifier plus the
// pricing needed for cost reports.
type modelDef struct {
	ID            string
	Family        string
	InputPerMTok  float64            // USD per million input tokens
	OutputPerMTok float64            // USD per million output text tokens
	ImagePrices   map[string]float64 // USD per generated image, by size
}

var modelDefs = map[string]modelDef{
	"flash-2.5": {
		ID:            "gemini-2.5-flash-image",
		Family:        "flash",
		InputPerMTok:  0.30,
		OutputPerMTok: 2.50,
		ImagePrices:   map[string]float64{"1K": 0.039},
	},
	"flash-3.1": {
		ID:            "gemini-3.1-flash-image-preview",
		Family:        "flash",
		InputPerMTok:  0.30,
		OutputPerMTok: 2.50,
		ImagePrices:   map[string]float64{"1K": 0.039},
	},
	"pro-3.0": {
		ID:            "gemini-3-pro-image-preview",
		Family:        "pro",
		InputPerMTok:  2.00,
		OutputPerMTok: 12.00,
		ImagePrices:   map[string]float64{"1K": 0.134, "2K": 0.134, "4K": 0.24},
	},
}

// modelAliases map the short names accepted by -m to pinned catalog entries.
var modelAliases = map[string]string{
	"flash": "flash-2.5",
	"pro":   "pro-3.0",
}

const pricesCollected = "2026-08-12"

var validRatios = map[string]bool{
	"1:1": true, "2:3": true, "3:2": true, "3:4": true, "4:3": true,
	"4:5": true, "9:16": true, "5:4": true, "16:9": true, "21:9": true,
}

// resolveModel maps an alias or pinned name to its catalog entry.
func resolveModel(name string) (string, modelDef, bool) {
	if pinned, ok := modelAliases[name]; ok {
		name = pinned
	}
	def, ok := modelDefs[name]
	return name, def, ok
}

func isKnownModel(name string) bool {
	_, _, ok := resolveModel(name)
	return ok
}
