// Package resolve turns a free-text subject into a concrete entity, or a
// set of disambiguation options when the subject is ambiguous.
package resolve

import (
	"strings"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// staticAmbiguous is the table of well-known ambiguous names. It works
// offline and is merged with knowledge-service candidates, so names like
// "apple" always disambiguate even when the lookup service is down.
var staticAmbiguous = map[string][]types.DisambiguationOption{
	"apple": {
		{Label: "Apple Inc.", Description: "Consumer electronics and software company", Domain: "apple.com"},
		{Label: "Apple Records", Description: "Record label founded by the Beatles", Domain: "applerecords.com"},
	},
	"amazon": {
		{Label: "Amazon.com", Description: "E-commerce and cloud computing company", Domain: "amazon.com"},
		{Label: "Amazon (river)", Description: "South American river and rainforest region"},
	},
	"delta": {
		{Label: "Delta Air Lines", Description: "US airline", Domain: "delta.com"},
		{Label: "Delta Faucet Company", Description: "Plumbing fixture manufacturer", Domain: "deltafaucet.com"},
	},
	"visa": {
		{Label: "Visa Inc.", Description: "Payment network", Domain: "visa.com"},
		{Label: "Visa (travel document)", Description: "Travel authorization document"},
	},
	"oracle": {
		{Label: "Oracle Corporation", Description: "Enterprise software and cloud company", Domain: "oracle.com"},
		{Label: "Oracle of Delphi", Description: "Ancient Greek religious site"},
	},
	"shell": {
		{Label: "Shell plc", Description: "Oil and gas company", Domain: "shell.com"},
		{Label: "Shell (computing)", Description: "Command-line interpreter"},
	},
	"jaguar": {
		{Label: "Jaguar Land Rover", Description: "British automaker", Domain: "jaguar.com"},
		{Label: "Jaguar (animal)", Description: "Large cat native to the Americas"},
	},
	"mercury": {
		{Label: "Mercury Insurance", Description: "US insurance group", Domain: "mercuryinsurance.com"},
		{Label: "Mercury (planet)", Description: "Smallest planet in the Solar System"},
		{Label: "Mercury Records", Description: "Record label", Domain: "mercuryrecords.com"},
	},
}

// staticCandidates returns the static-table options for a name, matching
// case-insensitively on the whole input.
func staticCandidates(input string) []types.DisambiguationOption {
	options := staticAmbiguous[strings.ToLower(strings.TrimSpace(input))]
	return append([]types.DisambiguationOption(nil), options...)
}
