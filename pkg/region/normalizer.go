package region

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// DistrictTable maps raw area identifiers (districts and governorate
// resources) to canonical governorates.
type DistrictTable map[string]Governorate

// DefaultDistrictTable returns the district table of the published dataset.
// It carries the two mojibake spellings found in the upstream CSV next to
// their clean forms.
func DefaultDistrictTable() DistrictTable {
	return DistrictTable{
		"Baabda_District":           GovernorateMountLebanon,
		"Byblos_District":           GovernorateMountLebanon,
		"Keserwan_District":         GovernorateMountLebanon,
		"Aley_District":             GovernorateMountLebanon,
		"Matn_District":             GovernorateMountLebanon,
		"Mount_Lebanon_Governorate": GovernorateMountLebanon,

		"Tyre_District":     GovernorateSouth,
		"Sidon_District":    GovernorateSouth,
		"South_Governorate": GovernorateSouth,

		"Akkar_Governorate": GovernorateAkkar,

		"Bsharri_District":                           GovernorateNorth,
		"Batroun_District":                           GovernorateNorth,
		"Zgharta_District":                           GovernorateNorth,
		"Minieh-Danniyeh_District":                   GovernorateNorth,
		"Tripoli_District,_Lebanon":                  GovernorateNorth,
		"North_Governorate":                          GovernorateNorth,
		"Miniyeh\u2013Danniyeh_District":             GovernorateNorth,
		"Miniyeh\u00e2\u0080\u0093Danniyeh_District": GovernorateNorth,

		"Marjeyoun_District":   GovernorateNabatieh,
		"Bint_Jbeil_District":  GovernorateNabatieh,
		"Hasbaya_District":     GovernorateNabatieh,
		"Nabatieh_Governorate": GovernorateNabatieh,

		"Zahl\u00e9_District":       GovernorateBeqaa,
		"Western_Beqaa_District":    GovernorateBeqaa,
		"Beqaa_Governorate":         GovernorateBeqaa,
		"Zahl\u00c3\u00a9_District": GovernorateBeqaa,

		"Hermel_District":            GovernorateBaalbekHermel,
		"Baalbek-Hermel_Governorate": GovernorateBaalbekHermel,
	}
}

// Normalizer resolves area identifiers to governorates.
type Normalizer struct {
	table DistrictTable
}

// NewNormalizer creates a Normalizer over a private copy of the table.
func NewNormalizer(table DistrictTable) *Normalizer {
	tableCopy := make(DistrictTable, len(table))
	for token, governorate := range table {
		tableCopy[token] = governorate
	}
	return &Normalizer{table: tableCopy}
}

// Lookup resolves a token and reports whether the table knows it.
//
// The exact token is tried first, then its NFC form, then a repair of
// UTF-8 text that was decoded as Latin-1 upstream ("ZahlÃ©" -> "Zahlé").
func (normalizer *Normalizer) Lookup(token string) (Governorate, bool) {
	if token == "" {
		return GovernorateUnknown, false
	}
	for _, candidate := range tokenVariants(token) {
		if governorate, found := normalizer.table[candidate]; found {
			return governorate, true
		}
	}
	return GovernorateUnknown, false
}

// Normalize resolves a token, classifying unmapped tokens as
// GovernorateUnknown.
func (normalizer *Normalizer) Normalize(token string) Governorate {
	governorate, _ := normalizer.Lookup(token)
	return governorate
}

// NormalizeRefArea extracts the area identifier from a refArea URI and
// resolves it.
func (normalizer *Normalizer) NormalizeRefArea(refArea string) (string, Governorate) {
	areaIdentifier := ExtractAreaIdentifier(refArea)
	return areaIdentifier, normalizer.Normalize(areaIdentifier)
}

// Tokens returns the number of entries in the table.
func (normalizer *Normalizer) Tokens() int {
	return len(normalizer.table)
}

// Table returns a copy of the underlying table.
func (normalizer *Normalizer) Table() DistrictTable {
	tableCopy := make(DistrictTable, len(normalizer.table))
	for token, governorate := range normalizer.table {
		tableCopy[token] = governorate
	}
	return tableCopy
}

// tokenVariants returns the distinct spellings worth looking up for a token.
func tokenVariants(token string) []string {
	variants := []string{token}

	if composed := norm.NFC.String(token); composed != token {
		variants = append(variants, composed)
	}

	if repaired, ok := repairLatin1Mojibake(token); ok {
		variants = append(variants, repaired, norm.NFC.String(repaired))
	}

	return variants
}

// repairLatin1Mojibake reverses a UTF-8 -> Latin-1 mis-decoding. It only
// succeeds when every rune fits in Latin-1 and the recovered bytes form valid
// UTF-8 that differs from the input.
func repairLatin1Mojibake(token string) (string, bool) {
	rawBytes, err := charmap.ISO8859_1.NewEncoder().String(token)
	if err != nil {
		return "", false
	}
	if rawBytes == token || !utf8.ValidString(rawBytes) {
		return "", false
	}
	return rawBytes, true
}
