// Package demographics maps categorical demographic attributes to weighted
// text context terms used to bias embedding queries. The term tables are
// versioned with the product's demographic taxonomy; lookups are total and
// degrade to no terms on unknown or withheld values.
package demographics

import (
	"strconv"
	"strings"
)

// Attribute names accepted in a profile's demographics map.
const (
	AttrAge               = "age"
	AttrGenderIdentity    = "gender_identity"
	AttrEthnicity         = "ethnicity_racial_identity"
	AttrIndigenousStatus  = "indigenous_status"
	AttrSexualOrientation = "sexual_orientation"
	AttrIncomeRange       = "income_range"
	AttrDisabilityStatus  = "disability_status"
)

// preferNotToSay is the sentinel for withheld values; it maps to no terms.
const preferNotToSay = "prefer_not_to_say"

// attributeOrder fixes the iteration order so the derived term sequence, and
// therefore the demographic embedding, is reproducible: age first, then the
// remaining attributes.
var attributeOrder = []string{
	AttrAge,
	AttrGenderIdentity,
	AttrEthnicity,
	AttrIndigenousStatus,
	AttrSexualOrientation,
	AttrIncomeRange,
	AttrDisabilityStatus,
}

var ageTerms = map[string][]string{
	"under_18": {"student issues", "education", "youth programs", "campus life"},
	"18_24":    {"young adult", "student loans", "early career", "affordable housing"},
	"25_34":    {"young professional", "housing affordability", "career development"},
	"35_44":    {"family", "childcare", "career advancement", "home ownership"},
	"45_54":    {"middle age", "family", "financial planning"},
	"55_64":    {"pre-retirement", "pension", "healthcare"},
	"65_plus":  {"senior", "retirement", "healthcare", "social security"},
}

var genderIdentityTerms = map[string][]string{
	"woman":                   {"women's rights", "gender equality", "pay equity"},
	"man":                     {"men's health"},
	"non_binary":              {"gender identity", "2SLGBTQ+ rights", "anti-discrimination"},
	"two_spirit":              {"Two-Spirit", "Indigenous rights", "2SLGBTQ+ rights"},
	"prefer_to_self_describe": {"gender identity", "anti-discrimination"},
}

var ethnicityTerms = map[string][]string{
	"indigenous_first_nations_status":     {"First Nations", "Indigenous rights", "reconciliation"},
	"indigenous_first_nations_non_status": {"First Nations", "Indigenous rights", "reconciliation"},
	"metis":                               {"Métis", "Indigenous rights", "reconciliation"},
	"inuit":                               {"Inuit", "Indigenous rights", "northern communities"},
	"black":                               {"anti-racism", "racial equity", "Black communities"},
	"east_asian":                          {"anti-racism", "immigration", "multiculturalism"},
	"south_asian":                         {"anti-racism", "immigration", "multiculturalism"},
	"southeast_asian":                     {"anti-racism", "immigration", "multiculturalism"},
	"middle_eastern_north_african":        {"anti-racism", "immigration", "multiculturalism"},
	"latino_hispanic":                     {"anti-racism", "immigration", "multiculturalism"},
	"mixed_ethnicity":                     {"multiculturalism", "racial equity"},
	// white_caucasian and other carry no topical bias
}

var indigenousStatusTerms = map[string][]string{
	"first_nations_status":     {"First Nations", "treaty rights", "Indigenous services"},
	"first_nations_non_status": {"First Nations", "Indigenous rights"},
	"metis":                    {"Métis", "Indigenous rights"},
	"inuit":                    {"Inuit", "northern communities", "Indigenous services"},
	// not_indigenous carries no topical bias
}

var sexualOrientationTerms = map[string][]string{
	"gay":                     {"2SLGBTQ+ rights", "anti-discrimination"},
	"lesbian":                 {"2SLGBTQ+ rights", "anti-discrimination"},
	"bisexual":                {"2SLGBTQ+ rights", "anti-discrimination"},
	"pansexual":               {"2SLGBTQ+ rights", "anti-discrimination"},
	"asexual":                 {"2SLGBTQ+ rights", "anti-discrimination"},
	"queer":                   {"2SLGBTQ+ rights", "anti-discrimination"},
	"prefer_to_self_describe": {"2SLGBTQ+ rights"},
	// heterosexual_straight carries no topical bias
}

var incomeRangeTerms = map[string][]string{
	"under_20000":   {"poverty reduction", "income assistance", "minimum wage", "affordable housing"},
	"20000_39999":   {"low income", "minimum wage", "affordable housing", "cost of living"},
	"40000_59999":   {"working class", "cost of living", "tax relief"},
	"60000_79999":   {"middle class", "tax relief", "cost of living"},
	"80000_99999":   {"middle class", "tax policy"},
	"100000_149999": {"tax policy", "investment"},
	"150000_200000": {"tax policy", "investment", "business"},
	"200000_250000": {"wealth", "investment", "business"},
}

var disabilityStatusTerms = map[string][]string{
	"physical_disability":           {"disability rights", "accessibility", "disability benefits"},
	"sensory_disability":            {"disability rights", "accessibility"},
	"cognitive_learning_disability": {"disability rights", "inclusive education"},
	"mental_health_disability":      {"mental health", "disability benefits"},
	"chronic_illness":               {"healthcare", "chronic illness", "disability benefits"},
	// no_disability carries no topical bias
}

// terms indexes the per-attribute tables by attribute name.
var terms = map[string]map[string][]string{
	AttrAge:               ageTerms,
	AttrGenderIdentity:    genderIdentityTerms,
	AttrEthnicity:         ethnicityTerms,
	AttrIndigenousStatus:  indigenousStatusTerms,
	AttrSexualOrientation: sexualOrientationTerms,
	AttrIncomeRange:       incomeRangeTerms,
	AttrDisabilityStatus:  disabilityStatusTerms,
}

// ContextTerms derives the ordered context term sequence for a demographics
// map. Unknown attribute keys, unknown values, and withheld values contribute
// nothing; the function never fails.
func ContextTerms(demographics map[string]string) []string {
	if len(demographics) == 0 {
		return nil
	}

	var out []string
	for _, attr := range attributeOrder {
		raw, ok := demographics[attr]
		if !ok {
			continue
		}
		out = append(out, lookup(attr, raw)...)
	}
	return out
}

// lookup resolves one (attribute, value) pair against the static tables.
func lookup(attr, raw string) []string {
	value := Normalize(raw)
	if value == "" || value == preferNotToSay {
		return nil
	}
	if attr == AttrAge {
		value = AgeBracket(value)
	}
	return terms[attr][value]
}

// Normalize lowercases a value and folds whitespace and hyphens to underscores
// so table keys match regardless of input formatting ("25-34" == "25_34").
func Normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}

// AgeBracket buckets a numeric age string into a bracket key. Values that are
// already bracket keys pass through unchanged.
func AgeBracket(value string) string {
	age, err := strconv.Atoi(value)
	if err != nil {
		return value
	}
	switch {
	case age < 18:
		return "under_18"
	case age < 25:
		return "18_24"
	case age < 35:
		return "25_34"
	case age < 45:
		return "35_44"
	case age < 55:
		return "45_54"
	case age < 65:
		return "55_64"
	default:
		return "65_plus"
	}
}
