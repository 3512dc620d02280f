package maritime

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

// NormalizeFunc maps a raw capture to its canonical value. Returning false drops
// the capture, which then counts as a miss.
type NormalizeFunc func(raw string) (string, bool)

// Rule is one (predicate, constant) override. Match receives the lowercased capture.
type Rule struct {
	Match func(lower string) bool
	Value string
}

func contains(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func matches(expr string) func(string) bool {
	re := regexp.MustCompile(expr)
	return re.MatchString
}

// ApplyRules returns the value of the first rule whose predicate holds, or raw.
func ApplyRules(rules []Rule, raw string) string {
	lower := strings.ToLower(raw)
	for _, r := range rules {
		if r.Match(lower) {
			return r.Value
		}
	}
	return raw
}

// vesselTypeRules buckets free-text vessel types.
var vesselTypeRules = []Rule{
	{Match: contains("auto", "car"), Value: constants.VesselAutoCarrier},
	{Match: contains("roro", "ro-ro"), Value: constants.VesselRoRo},
	{Match: contains("container"), Value: constants.VesselContainer},
	{Match: contains("multi"), Value: constants.VesselMultiPurpose},
}

// portRules override captures naming a known port.
var portRules = []Rule{
	{Match: contains("colonel"), Value: constants.PortColonelIsland},
	{Match: matches(`brunswick,\s*ga\b`), Value: constants.PortBrunswickGA},
}

// companyRules override captures naming a known stevedoring company. The short
// codes must stand alone as words.
var companyRules = []Rule{
	{Match: matches(`\baps\b`), Value: constants.CompanyAPS},
	{Match: matches(`\bssa\b`), Value: constants.CompanySSA},
	{Match: matches(`\bports\b`), Value: constants.CompanyPortsAmerica},
}

// operationTypeRules classify by the discharge/loading tokens. The combined rule
// must stay first.
var operationTypeRules = []Rule{
	{
		Match: func(s string) bool { return strings.Contains(s, "discharge") && strings.Contains(s, "loading") },
		Value: constants.OperationDischargeLoading,
	},
	{Match: contains("discharge"), Value: constants.OperationDischargeOnly},
	{Match: contains("loading"), Value: constants.OperationLoadingOnly},
}

// NormalizeVesselType buckets a vessel type capture.
func NormalizeVesselType(raw string) (string, bool) { return ApplyRules(vesselTypeRules, raw), true }

// NormalizePort canonicalizes a port capture.
func NormalizePort(raw string) (string, bool) { return ApplyRules(portRules, raw), true }

// NormalizeCompany canonicalizes a stevedoring company capture.
func NormalizeCompany(raw string) (string, bool) { return ApplyRules(companyRules, raw), true }

// NormalizeOperationType classifies an operation type capture.
func NormalizeOperationType(raw string) (string, bool) {
	return ApplyRules(operationTypeRules, raw), true
}

// NormalizeDate rewrites YYYY-MM-DD, M/D/YYYY, M/D/YY and M-D-YYYY to zero-padded
// YYYY-MM-DD. A 4-digit first segment means the date is already year-first;
// otherwise the last segment is the year. Two-digit years are widened to 20YY.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	var sep string
	switch {
	case strings.Contains(raw, "/"):
		sep = "/"
	case strings.Contains(raw, "-"):
		sep = "-"
	default:
		return "", false
	}
	parts := strings.Split(raw, sep)
	if len(parts) != 3 {
		return "", false
	}
	for _, p := range parts {
		if p == "" || !isDigits(p) {
			return "", false
		}
	}

	var year, month, day string
	if sep == "-" && len(parts[0]) == 4 {
		year, month, day = parts[0], parts[1], parts[2]
	} else {
		month, day = parts[0], parts[1]
		switch len(parts[2]) {
		case 4:
			year = parts[2]
		case 2:
			year = "20" + parts[2]
		default:
			return "", false
		}
	}
	if len(month) > 2 || len(day) > 2 {
		return "", false
	}
	return year + "-" + zfill2(month) + "-" + zfill2(day), true
}

func zfill2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// NormalizeBerth rewrites a bare berth number to "Berth n".
func NormalizeBerth(raw string) (string, bool) {
	switch raw {
	case "1", "2", "3":
		return "Berth " + raw, true
	}
	return raw, true
}
