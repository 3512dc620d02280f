package maritime

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

// FieldSpec is one output field: an ordered pattern list and an optional normalizer.
type FieldSpec struct {
	Name      string
	Patterns  []Pattern
	Normalize NormalizeFunc
}

// Library is the full rule table. An Engine keeps its own copy, so a Library is
// read-only once an Engine has been built from it.
type Library struct {
	Fields   []FieldSpec
	Sections []SectionSpec
}

var defaultLibrary = buildDefaultLibrary()

// DefaultLibrary returns a copy of the process-wide rule table. Changing the copy
// does not affect engines built from the default table.
func DefaultLibrary() *Library { return defaultLibrary.clone() }

func (l *Library) clone() *Library {
	out := &Library{
		Fields:   make([]FieldSpec, len(l.Fields)),
		Sections: make([]SectionSpec, len(l.Sections)),
	}
	for i, f := range l.Fields {
		f.Patterns = append([]Pattern(nil), f.Patterns...)
		out.Fields[i] = f
	}
	for i, s := range l.Sections {
		s.Ends = append([]*regexp.Regexp(nil), s.Ends...)
		fields := make([]SectionField, len(s.Fields))
		for j, sf := range s.Fields {
			sf.Patterns = append([]Pattern(nil), sf.Patterns...)
			fields[j] = sf
		}
		s.Fields = fields
		out.Sections[i] = s
	}
	return out
}

// Field returns the named simple field.
func (l *Library) Field(name string) (FieldSpec, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Label separators and free-text capture bodies use horizontal whitespace only, so
// an empty label never takes its value from the next line.
const (
	sep = `(?:[ \t]*:[ \t]*|[ \t]+)`

	alnumText   = `([A-Za-z0-9][A-Za-z0-9 \t]*)`
	nameText    = `([A-Za-z][A-Za-z \t]*)`
	typeText    = `([A-Za-z][A-Za-z \t-]*)`
	placeText   = `([A-Za-z][A-Za-z \t,]*)`
	companyText = `([A-Za-z][A-Za-z \t.&]*)`
	cargoText   = `([A-Za-z0-9][A-Za-z0-9 \t-]*)`
	clockTime   = `(\d{1,2}:\d{2}(?:[ \t]*[AP]M)?)`
)

func count(label string) Pattern { return Capture(label + sep + `(\d+)`) }

func buildDefaultLibrary() *Library {
	fields := []FieldSpec{
		{Name: FieldVesselName, Patterns: []Pattern{
			Capture(`vessel\s*name` + sep + alnumText),
			Capture(`ship\s*name` + sep + alnumText),
			Capture(`\bmv[ \t]+` + alnumText),
			Capture(`\bm/v[ \t]+` + alnumText),
			Capture(`\bvessel[ \t]*:[ \t]*` + alnumText),
		}},
		{Name: FieldVesselType, Normalize: NormalizeVesselType, Patterns: []Pattern{
			Capture(`vessel\s*type` + sep + typeText),
			Capture(`ship\s*type` + sep + typeText),
			Capture(`\btype` + sep + `(auto\s*carrier|roro|ro-ro|container|multi-purpose)`),
		}},
		{Name: FieldPort, Normalize: NormalizePort, Patterns: []Pattern{
			Capture(`\bport` + sep + placeText),
			Capture(`\bdestination` + sep + placeText),
			Probe(`colonel\s*island`, constants.PortColonelIsland),
			Probe(`brunswick,\s*ga\b`, constants.PortBrunswickGA),
			Probe(`brunswick`, constants.PortBrunswick),
			Probe(`savannah`, constants.PortSavannah),
			Probe(`charleston`, constants.PortCharleston),
		}},
		{Name: FieldOperationDate, Normalize: NormalizeDate, Patterns: []Pattern{
			Capture(`(\d{4}-\d{2}-\d{2})`),
			Capture(`(\d{1,2}/\d{1,2}/\d{4})`),
			Capture(`(\d{1,2}-\d{1,2}-\d{4})`),
			Capture(`date` + sep + `(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		}},
		{Name: FieldCompany, Normalize: NormalizeCompany, Patterns: []Pattern{
			Capture(`stevedoring(?:[ \t]*company` + sep + `|[ \t]*:[ \t]*)` + companyText),
			Capture(`\bcompany` + sep + companyText),
			Probe(`aps\s*stevedoring`, constants.CompanyAPS),
			Probe(`ssa\s*marine`, constants.CompanySSA),
			Probe(`ports\s*america`, constants.CompanyPortsAmerica),
		}},
		{Name: FieldTotalAutomobilesDischarge, Patterns: []Pattern{
			count(`total\s*automobiles\s*to\s*discharge`),
			count(`total\s*vehicles?`),
			count(`\bautomobiles?`),
			count(`\bcars?`),
		}},
		{Name: FieldHeavyEquipmentDischarge, Patterns: []Pattern{
			count(`heavy\s*equipment\s*to\s*discharge`),
			count(`heavy\s*equipment`),
			count(`\bhh`),
			count(`high\s*&\s*heavy`),
		}},

		// Brand counts take either the full name or the short code; Match
		// keeps whichever group captured.
		{Name: FieldMBCount, Patterns: []Pattern{
			Capture(`mercedes[-\s]*benz\s*\(MB\)` + sep + `(\d+)|\bmb` + sep + `(\d+)`),
		}},
		{Name: FieldBMWCount, Patterns: []Pattern{count(`\bbmw`)}},
		{Name: FieldLRCount, Patterns: []Pattern{
			Capture(`land\s*rover\s*\(LR\)` + sep + `(\d+)|\blr` + sep + `(\d+)`),
		}},
		{Name: FieldRRCount, Patterns: []Pattern{
			Capture(`rolls[-\s]*royce\s*\(RR\)` + sep + `(\d+)|\brr` + sep + `(\d+)`),
		}},
		{Name: FieldAudi, Patterns: []Pattern{count(`\baudi`)}},
		{Name: FieldPorsche, Patterns: []Pattern{count(`\bporsche`)}},
		{Name: FieldMini, Patterns: []Pattern{count(`\bmini`)}},
		{Name: FieldJaguar, Patterns: []Pattern{count(`\bjaguar`)}},

		{Name: FieldOperationType, Normalize: NormalizeOperationType, Patterns: []Pattern{
			Capture(`operation\s*type` + sep + `(discharge\s*\+\s*loading|discharge\s*only|loading\s*only)`),
			Capture(`(discharge\s*\+\s*loading|discharge\s*only|loading\s*only)`),
		}},
		{Name: FieldOperationManager, Patterns: []Pattern{
			Capture(`operation\s*manager` + sep + nameText),
			Capture(`\bmanager` + sep + nameText),
			Probe(`john\s+smith`, "John Smith"),
		}},
		{Name: FieldBerthLocation, Normalize: NormalizeBerth, Patterns: []Pattern{
			Capture(`berth\s*location` + sep + `(Berth\s*[1-3])\b`),
			Capture(`berth` + sep + `(Berth\s*[1-3])\b`),
			Capture(`berth\s*location` + sep + `([1-3])\b`),
			Capture(`berth` + sep + `([1-3])\b`),
		}},
		{Name: FieldExpectedRate, Patterns: []Pattern{
			Capture(`expected\s*rate` + sep + `(\d+(?:\.\d+)?)\s*cars/hour`),
			Capture(`expected\s*rate` + sep + `(\d+(?:\.\d+)?)`),
		}},
		{Name: FieldTotalDrivers, Patterns: []Pattern{count(`total\s*drivers`)}},
		{Name: FieldShiftStart, Patterns: []Pattern{Capture(`shift\s*start\s*time` + sep + clockTime)}},
		{Name: FieldShiftEnd, Patterns: []Pattern{Capture(`shift\s*end\s*time` + sep + clockTime)}},
		{Name: FieldBreakDuration, Patterns: []Pattern{
			Capture(`break\s*duration` + sep + `(\d+)\s*minutes`),
			count(`break\s*duration`),
		}},
		{Name: FieldElectricVehicles, Patterns: []Pattern{count(`electric\s*vehicles`)}},
		{Name: FieldStaticCargo, Patterns: []Pattern{count(`static\s*cargo\s*units`)}},
		{Name: FieldCargoType, Patterns: []Pattern{Capture(`cargo\s*brand/type` + sep + cargoText)}},
	}

	for _, z := range []struct{ letter, vehicles, desc string }{
		{"A", FieldZoneA, FieldZoneADescription},
		{"B", FieldZoneB, FieldZoneBDescription},
		{"C", FieldZoneC, FieldZoneCDescription},
	} {
		fields = append(fields,
			FieldSpec{Name: z.vehicles, Patterns: []Pattern{count(`zone\s*` + z.letter + `\s*-\s*vehicles`)}},
			FieldSpec{Name: z.desc, Patterns: []Pattern{Capture(`zone\s*` + z.letter + `\s*-\s*description` + sep + `(.+)`)}},
		)
	}

	fields = append(fields,
		FieldSpec{Name: FieldBRVTarget, Patterns: []Pattern{count(`\bBRV\s*loading\s*target`)}},
		FieldSpec{Name: FieldZEETarget, Patterns: []Pattern{count(`\bZEE\s*loading\s*target`)}},
		FieldSpec{Name: FieldSOUTarget, Patterns: []Pattern{count(`\bSOU\s*loading\s*target`)}},
		FieldSpec{Name: FieldNumVans, Patterns: []Pattern{count(`number\s*of\s*vans`)}},
		FieldSpec{Name: FieldNumStationWagons, Patterns: []Pattern{count(`number\s*of\s*station\s*wagons`)}},
	)
	for i := 1; i <= MaxTransportIDs; i++ {
		fields = append(fields, FieldSpec{
			Name:     VanIDField(i),
			Patterns: []Pattern{Capture(fmt.Sprintf(`\bvan\s*%d\s*ID` + sep + `([A-Za-z0-9]+)`, i))},
		})
	}
	for i := 1; i <= MaxTransportIDs; i++ {
		fields = append(fields, FieldSpec{
			Name:     WagonIDField(i),
			Patterns: []Pattern{Capture(fmt.Sprintf(`station\s*wagon\s*%d\s*ID` + sep + `([A-Za-z0-9]+)`, i))},
		})
	}

	return &Library{Fields: fields, Sections: teamSections()}
}

func teamSections() []SectionSpec {
	autoStart := regexp.MustCompile(`(?i)auto\s*operations\s*team\s*:`)
	heavyStart := regexp.MustCompile(`(?i)(?:high\s*&\s*heavy|heavy\s*equipment)\s*team\s*:`)
	headers := []*regexp.Regexp{
		regexp.MustCompile(`(?i)cargo\s+configuration`),
		regexp.MustCompile(`(?i)operational\s+parameters`),
		regexp.MustCompile(`(?i)stevedore\s+team\s+assignments`),
	}
	lead := []Pattern{Capture(`lead\s*supervisor` + sep + nameText)}
	assistant := []Pattern{Capture(`assistant\s*supervisor` + sep + nameText)}

	return []SectionSpec{
		{
			Name:  "auto_operations",
			Start: autoStart,
			Ends:  append([]*regexp.Regexp{heavyStart}, headers...),
			Fields: []SectionField{
				{Output: FieldAutoOperationsLead, Patterns: lead},
				{Output: FieldAutoOperationsAssistant, Patterns: assistant},
			},
		},
		{
			Name:  "heavy_equipment",
			Start: heavyStart,
			Ends:  append([]*regexp.Regexp{autoStart}, headers...),
			Fields: []SectionField{
				{Output: FieldHeavyHeavyLead, Patterns: lead},
				{Output: FieldHeavyHeavyAssistant, Patterns: assistant},
			},
		},
	}
}
