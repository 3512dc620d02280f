package maritime

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Output field names.
const (
	FieldVesselName                = "vesselName"
	FieldVesselType                = "vesselType"
	FieldPort                      = "port"
	FieldOperationDate             = "operationDate"
	FieldCompany                   = "company"
	FieldTotalAutomobilesDischarge = "totalAutomobilesDischarge"
	FieldHeavyEquipmentDischarge   = "heavyEquipmentDischarge"
	FieldMBCount                   = "mbCount"
	FieldBMWCount                  = "bmwCount"
	FieldLRCount                   = "lrCount"
	FieldRRCount                   = "rrCount"
	FieldAudi                      = "audi"
	FieldPorsche                   = "porsche"
	FieldMini                      = "mini"
	FieldJaguar                    = "jaguar"
	FieldOperationType             = "operationType"
	FieldAutoOperationsLead        = "autoOperationsLead"
	FieldAutoOperationsAssistant   = "autoOperationsAssistant"
	FieldHeavyHeavyLead            = "heavyHeavyLead"
	FieldHeavyHeavyAssistant       = "heavyHeavyAssistant"
	FieldOperationManager          = "operationManager"
	FieldBerthLocation             = "berthLocation"
	FieldExpectedRate              = "expectedRate"
	FieldTotalDrivers              = "totalDrivers"
	FieldShiftStart                = "shiftStart"
	FieldShiftEnd                  = "shiftEnd"
	FieldBreakDuration             = "breakDuration"
	FieldElectricVehicles          = "electricVehicles"
	FieldStaticCargo               = "staticCargo"
	FieldCargoType                 = "cargoType"
	FieldZoneA                     = "zoneA"
	FieldZoneADescription          = "zoneADescription"
	FieldZoneB                     = "zoneB"
	FieldZoneBDescription          = "zoneBDescription"
	FieldZoneC                     = "zoneC"
	FieldZoneCDescription          = "zoneCDescription"
	FieldBRVTarget                 = "brvTarget"
	FieldZEETarget                 = "zeeTarget"
	FieldSOUTarget                 = "souTarget"
	FieldNumVans                   = "numVans"
	FieldNumStationWagons          = "numStationWagons"
)

// MaxTransportIDs is the number of individually numbered van and wagon IDs.
const MaxTransportIDs = 15

// VanIDField returns the field name of the n-th van ID (1-based).
func VanIDField(n int) string { return fmt.Sprintf("vanId%d", n) }

// WagonIDField returns the field name of the n-th station wagon ID (1-based).
func WagonIDField(n int) string { return fmt.Sprintf("wagonId%d", n) }

var vocabulary = buildVocabulary()

func buildVocabulary() []string {
	v := []string{
		FieldVesselName, FieldVesselType, FieldPort, FieldOperationDate, FieldCompany,
		FieldTotalAutomobilesDischarge, FieldHeavyEquipmentDischarge,
		FieldMBCount, FieldBMWCount, FieldLRCount, FieldRRCount,
		FieldAudi, FieldPorsche, FieldMini, FieldJaguar,
		FieldOperationType,
		FieldAutoOperationsLead, FieldAutoOperationsAssistant,
		FieldHeavyHeavyLead, FieldHeavyHeavyAssistant,
		FieldOperationManager, FieldBerthLocation,
		FieldExpectedRate, FieldTotalDrivers, FieldShiftStart, FieldShiftEnd, FieldBreakDuration,
		FieldElectricVehicles, FieldStaticCargo, FieldCargoType,
		FieldZoneA, FieldZoneADescription, FieldZoneB, FieldZoneBDescription, FieldZoneC, FieldZoneCDescription,
		FieldBRVTarget, FieldZEETarget, FieldSOUTarget,
		FieldNumVans, FieldNumStationWagons,
	}
	for i := 1; i <= MaxTransportIDs; i++ {
		v = append(v, VanIDField(i))
	}
	for i := 1; i <= MaxTransportIDs; i++ {
		v = append(v, WagonIDField(i))
	}
	return v
}

// Vocabulary returns the fixed, ordered set of field names a Record may carry.
func Vocabulary() []string {
	return append([]string(nil), vocabulary...)
}

// InVocabulary reports whether name is a known output field.
func InVocabulary(name string) bool {
	for _, f := range vocabulary {
		if f == name {
			return true
		}
	}
	return false
}

// Record is the sparse result of one extraction. Values are string, int or float64.
// A missing key means the field was not found.
type Record map[string]any

// String returns the value of field as a string when it is one.
func (r Record) String(field string) (string, bool) {
	s, ok := r[field].(string)
	return s, ok
}

// Int returns the value of field when it was coerced to an integer.
func (r Record) Int(field string) (int, bool) {
	n, ok := r[field].(int)
	return n, ok
}

// Keys returns the populated field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JSON encodes the record. Keys come out sorted.
func (r Record) JSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(r))
}

// DecodeRecord parses a record previously produced by Record.JSON.
// Whole JSON numbers come back as int, the rest as float64.
func DecodeRecord(b []byte) (Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	rec := make(Record, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			rec[k] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return nil, fmt.Errorf("decode record field %q: %w", k, err)
		}
		if i, err := n.Int64(); err == nil && !isFloatField(k) {
			rec[k] = int(i)
		} else if f, err := n.Float64(); err == nil {
			rec[k] = f
		}
	}
	return rec, nil
}
