package maritime

import (
	"log/slog"
	"strconv"
)

// IntegerFields are converted to int when the resolved value is all ASCII digits.
var IntegerFields = []string{
	FieldTotalAutomobilesDischarge, FieldHeavyEquipmentDischarge,
	FieldMBCount, FieldBMWCount, FieldLRCount, FieldRRCount,
	FieldAudi, FieldPorsche, FieldMini, FieldJaguar,
	FieldBRVTarget, FieldZEETarget, FieldSOUTarget,
	FieldTotalDrivers, FieldBreakDuration, FieldElectricVehicles, FieldStaticCargo,
	FieldZoneA, FieldZoneB, FieldZoneC,
	FieldNumVans, FieldNumStationWagons,
}

// FloatFields are converted to float64 when parseable.
var FloatFields = []string{FieldExpectedRate}

func isFloatField(name string) bool {
	for _, f := range FloatFields {
		if f == name {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Coerce converts the numeric fields of rec in place. Values that do not parse
// stay strings; this never fails.
func Coerce(rec Record, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, k := range IntegerFields {
		s, ok := rec[k].(string)
		if !ok {
			continue
		}
		if !isDigits(s) {
			logger.Debug("coercion skipped", "field", k, "value", s)
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			logger.Debug("coercion skipped", "field", k, "value", s, "error", err)
			continue
		}
		rec[k] = n
	}
	for _, k := range FloatFields {
		s, ok := rec[k].(string)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			logger.Debug("coercion skipped", "field", k, "value", s, "error", err)
			continue
		}
		rec[k] = f
	}
}
