package maritime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

func TestNormalizeVesselType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Auto Carrier", constants.VesselAutoCarrier},
		{"PCTC car carrier", constants.VesselAutoCarrier},
		{"RORO", constants.VesselRoRo},
		{"ro-ro", constants.VesselRoRo},
		{"Container", constants.VesselContainer},
		{"multi-purpose", constants.VesselMultiPurpose},
		{"Bulk", "Bulk"},
	}
	for _, tt := range tests {
		got, ok := NormalizeVesselType(tt.in)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizePort(t *testing.T) {
	tests := []struct{ in, want string }{
		{"colonel island terminal", constants.PortColonelIsland},
		{"Brunswick, GA", constants.PortBrunswickGA},
		{"brunswick,ga", constants.PortBrunswickGA},
		{"Savannah", "Savannah"},
		{"Brunswick", "Brunswick"},
	}
	for _, tt := range tests {
		got, _ := NormalizePort(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizeCompany(t *testing.T) {
	tests := []struct{ in, want string }{
		{"APS", constants.CompanyAPS},
		{"aps stevedoring inc.", constants.CompanyAPS},
		{"SSA Marine", constants.CompanySSA},
		{"Ports America Inc", constants.CompanyPortsAmerica},
		{"Perhaps Logistics", "Perhaps Logistics"},
		{"Georgia PortsAmerica", "Georgia PortsAmerica"},
		{"Local Crew & Co.", "Local Crew & Co."},
	}
	for _, tt := range tests {
		got, _ := NormalizeCompany(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizeOperationType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Discharge + Loading", constants.OperationDischargeLoading},
		{"loading and discharge", constants.OperationDischargeLoading},
		{"Discharge Only", constants.OperationDischargeOnly},
		{"LOADING ONLY", constants.OperationLoadingOnly},
		{"Shifting", "Shifting"},
	}
	for _, tt := range tests {
		got, _ := NormalizeOperationType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestApplyRules_FirstRuleWins(t *testing.T) {
	rules := []Rule{
		{Match: contains("a"), Value: "first"},
		{Match: contains("ab"), Value: "second"},
	}
	assert.Equal(t, "first", ApplyRules(rules, "AB"))
	assert.Equal(t, "zz", ApplyRules(rules, "zz"))
	assert.Equal(t, "zz", ApplyRules(nil, "zz"))
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-03-15", "2025-03-15", true},
		{"03/15/2025", "2025-03-15", true},
		{"3/5/2025", "2025-03-05", true},
		{"03/15/25", "2025-03-15", true},
		{"3-5-2025", "2025-03-05", true},
		{"12-31-24", "2024-12-31", true},
		{" 1/2/2024 ", "2024-01-02", true},
		{"15.03.2025", "", false},
		{"1/2/203", "", false},
		{"1/2-25", "", false},
		{"2025/03/15", "", false},
		{"a/b/2025", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizeBerth(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1", "Berth 1"},
		{"3", "Berth 3"},
		{"Berth 2", "Berth 2"},
		{"4", "4"},
	}
	for _, tt := range tests {
		got, ok := NormalizeBerth(tt.in)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
}
