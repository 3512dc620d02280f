package constants

// Canonical vessel types.
const (
	VesselAutoCarrier  = "Auto Carrier"
	VesselRoRo         = "RoRo Vessel"
	VesselContainer    = "Container Ship"
	VesselMultiPurpose = "Multi-Purpose"
)

// Known ports.
const (
	PortColonelIsland = "Colonel Island"
	PortBrunswickGA   = "Brunswick, GA"
	PortBrunswick     = "Brunswick"
	PortSavannah      = "Savannah"
	PortCharleston    = "Charleston"
)

// Known stevedoring companies.
const (
	CompanyAPS          = "APS Stevedoring"
	CompanySSA          = "SSA Marine"
	CompanyPortsAmerica = "Ports America"
)

// Operation types.
const (
	OperationDischargeLoading = "Discharge + Loading"
	OperationDischargeOnly    = "Discharge Only"
	OperationLoadingOnly      = "Loading Only"
)

var allVesselTypes = []string{VesselAutoCarrier, VesselRoRo, VesselContainer, VesselMultiPurpose}

var allOperationTypes = []string{OperationDischargeLoading, OperationDischargeOnly, OperationLoadingOnly}

// VesselTypes returns a copy of the canonical vessel type list.
func VesselTypes() []string {
	return append([]string(nil), allVesselTypes...)
}

// OperationTypes returns a copy of the canonical operation type list.
func OperationTypes() []string {
	return append([]string(nil), allOperationTypes...)
}
