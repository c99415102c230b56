package consts

// Physical constants.
const (
	CHARGE    = 1.6021918e-19 // Elementary charge (C)
	BOLTZMANN = 1.3806226e-23 // Boltzmann constant (J/K)
	KELVIN    = 273.15        // Kelvin temperature (K)
)

// Engine defaults.
const (
	Gmin          = 1e-12 // Shunt conductance added to every non-ground node diagonal
	DefaultReltol = 1e-6  // Newton convergence tolerance
	DefaultMaxNR  = 50    // Newton iteration cap

	// Solver selection. Systems at or below DenseSizeLimit, or with a
	// fill ratio at or above DenseDensityMin, go through the dense path.
	DenseSizeLimit  = 96
	DenseDensityMin = 0.18

	InductorDCConductance = 1.0 / 1e-9 // Near-short stamped for inductors at dt = 0
)

// Diode model. Fixed Shockley parameters with SPICE-style junction limiting.
const (
	DiodeIs     = 1e-12 // Saturation current (A)
	DiodeVt     = 0.026 // Thermal voltage (V)
	DiodeN      = 1.0   // Emission coefficient
	DiodeVdInit = 0.6   // Initial linearization point (V)
	DiodeVdMin  = -5.0  // Lower junction clamp (V)
	DiodeVdMax  = 0.9   // Upper junction clamp (V), bounds the exponential
	MaxExpArg   = 40.0  // Cap on the exponential argument
)
