package eco

import "time"

// Params are the estimation tunables. Zero values are not meaningful;
// start from DefaultParams and override fields as needed.
type Params struct {
	// EnergyPerOpJ is the Joules charged per weighted operation.
	EnergyPerOpJ float64
	// IdlePowerW is the Watts drawn for the run's wall-clock duration.
	IdlePowerW float64
	// CO2PerKWhG is the grams of CO2 emitted per kilowatt-hour.
	CO2PerKWhG float64
}

// DefaultParams returns the default estimation tunables.
func DefaultParams() Params {
	return Params{
		EnergyPerOpJ: 1e-9,
		IdlePowerW:   0.5,
		CO2PerKWhG:   475,
	}
}

// Report is the per-run energy estimate.
type Report struct {
	TotalOps  int64    `json:"total_ops"`
	EnergyJ   float64  `json:"energy_J"`
	EnergyKWh float64  `json:"energy_kWh"`
	CO2Grams  float64  `json:"co2_g"`
	Tips      []string `json:"tips"`
}

// Estimate computes the energy figures for a run. The duration is floored
// at one microsecond so instant runs still account for idle power.
func Estimate(totalOps int64, duration time.Duration, params Params) *Report {
	durationS := duration.Seconds()
	if durationS < 1e-6 {
		durationS = 1e-6
	}
	computeJ := float64(totalOps) * params.EnergyPerOpJ
	overheadJ := durationS * params.IdlePowerW
	kwh := (computeJ + overheadJ) / 3_600_000.0
	report := &Report{
		TotalOps:  totalOps,
		EnergyJ:   computeJ + overheadJ,
		EnergyKWh: kwh,
		CO2Grams:  kwh * params.CO2PerKWhG,
		Tips:      []string{},
	}
	if totalOps > HighUsageThreshold {
		report.Tips = append(report.Tips,
			"Consider reducing loop iterations or heavy math operations")
	}
	return report
}

var tips = [...]string{
	"Turn off unused devices",
	"Reduce loop counts",
	"Prefer simpler math operations",
}

// NextTip returns the rotating tip for the given operation count. The
// ecoTip statement uses the count at the moment it executes, so a script
// can surface different tips over its lifetime.
func NextTip(totalOps int64) string {
	return tips[totalOps%int64(len(tips))]
}
