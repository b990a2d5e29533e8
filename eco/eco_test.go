package eco

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMeterCharge(t *testing.T) {
	m := NewMeter(nil)
	require.Equal(t, int64(50), m.Charge(OpPrint, 1.0))
	require.Equal(t, int64(5), m.Charge(OpAssign, 1.0))
	require.Equal(t, int64(55), m.Total())

	// Scaled charges truncate toward zero.
	require.Equal(t, int64(25), m.Charge(OpPrint, 0.5))
	require.Equal(t, int64(0), m.Charge(OpAssign, 0.1))
	require.Equal(t, int64(80), m.Total())
}

func TestMeterUnknownKind(t *testing.T) {
	m := NewMeter(nil)
	require.Equal(t, int64(5), m.Cost("mystery"))
	require.Equal(t, int64(5), m.Charge("mystery", 1.0))
}

func TestMeterCustomCosts(t *testing.T) {
	m := NewMeter(map[string]int64{OpPrint: 1, OpOther: 2})
	require.Equal(t, int64(1), m.Cost(OpPrint))
	require.Equal(t, int64(2), m.Cost(OpMath))
}

func TestScale(t *testing.T) {
	require.Equal(t, 0.8, Scale(20))
	require.Equal(t, 1.0, Scale(0))
	require.Equal(t, MinScale, Scale(100))
	require.Equal(t, MinScale, Scale(500))
	// Negative levels raise the multiplier; there is no upper clamp.
	require.Equal(t, 2.0, Scale(-100))
}

func TestEstimate(t *testing.T) {
	report := Estimate(1000, 2*time.Second, DefaultParams())
	require.Equal(t, int64(1000), report.TotalOps)
	require.InDelta(t, 1000*1e-9+2*0.5, report.EnergyJ, 1e-12)
	require.InDelta(t, report.EnergyJ/3_600_000.0, report.EnergyKWh, 1e-18)
	require.InDelta(t, report.EnergyKWh*475, report.CO2Grams, 1e-15)
	require.Empty(t, report.Tips)
}

func TestEstimateFloorsDuration(t *testing.T) {
	report := Estimate(0, 0, DefaultParams())
	require.InDelta(t, 1e-6*0.5, report.EnergyJ, 1e-12)
}

func TestEstimateHighUsageTip(t *testing.T) {
	report := Estimate(HighUsageThreshold, time.Millisecond, DefaultParams())
	require.Empty(t, report.Tips)

	report = Estimate(HighUsageThreshold+1, time.Millisecond, DefaultParams())
	require.Equal(t,
		[]string{"Consider reducing loop iterations or heavy math operations"},
		report.Tips)
}

func TestNextTipRotation(t *testing.T) {
	require.Equal(t, "Turn off unused devices", NextTip(0))
	require.Equal(t, "Reduce loop counts", NextTip(1))
	require.Equal(t, "Prefer simpler math operations", NextTip(2))
	require.Equal(t, "Turn off unused devices", NextTip(3))
	require.Equal(t, "Reduce loop counts", NextTip(601))
}
