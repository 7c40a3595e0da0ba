package units

// Promotion and demotion thresholds. They are asymmetric on purpose: metric
// promotes once a whole large unit is reached, imperial volume demotes as
// soon as a quarter cup is undershot.
const (
	metricPromoteAt = 1000.0 // ml -> l, g -> kg
	cupDemoteBelow  = 0.25   // cup -> tbsp
	tbspDemoteBelow = 1.0    // tbsp -> tsp
	ozPromoteAt     = 16.0   // oz -> lb

	tbspPerCup = 16.0
	tspPerTbsp = 3.0
	ozPerLb    = 16.0
)

// Rescale moves a freshly converted amount to a more natural unit. It only
// knows the target units produced by the tables (ml, g, cup, oz); anything
// else comes back unchanged.
func Rescale(amount float64, unit string) (float64, string) {
	switch unit {
	case "ml":
		if amount >= metricPromoteAt {
			return amount / metricPromoteAt, "l"
		}
	case "g":
		if amount >= metricPromoteAt {
			return amount / metricPromoteAt, "kg"
		}
	case "cup":
		if amount < cupDemoteBelow {
			amount *= tbspPerCup
			if amount < tbspDemoteBelow {
				return amount * tspPerTbsp, "tsp"
			}
			return amount, "tbsp"
		}
	case "oz":
		if amount >= ozPromoteAt {
			return amount / ozPerLb, "lb"
		}
	}
	return amount, unit
}
