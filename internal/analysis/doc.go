// Package analysis inspects the per-tick series recorded by experiments.
//
//   - [PowerSpectrum] and [DominantPeriod]: oscillation in a series, such
//     as the predator/prey population cycle
//   - [NewPortrait]: one series plotted against another
//   - [Crossings]: times at which a series rises through a threshold
//
// # Cycle Detection
//
// A strong spectral peak in the population series indicates a regular
// boom and bust:
//
//	period, power := analysis.DominantPeriod(res.Times, res.Series["population"])
//	if power > 0 {
//	    fmt.Printf("cycle every %.1fs\n", period)
//	}
package analysis
