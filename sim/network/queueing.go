// Package network estimates transfer delays with closed-form queueing
// models and tracks per-link contention. Three variants share the same
// formulas and differ only in how they size the offered load: averaged
// (static population), census (live co-located device count), and
// contention (active transfer counters).
package network

// Saturated is the sentinel returned when a link's offered load meets or
// exceeds its service rate. Callers treat any delay <= 0 as "link
// saturated, reject the transfer".
const Saturated = -1

// mm1Delay returns the expected M/M/1 system time in seconds.
//
// Unit conventions follow the scenario tables: bandwidth is Kbps, the mean
// transfer size is KB, and the mean inter-arrival time is seconds per task
// per device. Service rate mu = bandwidth in bytes/s over size in bytes;
// offered load lambda = devices / poissonMean.
func mm1Delay(propagation, bandwidthKbps, poissonMean, avgSizeKB float64, devices int) float64 {
	sizeBytes := avgSizeKB * 1000
	bps := bandwidthKbps * 1000 / 8
	lambda := float64(devices) / poissonMean
	mu := bps / sizeBytes
	if mu <= lambda {
		return Saturated
	}
	return 1/(mu-lambda) + propagation
}

// mm2Delay returns the expected system time for two parallel links,
// W = 4mu / ((2mu - lambda)(2mu + lambda)), with the same unit conventions
// as mm1Delay. The formula diverges at lambda = 2mu, so that is the
// saturation bound here.
func mm2Delay(propagation, bandwidthKbps, poissonMean, avgSizeKB float64, devices int) float64 {
	sizeBytes := avgSizeKB * 1000
	bps := bandwidthKbps * 1000 / 8
	lambda := float64(devices) / poissonMean
	mu := bps / sizeBytes
	if 2*mu <= lambda {
		return Saturated
	}
	return (4*mu)/((2*mu-lambda)*(2*mu+lambda)) + propagation
}

// queueDelay dispatches on the configured discipline.
func queueDelay(queue string, propagation, bandwidthKbps, poissonMean, avgSizeKB float64, devices int) float64 {
	if queue == "mm2" {
		return mm2Delay(propagation, bandwidthKbps, poissonMean, avgSizeKB, devices)
	}
	return mm1Delay(propagation, bandwidthKbps, poissonMean, avgSizeKB, devices)
}
