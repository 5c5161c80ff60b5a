package model

import "math"

// LoadEstimate holds the results of a volume-based container count estimate.
type LoadEstimate struct {
	TotalUnits            int     `json:"total_units"`          // Pieces across all items
	TotalCargoVolume      int64   `json:"total_cargo_volume"`   // mm³
	TotalCargoCubicMeters float64 `json:"total_cargo_cubic_m"`  // m³
	ContainerVolume       int64   `json:"container_volume"`     // mm³ of one container
	ContainersExact       float64 `json:"containers_exact"`     // Fractional containers at 100% fill
	ContainersMin         int     `json:"containers_min"`       // Ceiling of exact
	ContainersWithFill    int     `json:"containers_with_fill"` // Recommended count at the given fill factor
	FillFactor            float64 `json:"fill_factor"`          // Achievable fill percentage assumed (e.g. 85)
	LargestItemVolume     int64   `json:"largest_item_volume"`  // mm³ of the bulkiest single piece
	LargestItemID         string  `json:"largest_item_id"`
}

const mm3PerCubicMeter = 1e9

// CalculateLoadEstimate computes how many containers a cargo list needs by
// volume alone. fillFactor is the percentage of a container's volume that
// can realistically be used; values outside (0, 100] are treated as 100.
func CalculateLoadEstimate(items []Item, size ContainerSize, fillFactor float64) LoadEstimate {
	if fillFactor <= 0 || fillFactor > 100 {
		fillFactor = 100
	}

	est := LoadEstimate{FillFactor: fillFactor}
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		v := it.Volume()
		est.TotalUnits += it.Quantity
		est.TotalCargoVolume += v * int64(it.Quantity)
		if v > est.LargestItemVolume {
			est.LargestItemVolume = v
			est.LargestItemID = it.ID
		}
	}
	est.TotalCargoCubicMeters = float64(est.TotalCargoVolume) / mm3PerCubicMeter

	est.ContainerVolume = size.Volume()
	if est.ContainerVolume <= 0 {
		return est
	}

	est.ContainersExact = float64(est.TotalCargoVolume) / float64(est.ContainerVolume)
	est.ContainersMin = int(math.Ceil(est.ContainersExact))

	est.ContainersWithFill = int(math.Ceil(est.ContainersExact / (fillFactor / 100.0)))
	if est.ContainersWithFill < est.ContainersMin {
		est.ContainersWithFill = est.ContainersMin
	}
	return est
}
