package controller

import "fmt"

// Region is one of the mutually exclusive screen sections.
type Region int

const (
	RegionHome Region = iota
	RegionLoading
	RegionResults
	RegionError
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case RegionHome:
		return "home"
	case RegionLoading:
		return "loading"
	case RegionResults:
		return "results"
	case RegionError:
		return "error"
	default:
		return fmt.Sprintf("Region(%d)", int(r))
	}
}

// Regions lists every region in display order.
func Regions() []Region {
	return []Region{RegionHome, RegionLoading, RegionResults, RegionError}
}
