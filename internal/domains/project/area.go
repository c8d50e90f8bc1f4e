package project

// Area ledger for a farmer's land allocation. All figures are hectares.

// AllocatedArea sums the area of every project in the set.
func AllocatedArea(projects []Project) float64 {
	total := 0.0
	for _, p := range projects {
		total += p.AreaHa
	}
	return total
}

// RemainingArea is the farmer's declared area minus the allocated area,
// floored at zero.
func RemainingArea(totalAreaHa, allocated float64) float64 {
	remaining := totalAreaHa - allocated
	if remaining < 0 {
		return 0.0
	}
	return remaining
}

// WouldExceed reports whether accepting candidateAreaHa on top of the
// allocation (excluding the project being replaced, if any) would push the
// farmer past its declared total. This is the guard applied before every
// project create or update.
func WouldExceed(totalAreaHa, allocatedExcludingTarget, candidateAreaHa float64) bool {
	return allocatedExcludingTarget+candidateAreaHa > totalAreaHa
}
