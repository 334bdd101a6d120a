package enums

import "fmt"

// BatchStatus tracks where a cultivation batch sits in its lifecycle.
type BatchStatus string

const (
	BatchStatusPlanned   BatchStatus = "planned"
	BatchStatusActive    BatchStatus = "active"
	BatchStatusHarvested BatchStatus = "harvested"
	BatchStatusArchived  BatchStatus = "archived"
)

var validBatchStatuses = []BatchStatus{
	BatchStatusPlanned,
	BatchStatusActive,
	BatchStatusHarvested,
	BatchStatusArchived,
}

// String implements fmt.Stringer.
func (s BatchStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BatchStatus.
func (s BatchStatus) IsValid() bool {
	for _, candidate := range validBatchStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the batch's occupancy of a room.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusHarvested || s == BatchStatusArchived
}

// ParseBatchStatus converts raw input into a BatchStatus.
func ParseBatchStatus(value string) (BatchStatus, error) {
	for _, candidate := range validBatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid batch status %q", value)
}
