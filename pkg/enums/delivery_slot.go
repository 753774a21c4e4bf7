package enums

import "fmt"

// DeliverySlot is one of the three fixed delivery time bands.
type DeliverySlot string

const (
	DeliverySlotNoon      DeliverySlot = "12-14"
	DeliverySlotAfternoon DeliverySlot = "14-16"
	DeliverySlotEvening   DeliverySlot = "16-18"
)

var validDeliverySlots = []DeliverySlot{
	DeliverySlotNoon,
	DeliverySlotAfternoon,
	DeliverySlotEvening,
}

// String implements fmt.Stringer.
func (d DeliverySlot) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliverySlot.
func (d DeliverySlot) IsValid() bool {
	for _, candidate := range validDeliverySlots {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliverySlot converts raw input into a DeliverySlot.
func ParseDeliverySlot(value string) (DeliverySlot, error) {
	for _, candidate := range validDeliverySlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery slot %q", value)
}
