package participant

// Category is the closed set of recognized input modalities.
//
// Every participant resolves to exactly one category; unclassifiable
// participants resolve to CategoryDesktop (safe fallback, not an error).
type Category string

const (
	CategoryVR      Category = "VR"
	CategoryMobile  Category = "Mobile"
	CategoryDesktop Category = "Desktop"
)

// Valid reports whether the category is one of the recognized values.
func (c Category) Valid() bool {
	switch c {
	case CategoryVR, CategoryMobile, CategoryDesktop:
		return true
	}
	return false
}

// Categories returns all recognized categories in deterministic order.
// The order matters: it is the final fallback order used during dispatch.
func Categories() []Category {
	return []Category{CategoryVR, CategoryMobile, CategoryDesktop}
}

// RawDeviceType is the raw device signal reported by the world runtime.
//
// Raw signals are a superset of categories: anything the runtime reports
// outside VR and Mobile maps to Desktop.
type RawDeviceType string

const (
	RawVR      RawDeviceType = "VR"
	RawMobile  RawDeviceType = "Mobile"
	RawDesktop RawDeviceType = "Desktop"
	RawOther   RawDeviceType = "Other"
)

// Participant is the live entity performing interactions.
//
// Implementations wrap whatever handle the surrounding environment
// provides (a connected player, a test stub, a roster entry from the
// world bridge). The ID must be stable for the participant's session.
//
// DeviceType queries the raw device signal and may fail; the Classifier
// absorbs such failures (see Classify).
type Participant interface {
	ID() string
	Name() string
	DeviceType() (RawDeviceType, error)
}

// mapRaw converts a raw device signal to a category.
// VR and Mobile map directly; everything else is Desktop.
func mapRaw(raw RawDeviceType) Category {
	switch raw {
	case RawVR:
		return CategoryVR
	case RawMobile:
		return CategoryMobile
	default:
		return CategoryDesktop
	}
}
