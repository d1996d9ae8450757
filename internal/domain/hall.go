package domain

// HallID identifies one of the fixed bookable halls
type HallID string

const (
	HallVideoConference  HallID = "video-conference"
	HallConventionCenter HallID = "convention-center"
	HallLaboratory       HallID = "laboratory"
	HallMBASeminar       HallID = "mba-seminar"
)

// AllHalls is the complete, ordered hall set
var AllHalls = []HallID{
	HallVideoConference,
	HallConventionCenter,
	HallLaboratory,
	HallMBASeminar,
}

var hallNames = map[HallID]string{
	HallVideoConference:  "Video Conference Room",
	HallConventionCenter: "Convention Center",
	HallLaboratory:       "Laboratory",
	HallMBASeminar:       "MBA Seminar Hall",
}

// IsValid returns true if the identifier belongs to the hall set
func (h HallID) IsValid() bool {
	_, ok := hallNames[h]
	return ok
}

// DisplayName returns the human-readable hall name, or the raw id for unknown halls
func (h HallID) DisplayName() string {
	if name, ok := hallNames[h]; ok {
		return name
	}
	return string(h)
}
