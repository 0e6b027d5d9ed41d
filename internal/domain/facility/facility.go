package facility

import "fmt"

type Facility struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Specialties []string `json:"specialties"`
	Distance    string   `json:"distance"`
	Type        string   `json:"type"`
}

// Query is what the caller searched with. None of it affects the result yet.
type Query struct {
	Latitude  string `form:"latitude"`
	Longitude string `form:"longitude"`
	Location  string `form:"location"`
}

// Searched describes the query the way it is echoed back to the client.
func (q Query) Searched() string {
	if q.Location != "" {
		return q.Location
	}
	return fmt.Sprintf("Lat: %s, Lng: %s", orUndefined(q.Latitude), orUndefined(q.Longitude))
}

func orUndefined(s string) string {
	if s == "" {
		return "undefined"
	}
	return s
}

// Nearby returns the fixed mock list regardless of the query.
func Nearby(Query) []Facility {
	return []Facility{
		{
			Name:        "City General Hospital",
			Address:     "Main Street, Urban Center",
			Phone:       "+91-XXX-XXXXXXX",
			Specialties: []string{"General Medicine", "Emergency Care"},
			Distance:    "15 km",
			Type:        "Hospital",
		},
		{
			Name:        "District Health Center",
			Address:     "Government Hospital Road",
			Phone:       "+91-XXX-XXXXXXX",
			Specialties: []string{"Primary Care", "Maternal Health"},
			Distance:    "8 km",
			Type:        "Primary Health Center",
		},
		{
			Name:        "Metro Medical Clinic",
			Address:     "Shopping Complex, City Center",
			Phone:       "+91-XXX-XXXXXXX",
			Specialties: []string{"General Practice", "Pediatrics"},
			Distance:    "20 km",
			Type:        "Clinic",
		},
	}
}
