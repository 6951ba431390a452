package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LatLng is a [lat, lng] pair, encoded as a two-element JSON array the way
// map widgets expect it.
type LatLng [2]float64

// Lat returns the latitude component.
func (p LatLng) Lat() float64 { return p[0] }

// Lng returns the longitude component.
func (p LatLng) Lng() float64 { return p[1] }

// MapView is the viewport of the dashboard map.
type MapView struct {
	Center LatLng  `json:"center"`
	Zoom   float64 `json:"zoom"`
}
