package geo

import "testing"

func TestDistanceMeters(t *testing.T) {
	// Jakarta Monas to Istiqlal Mosque, roughly 650m apart.
	monas := Point{Latitude: -6.1754, Longitude: 106.8272}
	istiqlal := Point{Latitude: -6.1702, Longitude: 106.8310}

	d := DistanceMeters(monas, istiqlal)
	if d < 500 || d > 800 {
		t.Fatalf("expected distance in [500, 800] meters, got %f", d)
	}
}

func TestWithinRadius(t *testing.T) {
	center := Point{Latitude: -6.2000, Longitude: 106.8166}
	near := Point{Latitude: -6.2003, Longitude: 106.8168}
	far := Point{Latitude: -6.2500, Longitude: 106.9000}

	if !WithinRadius(center, near, 100) {
		t.Fatalf("expected near point within 100m")
	}
	if WithinRadius(center, far, 100) {
		t.Fatalf("expected far point outside 100m")
	}
	if !WithinRadius(center, far, 0) {
		t.Fatalf("expected zero radius to disable the check")
	}
}
