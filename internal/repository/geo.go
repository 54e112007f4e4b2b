package repository

import "math"

const earthRadiusKm = 6371.0

// haversineKm computes the great-circle distance in kilometers between two
// longitude/latitude points.
func haversineKm(lng1, lat1, lng2, lat2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// boundingBox returns the lat/lng bounds of a square that fully contains the
// circle of radiusKm around the point. Used as a coarse index-friendly
// prefilter before exact distance computation.
func boundingBox(lng, lat, radiusKm float64) (minLng, minLat, maxLng, maxLat float64) {
	const kmPerDegreeLat = 111.045

	dLat := radiusKm / kmPerDegreeLat

	cosLat := math.Cos(radians(lat))
	dLng := 180.0
	if cosLat > 1e-6 {
		dLng = radiusKm / (kmPerDegreeLat * cosLat)
	}

	minLat = math.Max(lat-dLat, -90)
	maxLat = math.Min(lat+dLat, 90)
	minLng = math.Max(lng-dLng, -180)
	maxLng = math.Min(lng+dLng, 180)
	return
}
