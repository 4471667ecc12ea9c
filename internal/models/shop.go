package models

// RawShop is a shop record as it arrives from a directory source.
// Lat and Lng are left untyped because the upstream payload is not trusted:
// they may hold numbers, numeric strings, nil or anything else.
type RawShop struct {
	ID          string
	Name        string
	Address     string
	Description string
	Lat         any
	Lng         any
}

// Shop is a validated shop record. Distance is filled in by a ranking pass
// relative to one user coordinate and is expressed in kilometers.
type Shop struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Description string      `json:"description"`
	Coordinates Coordinates `json:"coordinates"`
	Distance    float64     `json:"distance"`
}

// PendingShop is a registry shop that has an address but no coordinates yet.
type PendingShop struct {
	ID      int    // ID is the registry identifier of the shop.
	Address string // Address is the location to be geocoded.
}
