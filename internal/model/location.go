package model

type LocationStatus string

const (
	LocationStatusActive   LocationStatus = "active"
	LocationStatusInactive LocationStatus = "inactive"
)

// Location is the tenant unit: one practice site. Every request is
// scoped to exactly one location.
type Location struct {
	Base
	Name     string         `db:"name" json:"name"`
	Timezone string         `db:"timezone" json:"timezone"`
	Status   LocationStatus `db:"status" json:"status"`
}

type CreateLocationRequest struct {
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone"`
}

type UpdateLocationRequest struct {
	Name     *string         `json:"name"`
	Timezone *string         `json:"timezone"`
	Status   *LocationStatus `json:"status"`
}
