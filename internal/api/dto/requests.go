package dto

// CreateDriverRequest represents a request to register a new driver
type CreateDriverRequest struct {
	Name    string `json:"name" binding:"required"`
	License string `json:"license" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

// UpdateDriverRequest represents a partial driver update; absent fields are
// left unchanged
type UpdateDriverRequest struct {
	Name    *string `json:"name"`
	License *string `json:"license"`
	Phone   *string `json:"phone"`
	Status  *string `json:"status"`
}

// AssignVehicleRequest represents a request to assign a vehicle to a driver
type AssignVehicleRequest struct {
	VehicleID int64 `json:"vehicleId" binding:"required"`
}

// CreateVehicleRequest represents a request to register a new vehicle
type CreateVehicleRequest struct {
	Model     string `json:"model" binding:"required"`
	RegNumber string `json:"regNumber" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required,gt=0"`
}

// UpdateVehicleRequest represents a partial vehicle update
type UpdateVehicleRequest struct {
	Model    *string `json:"model"`
	Status   *string `json:"status"`
	Capacity *int    `json:"capacity"`
}

// CreateTripRequest represents a request to start a new trip
type CreateTripRequest struct {
	Origin      string   `json:"origin" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	DriverID    int64    `json:"driverId" binding:"required"`
	VehicleID   int64    `json:"vehicleId" binding:"required"`
	DistanceKm  *float64 `json:"distanceKm"`
}

// EndTripRequest represents a request to end a trip; both fields optional
type EndTripRequest struct {
	DistanceKm *float64 `json:"distanceKm"`
	EndTime    *string  `json:"endTime"`
}

// ErrorResponse is the structured error payload returned by every endpoint
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FleetOverviewResponse aggregates fleet counts for the dashboard
type FleetOverviewResponse struct {
	Drivers  DriverCounts  `json:"drivers"`
	Vehicles VehicleCounts `json:"vehicles"`
	Trips    TripCounts    `json:"trips"`
}

type DriverCounts struct {
	Total    int `json:"total"`
	Assigned int `json:"assigned"`
}

type VehicleCounts struct {
	Total    int `json:"total"`
	Assigned int `json:"assigned"`
}

type TripCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Ended     int `json:"ended"`
	Cancelled int `json:"cancelled"`
}
