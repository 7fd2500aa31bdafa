package models

// Requests for the scan HTTP endpoints. Defined in domain for consistency and reuse.

type OpportunitiesRequest struct {
	Direction string  `query:"direction" json:"direction" default:"all" validate:"oneof=all long short"`
	MinScore  float64 `query:"min_score" json:"min_score" validate:"gte=0,lte=10"`
	Limit     int     `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type ScanRequest struct {
	Timeframes []string `json:"timeframes,omitempty" validate:"omitempty,dive,oneof=15m 1h 4h 1d"`
	Notify     bool     `json:"notify"`
}
