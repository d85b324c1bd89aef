package models

// Requests for the page HTTP endpoints.

type PageRequest struct {
	Page  string `param:"page" json:"page" validate:"required"`
	Start string `query:"start" json:"start" validate:"omitempty,isodate"`
	End   string `query:"end" json:"end" validate:"omitempty,isodate"`
}

type DetailRequest struct {
	Page       string `param:"page" json:"page" validate:"required"`
	Instrument string `query:"instrument" json:"instrument" validate:"required"`
	Start      string `query:"start" json:"start" validate:"omitempty,isodate"`
	End        string `query:"end" json:"end" validate:"omitempty,isodate"`
}

type ReportRequest struct {
	Page   string `param:"page" json:"page" validate:"required"`
	Format string `query:"format" json:"format" default:"md" validate:"oneof=md html"`
	Start  string `query:"start" json:"start" validate:"omitempty,isodate"`
	End    string `query:"end" json:"end" validate:"omitempty,isodate"`
}

type ExportRequest struct {
	Page   string `param:"page" json:"page" validate:"required"`
	Format string `query:"format" json:"format" default:"csv" validate:"oneof=csv parquet"`
	Start  string `query:"start" json:"start" validate:"omitempty,isodate"`
	End    string `query:"end" json:"end" validate:"omitempty,isodate"`
}

type SnapshotsRequest struct {
	Page  string `param:"page" json:"page" validate:"required"`
	Limit int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
}
