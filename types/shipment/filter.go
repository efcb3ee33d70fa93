package shipment

import (
	"strings"
	"time"

	"freight-admin/apperrors"
	shipmentModel "freight-admin/models/shipment"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ListQuery holds the raw query string of a shipment listing.
type ListQuery struct {
	Status       string `query:"status"`
	ClientID     uint   `query:"client_id"`
	DriverID     uint   `query:"driver_id"`
	TrackingCode string `query:"tracking_code"`
	From         string `query:"from"`
	To           string `query:"to"`
	Limit        int    `query:"limit"`
	Offset       int    `query:"offset"`
}

// Filter selects shipments. Zero fields do not filter.
type Filter struct {
	Status       shipmentModel.ShipmentStatus
	ClientID     uint
	DriverID     uint
	TrackingCode string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// Filter validates the query and converts it.
func (q ListQuery) Filter() (Filter, error) {
	f := Filter{
		ClientID:     q.ClientID,
		DriverID:     q.DriverID,
		TrackingCode: strings.ToUpper(strings.TrimSpace(q.TrackingCode)),
		Limit:        q.Limit,
		Offset:       q.Offset,
	}

	if q.Status != "" {
		s, ok := shipmentModel.ParseShipmentStatus(q.Status)
		if !ok {
			return Filter{}, apperrors.NewValidation("status", "unknown status "+q.Status)
		}
		f.Status = s
	}
	if q.From != "" {
		d, err := time.ParseInLocation("2006-01-02", q.From, time.UTC)
		if err != nil {
			return Filter{}, apperrors.NewValidation("from", "must be a date in YYYY-MM-DD format")
		}
		f.From = &d
	}
	if q.To != "" {
		d, err := time.ParseInLocation("2006-01-02", q.To, time.UTC)
		if err != nil {
			return Filter{}, apperrors.NewValidation("to", "must be a date in YYYY-MM-DD format")
		}
		f.To = &d
	}
	if f.Offset < 0 {
		return Filter{}, apperrors.NewValidation("offset", "must not be negative")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultPageSize
	case f.Limit > MaxPageSize:
		f.Limit = MaxPageSize
	}
	return f, nil
}
