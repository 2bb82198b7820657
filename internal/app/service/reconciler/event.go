package reconciler

import (
	"strconv"
	"time"
)

// Event is the Lemon Squeezy webhook envelope, reduced to the fields the
// reconciliation table reads.
type Event struct {
	Meta struct {
		EventName  string            `json:"event_name"`
		CustomData map[string]string `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string          `json:"id"`
		Attributes EventAttributes `json:"attributes"`
	} `json:"data"`
}

type EventAttributes struct {
	Status      string     `json:"status"`
	VariantName string     `json:"variant_name"`
	CustomerID  int64      `json:"customer_id"`
	RenewsAt    *time.Time `json:"renews_at"`
}

// BaseID returns the tenant reference carried in checkout custom data,
// if the event has one.
func (e *Event) BaseID() string {
	return e.Meta.CustomData["base_id"]
}

// CustomerID returns the provider customer reference as a string, empty
// when the event carries none.
func (e *Event) CustomerID() string {
	if e.Data.Attributes.CustomerID == 0 {
		return ""
	}
	return strconv.FormatInt(e.Data.Attributes.CustomerID, 10)
}
