package entities

// ReconcileAction reports what a reconciliation pass did to the certificate link.
type ReconcileAction string

const (
	ReconcileCreated   ReconcileAction = "created"
	ReconcileRelinked  ReconcileAction = "relinked"
	ReconcileUnchanged ReconcileAction = "unchanged"
)

// Reconciliation is the Booking/Certificate pair joined by business key.
type Reconciliation struct {
	Booking     Booking         `json:"booking"`
	Certificate Certificate     `json:"certificate"`
	Action      ReconcileAction `json:"action"`
}

// RepairReport summarizes a repair pass. Scanned counts stored certificates;
// BookingsScanned counts confirmed bookings checked for a missing certificate.
type RepairReport struct {
	Scanned         int `json:"scanned"`
	BookingsScanned int `json:"bookings_scanned"`
	Created         int `json:"created"`
	Relinked        int `json:"relinked"`
	Unchanged       int `json:"unchanged"`
	Drifted         int `json:"drifted"`
	Failed          int `json:"failed"`
}

func (r *RepairReport) Add(action ReconcileAction) {
	switch action {
	case ReconcileCreated:
		r.Created++
	case ReconcileRelinked:
		r.Relinked++
	default:
		r.Unchanged++
	}
}
