package devices

import "time"

// Device is the last-known record of one ethoscope.
// It includes GORM tags for the snapshot store and JSON tags for API responses.
type Device struct {
	ID        string `gorm:"primaryKey" json:"id" example:"0265ac2e9c4f45a39fdaa5d2e1b1a0e7"`
	Name      string `json:"name" example:"ETHOSCOPE_026"`
	Status    string `json:"status" example:"running"`
	VersionID string `json:"version_id" example:"2bd9e5f8c1"`
	// IP stays empty until it has been fetched explicitly.
	IP             string    `json:"ip,omitempty" example:"192.169.123.26"`
	ElapsedSeconds *int64    `json:"elapsed_seconds,omitempty" example:"90061"`
	Reachable      bool      `json:"reachable"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ActionOutcome is the per-device result of one group dispatch.
type ActionOutcome struct {
	DeviceID  string `json:"device_id"`
	Succeeded bool   `json:"succeeded"`
	NewStatus string `json:"new_status,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Err       error  `json:"-"`
}

func (d Device) clone() Device {
	if d.ElapsedSeconds != nil {
		v := *d.ElapsedSeconds
		d.ElapsedSeconds = &v
	}
	return d
}

// merge copies the fields reported in src onto d and reports whether
// anything changed. Empty fields in src leave d untouched.
func (d *Device) merge(src Device) bool {
	changed := false
	set := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&d.Name, src.Name)
	set(&d.Status, src.Status)
	set(&d.VersionID, src.VersionID)
	set(&d.IP, src.IP)
	if src.ElapsedSeconds != nil && (d.ElapsedSeconds == nil || *d.ElapsedSeconds != *src.ElapsedSeconds) {
		v := *src.ElapsedSeconds
		d.ElapsedSeconds = &v
		changed = true
	}
	return changed
}
