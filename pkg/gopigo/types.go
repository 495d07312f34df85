package gopigo

import "errors"

// PlatformInformation identifies the board.
type PlatformInformation struct {
	Manufacturer         string `json:"manufacturer"`
	BoardName            string `json:"board_name"`
	HardwareVersion      string `json:"hardware_version"`
	FirmwareVersion      string `json:"firmware_version"`
	HardwareSerialNumber string `json:"hardware_serial_number"`
}

// Validate implements robot.Validator.
func (p *PlatformInformation) Validate() error {
	if p.BoardName == "" {
		return errors.New("missing board_name")
	}
	return nil
}

// VoltageResponse is returned by the voltage endpoints.
type VoltageResponse struct {
	Voltage *float64 `json:"voltage"`
}

// Validate implements robot.Validator.
func (v *VoltageResponse) Validate() error {
	if v.Voltage == nil {
		return errors.New("missing voltage")
	}
	return nil
}

// DistanceResponse is returned by the distance sensor endpoint (mm).
type DistanceResponse struct {
	Distance *float64 `json:"distance"`
}

// Validate implements robot.Validator.
func (d *DistanceResponse) Validate() error {
	if d.Distance == nil {
		return errors.New("missing distance")
	}
	return nil
}

// MotorStatus is one motor controller's state.
type MotorStatus struct {
	Flags   int `json:"flags"`
	Power   int `json:"power"`
	Encoder int `json:"encoder"`
	DPS     int `json:"dps"`
}

// MotorsStatus holds both motors.
type MotorsStatus struct {
	Left  *MotorStatus `json:"left"`
	Right *MotorStatus `json:"right"`
}

// Validate implements robot.Validator.
func (m *MotorsStatus) Validate() error {
	if m.Left == nil || m.Right == nil {
		return errors.New("missing left or right motor")
	}
	return nil
}
