package gopigo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-botblocks/pkg/robot"
)

func ptr(v float64) *float64 { return &v }

func TestRequests(t *testing.T) {
	tests := []struct {
		name   string
		req    robot.Request
		method string
		path   string
		body   string
	}{
		{"blinkers both", BlinkersRequest(Both, On), "PUT", "/v1/blinkers", `{"state":"on"}`},
		{"blinkers empty", BlinkersRequest("", Off), "PUT", "/v1/blinkers", `{"state":"off"}`},
		{"blinkers left", BlinkersRequest(Left, Off), "PUT", "/v1/blinkers/left", `{"state":"off"}`},
		{"eyes right", EyesRequest(Right, 255, 0, 25.5), "PUT", "/v1/eyes/right", `{"red":255,"green":0,"blue":25.5}`},
		{"drive distance", DriveRequest(Forward, 50, ptr(100)), "POST", "/v1/motors/drive", `{"direction":"forward","speed":50,"distance":100}`},
		{"drive forever", DriveRequest(Backward, 30, nil), "POST", "/v1/motors/drive", `{"direction":"backward","speed":30}`},
		{"turn angle", TurnRequest(Right, 50, ptr(90)), "POST", "/v1/motors/turn", `{"direction":"right","speed":50,"angle":90}`},
		{"turn forever", TurnRequest(Left, 50, nil), "POST", "/v1/motors/turn", `{"direction":"left","speed":50}`},
		{"motors", SetMotorsRequest(Forward, 40, Backward, 60), "POST", "/v1/motors/set",
			`{"left_direction":"forward","left_speed":40,"right_direction":"backward","right_speed":60}`},
		{"stop", StopRequest(), "POST", "/v1/motors/stop", ""},
		{"servo", ServoRequest(Servo2, 45), "PUT", "/v1/servos/SERVO2/position", `{"position":45}`},
		{"distance", DistanceRequest(), "GET", "/v1/sensors/I2C/distance/distance", ""},
		{"info", PlatformInformationRequest(), "GET", "/v1/platform/information", ""},
		{"5v", VoltageRequest(Rail5V), "GET", "/v1/platform/voltages/5v", ""},
		{"battery", VoltageRequest(RailBattery), "GET", "/v1/platform/voltages/battery", ""},
		{"motors status", MotorsStatusRequest(), "GET", "/v1/motors/status", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.method, tt.req.Method)
			assert.Equal(t, tt.path, tt.req.Path)
			body, err := tt.req.Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestConversions(t *testing.T) {
	assert.Equal(t, 25.5, PercentToByte(10))
	assert.Equal(t, 255.0, PercentToByte(100))
	assert.Equal(t, 100.0, CentimetresToMillimetres(10))
	assert.Equal(t, 12.0, MillimetresToCentimetres(123))
	assert.Equal(t, 13.0, MillimetresToCentimetres(125))
	assert.Equal(t, 0.0, MillimetresToCentimetres(4))
	assert.Nil(t, untilStopped(0))
	assert.Equal(t, 5.0, *untilStopped(5))
}
