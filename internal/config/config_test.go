package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
# drawing board run parameters
SENSOR_EFFECTUAL_ANGLE=30
SENSOR_MIN_DISTANCE=20
SENSOR_MAX_DISTANCE=4000

WORKSPACE_LENGTH=100
WORKSPACE_BREADTH=100
SCALE_LENGTH=4
SCALE_BREADTH=4

READING_AVERAGE_OF=3
READING_DELAY=200
ACQUIRE_TIMEOUT=2000

SPLINE_MAX_POINTS=50
SPLINE_MIN_DISTANCE=2
SPLINE_MAX_DISTANCE=60

DBSCAN_EPS=8.5
DBSCAN_MIN_SAMPLES=4

LINE_SOURCE=serial
SERIAL_PORT=/dev/ttyUSB0
SERIAL_BAUD=9600

MQTT_BROKER=tcp://localhost:1883
MQTT_CLIENT_ID_PLOTTER=board-plotter
MQTT_CLIENT_ID_WEB=board-web
MQTT_CLIENT_ID_CONSOLE=board-console
MQTT_CLIENT_ID_DISPLAY=board-display
TOPIC_SNAPSHOT=board/snapshot
TOPIC_COMMAND=board/command

WEB_SERVER_PORT=8080
DISPLAY_UPDATE_INTERVAL=500
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.SensorEffectualAngle != 30 {
		t.Errorf("SensorEffectualAngle = %d, want 30", cfg.SensorEffectualAngle)
	}
	if cfg.WorkspaceLength != 100 || cfg.WorkspaceBreadth != 100 {
		t.Errorf("workspace = %dx%d, want 100x100", cfg.WorkspaceLength, cfg.WorkspaceBreadth)
	}
	if cfg.DBSCANEps != 8.5 {
		t.Errorf("DBSCANEps = %g, want 8.5", cfg.DBSCANEps)
	}
	if cfg.SerialPort != "/dev/ttyUSB0" || cfg.SerialBaud != 9600 {
		t.Errorf("serial = %s@%d", cfg.SerialPort, cfg.SerialBaud)
	}
	if cfg.TopicSnapshot != "board/snapshot" {
		t.Errorf("TopicSnapshot = %q", cfg.TopicSnapshot)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	if _, err := Load(writeConfig(t, validConfig+"\nBOGUS_KEY=1\n")); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	if _, err := Load(writeConfig(t, validConfig+"\nno equals sign here\n")); err == nil {
		t.Error("malformed line accepted")
	}
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	removals := []string{
		"WORKSPACE_LENGTH=100",
		"MQTT_BROKER=tcp://localhost:1883",
		"TOPIC_SNAPSHOT=board/snapshot",
		"ACQUIRE_TIMEOUT=2000",
		"LINE_SOURCE=serial",
	}
	for _, line := range removals {
		stripped := strings.Replace(validConfig, line, "", 1)
		if _, err := Load(writeConfig(t, stripped)); err == nil {
			t.Errorf("config without %q accepted", line)
		}
	}
}

func TestLoadRejectsSerialWithoutPort(t *testing.T) {
	stripped := strings.Replace(validConfig, "SERIAL_PORT=/dev/ttyUSB0", "", 1)
	if _, err := Load(writeConfig(t, stripped)); err == nil {
		t.Error("serial source without port accepted")
	}
}

func TestLoadMockSourceNeedsNoSerial(t *testing.T) {
	adjusted := strings.Replace(validConfig, "LINE_SOURCE=serial", "LINE_SOURCE=mock", 1)
	adjusted = strings.Replace(adjusted, "SERIAL_PORT=/dev/ttyUSB0", "", 1)
	adjusted = strings.Replace(adjusted, "SERIAL_BAUD=9600", "", 1)

	if _, err := Load(writeConfig(t, adjusted)); err != nil {
		t.Errorf("mock source rejected: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"angle":       strings.Replace(validConfig, "SENSOR_EFFECTUAL_ANGLE=30", "SENSOR_EFFECTUAL_ANGLE=120", 1),
		"eps":         strings.Replace(validConfig, "DBSCAN_EPS=8.5", "DBSCAN_EPS=-1", 1),
		"average":     strings.Replace(validConfig, "READING_AVERAGE_OF=3", "READING_AVERAGE_OF=0", 1),
		"line source": strings.Replace(validConfig, "LINE_SOURCE=serial", "LINE_SOURCE=telepathy", 1),
		"non-numeric": strings.Replace(validConfig, "SERIAL_BAUD=9600", "SERIAL_BAUD=fast", 1),
	}
	for name, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("%s: bad value accepted", name)
		}
	}
}
