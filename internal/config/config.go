package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values. Units: distances in mm,
// angles in degrees, delays in milliseconds.
type Config struct {
	// Proximity sensor
	SensorEffectualAngle int
	SensorMinDistance    int
	SensorMaxDistance    int

	// Workspace
	WorkspaceLength  int
	WorkspaceBreadth int

	// Display scale
	ScaleLength  int
	ScaleBreadth int

	// Readings
	ReadingAverageOf int
	ReadingDelay     int // milliseconds between averaged readings
	AcquireTimeout   int // milliseconds before an acquisition stalls out

	// Spline interpolation
	SplineMaxPoints   int
	SplineMinDistance int
	SplineMaxDistance int

	// Outlier removal
	DBSCANEps        float64
	DBSCANMinSamples int

	// Line source: "serial", "mock" or "replay"
	LineSource string
	SerialPort string
	SerialBaud int
	ReplayFile string

	// MQTT
	MQTTBroker          string
	MQTTClientIDPlotter string
	MQTTClientIDWeb     string
	MQTTClientIDConsole string
	MQTTClientIDDisplay string
	TopicSnapshot       string
	TopicCommand        string

	// Web server
	WebServerPort int

	// OLED status display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for the singleton:
//   - globalConfig is only reachable through InitGlobal/Get, so no package can
//     mutate configuration mid-run.
//   - configOnce ensures InitGlobal only loads once.
//   - configMu lets concurrent consumers read without blocking each other.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) intValue(key, value string, dst *int) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = v
	return nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Proximity sensor
	case "SENSOR_EFFECTUAL_ANGLE":
		return c.intValue(key, value, &c.SensorEffectualAngle)
	case "SENSOR_MIN_DISTANCE":
		return c.intValue(key, value, &c.SensorMinDistance)
	case "SENSOR_MAX_DISTANCE":
		return c.intValue(key, value, &c.SensorMaxDistance)

	// Workspace
	case "WORKSPACE_LENGTH":
		return c.intValue(key, value, &c.WorkspaceLength)
	case "WORKSPACE_BREADTH":
		return c.intValue(key, value, &c.WorkspaceBreadth)

	// Display scale
	case "SCALE_LENGTH":
		return c.intValue(key, value, &c.ScaleLength)
	case "SCALE_BREADTH":
		return c.intValue(key, value, &c.ScaleBreadth)

	// Readings
	case "READING_AVERAGE_OF":
		return c.intValue(key, value, &c.ReadingAverageOf)
	case "READING_DELAY":
		return c.intValue(key, value, &c.ReadingDelay)
	case "ACQUIRE_TIMEOUT":
		return c.intValue(key, value, &c.AcquireTimeout)

	// Spline interpolation
	case "SPLINE_MAX_POINTS":
		return c.intValue(key, value, &c.SplineMaxPoints)
	case "SPLINE_MIN_DISTANCE":
		return c.intValue(key, value, &c.SplineMinDistance)
	case "SPLINE_MAX_DISTANCE":
		return c.intValue(key, value, &c.SplineMaxDistance)

	// Outlier removal
	case "DBSCAN_EPS":
		eps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid DBSCAN_EPS %q: %w", value, err)
		}
		if eps <= 0 {
			return fmt.Errorf("DBSCAN_EPS must be positive, got %g", eps)
		}
		c.DBSCANEps = eps
	case "DBSCAN_MIN_SAMPLES":
		return c.intValue(key, value, &c.DBSCANMinSamples)

	// Line source
	case "LINE_SOURCE":
		if value != "serial" && value != "mock" && value != "replay" {
			return fmt.Errorf("LINE_SOURCE must be serial, mock or replay, got %q", value)
		}
		c.LineSource = value
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		return c.intValue(key, value, &c.SerialBaud)
	case "REPLAY_FILE":
		c.ReplayFile = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PLOTTER":
		c.MQTTClientIDPlotter = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "TOPIC_SNAPSHOT":
		c.TopicSnapshot = value
	case "TOPIC_COMMAND":
		c.TopicCommand = value

	// Web server
	case "WEB_SERVER_PORT":
		return c.intValue(key, value, &c.WebServerPort)

	// OLED status display
	case "DISPLAY_UPDATE_INTERVAL":
		return c.intValue(key, value, &c.DisplayUpdateInterval)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set and plausible.
func (c *Config) validate() error {
	if c.WorkspaceLength <= 0 || c.WorkspaceBreadth <= 0 {
		return fmt.Errorf("WORKSPACE_LENGTH and WORKSPACE_BREADTH must be positive")
	}
	if c.SensorEffectualAngle <= 0 || c.SensorEffectualAngle > 90 {
		return fmt.Errorf("SENSOR_EFFECTUAL_ANGLE must be in (0, 90], got %d", c.SensorEffectualAngle)
	}
	if c.ReadingAverageOf < 1 {
		return fmt.Errorf("READING_AVERAGE_OF must be at least 1")
	}
	if c.AcquireTimeout <= 0 {
		return fmt.Errorf("ACQUIRE_TIMEOUT is required")
	}
	if c.SplineMaxPoints < 2 {
		return fmt.Errorf("SPLINE_MAX_POINTS must be at least 2")
	}
	if c.DBSCANEps == 0 {
		return fmt.Errorf("DBSCAN_EPS is required")
	}
	if c.DBSCANMinSamples < 1 {
		return fmt.Errorf("DBSCAN_MIN_SAMPLES must be at least 1")
	}
	switch c.LineSource {
	case "serial":
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required when LINE_SOURCE=serial")
		}
		if c.SerialBaud == 0 {
			return fmt.Errorf("SERIAL_BAUD is required when LINE_SOURCE=serial")
		}
	case "replay":
		if c.ReplayFile == "" {
			return fmt.Errorf("REPLAY_FILE is required when LINE_SOURCE=replay")
		}
	case "mock":
	default:
		return fmt.Errorf("LINE_SOURCE is required")
	}
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicSnapshot == "" {
		return fmt.Errorf("TOPIC_SNAPSHOT is required")
	}
	if c.TopicCommand == "" {
		return fmt.Errorf("TOPIC_COMMAND is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
