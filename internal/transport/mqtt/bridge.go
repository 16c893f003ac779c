package mqtt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/metrics"
	"github.com/mamadbah2/chickenfarm/internal/registry"
	"github.com/mamadbah2/chickenfarm/internal/store"
)

// Publisher is the part of Client the bridge uses.
type Publisher interface {
	Publish(topic string, payload []byte, retained bool) error
	Subscribe(topic string, handler MessageHandler) error
}

// FieldRegistry lists and writes input fields. *registry.Registry implements it.
type FieldRegistry interface {
	Fields() []models.FieldState
	Spec(key string) (models.FieldSpec, bool)
	Set(key string, value float64) (float64, error)
}

// SensorReader evaluates the derived sensors. *metrics.Reader implements it.
type SensorReader interface {
	ReadAll() []models.SensorReading
}

// ChangeSubscriber notifies about store writes. store.Store implements it.
type ChangeSubscriber interface {
	Subscribe(keys []string, handler store.ChangeHandler) func()
}

// Device groups every entity under one Home Assistant device.
type Device struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
}

type numberConfig struct {
	Name              string  `json:"name"`
	UniqueID          string  `json:"unique_id"`
	StateTopic        string  `json:"state_topic"`
	CommandTopic      string  `json:"command_topic"`
	AvailabilityTopic string  `json:"availability_topic"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	Step              float64 `json:"step"`
	Mode              string  `json:"mode"`
	Unit              string  `json:"unit_of_measurement,omitempty"`
	Icon              string  `json:"icon,omitempty"`
	Device            Device  `json:"device"`
}

type sensorConfig struct {
	Name              string `json:"name"`
	UniqueID          string `json:"unique_id"`
	StateTopic        string `json:"state_topic"`
	AvailabilityTopic string `json:"availability_topic"`
	Unit              string `json:"unit_of_measurement,omitempty"`
	Icon              string `json:"icon,omitempty"`
	Device            Device `json:"device"`
}

// Bridge mirrors fields and sensors onto MQTT and applies set commands.
type Bridge struct {
	client  Publisher
	fields  FieldRegistry
	sensors SensorReader
	changes ChangeSubscriber
	topics  Topics
	device  Device
	logger  *zap.Logger

	mu          sync.Mutex
	lastSensors map[string]string
	unsubscribe func()
}

// NewBridge wires a bridge. Nothing is published until Start.
func NewBridge(client Publisher, fields FieldRegistry, sensors SensorReader, changes ChangeSubscriber, topics Topics, device Device, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		client:      client,
		fields:      fields,
		sensors:     sensors,
		changes:     changes,
		topics:      topics,
		device:      device,
		logger:      logger,
		lastSensors: make(map[string]string),
	}
}

// Start publishes discovery and current states, then follows changes.
func (b *Bridge) Start() error {
	if err := b.publishDiscovery(); err != nil {
		return err
	}

	for _, f := range b.fields.Fields() {
		if f.Kind != models.FieldNumber {
			continue
		}
		b.publishState(b.topics.NumberState(f.Key), formatNumber(f.Value))
	}
	b.publishSensors(true)

	if err := b.client.Subscribe(b.topics.AllNumberSets(), b.handleSet); err != nil {
		return fmt.Errorf("subscribe to set commands: %w", err)
	}

	b.mu.Lock()
	b.unsubscribe = b.changes.Subscribe(nil, b.handleChange)
	b.mu.Unlock()

	b.logger.Info("mqtt bridge started", zap.String("prefix", b.topics.Prefix))
	return nil
}

// Stop stops following store changes.
func (b *Bridge) Stop() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (b *Bridge) publishDiscovery() error {
	for _, f := range b.fields.Fields() {
		if f.Kind != models.FieldNumber {
			continue
		}
		cfg := numberConfig{
			Name:              f.Label,
			UniqueID:          f.UniqueID,
			StateTopic:        b.topics.NumberState(f.Key),
			CommandTopic:      b.topics.NumberSet(f.Key),
			AvailabilityTopic: b.topics.Availability(),
			Min:               f.Min,
			Max:               f.Max,
			Step:              f.Step,
			Mode:              "box",
			Unit:              f.Unit,
			Icon:              f.Icon,
			Device:            b.device,
		}
		if err := b.publishJSON(b.topics.NumberConfig(f.Key), cfg); err != nil {
			return err
		}
	}

	for _, r := range b.sensors.ReadAll() {
		cfg := sensorConfig{
			Name:              r.Name,
			UniqueID:          registry.UniqueID(r.Key),
			StateTopic:        b.topics.SensorState(r.Key),
			AvailabilityTopic: b.topics.Availability(),
			Unit:              r.Unit,
			Icon:              r.Icon,
			Device:            b.device,
		}
		if err := b.publishJSON(b.topics.SensorConfig(r.Key), cfg); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bridge) publishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode discovery %s: %w", topic, err)
	}
	if err := b.client.Publish(topic, payload, true); err != nil {
		return fmt.Errorf("publish discovery %s: %w", topic, err)
	}
	return nil
}

func (b *Bridge) publishState(topic, state string) {
	if err := b.client.Publish(topic, []byte(state), true); err != nil {
		b.logger.Warn("publish state failed", zap.String("topic", topic), zap.Error(err))
	}
}

// publishSensors publishes sensors whose state changed since the last call.
func (b *Bridge) publishSensors(force bool) {
	readings := b.sensors.ReadAll()

	b.mu.Lock()
	changed := make([]models.SensorReading, 0, len(readings))
	states := make([]string, 0, len(readings))
	for _, r := range readings {
		state := sensorState(r)
		if !force && b.lastSensors[r.Key] == state {
			continue
		}
		b.lastSensors[r.Key] = state
		changed = append(changed, r)
		states = append(states, state)
	}
	b.mu.Unlock()

	for i, r := range changed {
		b.publishState(b.topics.SensorState(r.Key), states[i])
	}
}

func (b *Bridge) handleChange(c store.Change) {
	if spec, ok := b.fields.Spec(c.Key); ok && spec.Kind == models.FieldNumber {
		b.publishState(b.topics.NumberState(c.Key), c.New)
	}
	b.publishSensors(false)
}

func (b *Bridge) handleSet(topic string, payload []byte) error {
	key, ok := b.topics.KeyFromNumberSet(topic)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidTopic, topic)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidPayload, key, payload)
	}
	stored, err := b.fields.Set(key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	b.logger.Debug("field set over mqtt", zap.String("field", key), zap.Float64("value", stored))
	return nil
}

func sensorState(r models.SensorReading) string {
	if !r.Available {
		return metrics.StateUnavailable
	}
	switch v := r.State.(type) {
	case float64:
		return formatNumber(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
