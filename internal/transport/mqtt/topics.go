package mqtt

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/chickenfarm/internal/registry"
)

// Home Assistant discovery components.
const (
	componentNumber = "number"
	componentSensor = "sensor"
)

// Topics builds the bridge's topic names.
//
//	topics := Topics{Prefix: "chicken", Discovery: "homeassistant"}
//	topics.NumberSet("pellets_kg")    // chicken/number/pellets_kg/set
//	topics.SensorConfig("total_eggs") // homeassistant/sensor/chicken_total_eggs/config
type Topics struct {
	Prefix    string
	Discovery string
}

// Availability is the retained online/offline topic, also used as the will.
func (t Topics) Availability() string {
	return t.Prefix + "/status"
}

// NumberState returns the state topic of an input field.
func (t Topics) NumberState(key string) string {
	return t.state(componentNumber, key)
}

// NumberSet returns the command topic of an input field.
func (t Topics) NumberSet(key string) string {
	return fmt.Sprintf("%s/%s/%s/set", t.Prefix, componentNumber, key)
}

// AllNumberSets matches every input field command topic.
func (t Topics) AllNumberSets() string {
	return t.NumberSet("+")
}

// SensorState returns the state topic of a derived sensor.
func (t Topics) SensorState(key string) string {
	return t.state(componentSensor, key)
}

// NumberConfig returns the discovery topic of an input field.
func (t Topics) NumberConfig(key string) string {
	return t.config(componentNumber, key)
}

// SensorConfig returns the discovery topic of a derived sensor.
func (t Topics) SensorConfig(key string) string {
	return t.config(componentSensor, key)
}

// KeyFromNumberSet extracts the field key from a command topic.
func (t Topics) KeyFromNumberSet(topic string) (string, bool) {
	prefix := t.Prefix + "/" + componentNumber + "/"
	if !strings.HasPrefix(topic, prefix) || !strings.HasSuffix(topic, "/set") {
		return "", false
	}
	key := strings.TrimSuffix(strings.TrimPrefix(topic, prefix), "/set")
	if key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

func (t Topics) state(component, key string) string {
	return fmt.Sprintf("%s/%s/%s/state", t.Prefix, component, key)
}

func (t Topics) config(component, key string) string {
	return fmt.Sprintf("%s/%s/%s/config", t.Discovery, component, registry.UniqueID(key))
}
