package mqtt

import (
	"testing"

	"github.com/mamadbah2/chickenfarm/internal/config"
)

func TestTopics(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "availability", got: testTopics.Availability(), want: "chicken/status"},
		{name: "number state", got: testTopics.NumberState("pellets_kg"), want: "chicken/number/pellets_kg/state"},
		{name: "number set", got: testTopics.NumberSet("pellets_kg"), want: "chicken/number/pellets_kg/set"},
		{name: "all sets", got: testTopics.AllNumberSets(), want: "chicken/number/+/set"},
		{name: "sensor state", got: testTopics.SensorState("total_eggs"), want: "chicken/sensor/total_eggs/state"},
		{name: "number config", got: testTopics.NumberConfig("pellets_kg"), want: "homeassistant/number/chicken_pellets_kg/config"},
		{name: "sensor config", got: testTopics.SensorConfig("total_eggs"), want: "homeassistant/sensor/chicken_total_eggs/config"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestKeyFromNumberSet(t *testing.T) {
	tests := []struct {
		topic  string
		want   string
		wantOK bool
	}{
		{topic: "chicken/number/pellets_kg/set", want: "pellets_kg", wantOK: true},
		{topic: "chicken/number/pellets_kg/state", wantOK: false},
		{topic: "chicken/sensor/total_eggs/set", wantOK: false},
		{topic: "chicken/number//set", wantOK: false},
		{topic: "chicken/number/a/b/set", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := testTopics.KeyFromNumberSet(tt.topic)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("KeyFromNumberSet(%q) = %q, %v; want %q, %v", tt.topic, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		BrokerHost:      "broker.local",
		BrokerPort:      1884,
		ClientID:        "farm-1",
		Username:        "farmer",
		Password:        "secret",
		TopicPrefix:     "chicken",
		DiscoveryPrefix: "homeassistant",
		QoS:             1,
	}

	opts := buildClientOptions(cfg)
	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://broker.local:1884" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "farm-1" || opts.Username != "farmer" || opts.Password != "secret" {
		t.Errorf("identity = %s/%s", opts.ClientID, opts.Username)
	}
	if !opts.WillEnabled || opts.WillTopic != "chicken/status" || string(opts.WillPayload) != payloadOffline || !opts.WillRetained {
		t.Errorf("will = %v %s %q", opts.WillEnabled, opts.WillTopic, opts.WillPayload)
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("auto reconnect and clean session must be enabled")
	}
}
