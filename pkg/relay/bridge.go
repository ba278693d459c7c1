// Package relay republishes flight core telemetry over MQTT and forwards
// commands back to the device.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/relay/mqtt"
	"github.com/robotalks/icarus.go/pkg/relay/msgs"
	"github.com/robotalks/icarus.go/pkg/wire"
)

// DeviceID derives a stable device id from the host machine id.
func DeviceID() (string, error) {
	id, err := machineid.ProtectedID("icarus")
	if err != nil {
		return "", err
	}
	return id[:12], nil
}

// Device is the flight core end of the bridge, usually a ground.Link.
type Device interface {
	Subscribe(h func(wire.Message)) (unsubscribe func())
	Send(msg wire.Message) error
}

// PubSub is the broker end of the bridge, usually an mqtt.Queue.
type PubSub interface {
	Publish(topic string, payload []byte, retain bool) error
	Subscribe(filter string, h mqtt.Handler) (unsubscribe func() error, err error)
}

// Meta is published retained on <device>/meta.
type Meta struct {
	Device  string `json:"device"`
	Link    string `json:"link"`
	Framing string `json:"framing"`
}

// Bridge connects a Device with a PubSub.
type Bridge struct {
	DeviceID string
	Device   Device
	PubSub   PubSub
	Meta     Meta

	published, commands, failures atomic.Uint64
}

// StateTopic is where telemetry of kind is published.
func (b *Bridge) StateTopic(tag wire.Tag) string {
	return b.DeviceID + "/state/" + strings.ToLower(tag.String())
}

// CommandTopic is where commands are received.
func (b *Bridge) CommandTopic() string {
	return b.DeviceID + "/cmd"
}

// Stats returns counters of published telemetry, forwarded commands and
// failures.
func (b *Bridge) Stats() (published, commands, failures uint64) {
	return b.published.Load(), b.commands.Load(), b.failures.Load()
}

// Run bridges until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	if b.DeviceID == "" {
		return fmt.Errorf("device id required")
	}
	b.Meta.Device = b.DeviceID
	meta, err := json.Marshal(&b.Meta)
	if err != nil {
		return err
	}
	if err := b.PubSub.Publish(b.DeviceID+"/meta", meta, true); err != nil {
		return fmt.Errorf("publish meta: %w", err)
	}
	unsub, err := b.PubSub.Subscribe(b.CommandTopic(), b.handleCommand)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.CommandTopic(), err)
	}
	defer unsub()
	defer b.Device.Subscribe(b.handleTelemetry)()
	glog.Infof("relaying %s", b.DeviceID)
	<-ctx.Done()
	return ctx.Err()
}

func (b *Bridge) handleTelemetry(msg wire.Message) {
	payload, err := msgs.EncodeWire(msg)
	if err != nil {
		b.failures.Add(1)
		glog.Warningf("encode %s: %v", msg.Tag(), err)
		return
	}
	if err := b.PubSub.Publish(b.StateTopic(msg.Tag()), payload, false); err != nil {
		b.failures.Add(1)
		glog.Warningf("publish %s: %v", msg.Tag(), err)
		return
	}
	b.published.Add(1)
}

func (b *Bridge) handleCommand(topic string, payload []byte) {
	msg, err := decodeCommand(payload)
	if err == nil {
		err = b.Device.Send(msg)
	}
	if err != nil {
		b.failures.Add(1)
		glog.Warningf("%s: %v", topic, err)
		return
	}
	b.commands.Add(1)
}

func decodeCommand(payload []byte) (wire.Message, error) {
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return nil, err
	}
	if !typed.IsCommand() {
		return nil, fmt.Errorf("type %x is not a command", typed.TypeId)
	}
	msg, err := typed.Decode()
	if err != nil {
		return nil, err
	}
	return msg.Wire(), nil
}

// QueuePubSub adapts an mqtt.Queue to PubSub.
type QueuePubSub struct {
	Queue *mqtt.Queue
}

// Publish implements PubSub.
func (p QueuePubSub) Publish(topic string, payload []byte, retain bool) error {
	token := p.Queue.PubWith(topic, payload, 0, retain)
	if retain {
		return mqtt.Wait(token)
	}
	return nil
}

// Subscribe implements PubSub.
func (p QueuePubSub) Subscribe(filter string, h mqtt.Handler) (func() error, error) {
	sub := p.Queue.Sub(filter, h)
	if err := mqtt.Wait(sub.Token); err != nil {
		sub.Close()
		return nil, err
	}
	return sub.Close, nil
}
