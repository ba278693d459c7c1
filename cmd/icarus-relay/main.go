package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/ground"
	"github.com/robotalks/icarus.go/pkg/relay"
	"github.com/robotalks/icarus.go/pkg/relay/mqtt"
)

var (
	linkURL  = "serial:///dev/ttyUSB0"
	framing  = "cobs"
	mqttURL  = "mqtt://localhost:1883/icarus/"
	deviceID string
)

func init() {
	if val := os.Getenv("ICARUS_LINK"); val != "" {
		linkURL = val
	}
	if val := os.Getenv("ICARUS_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&linkURL, "link", linkURL, "Flight core link URL.")
	flag.StringVar(&framing, "framing", framing, "Frame encoding: cobs or header.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&deviceID, "device", deviceID, "Device id in topics, defaults to one derived from the machine id.")
}

func main() {
	flag.Parse()

	if deviceID == "" {
		id, err := relay.DeviceID()
		if err != nil {
			glog.Exitf("device id: %v", err)
		}
		deviceID = id
	}

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	if err := q.Connect(); err != nil {
		glog.Exitf("connect %s: %v", mqttURL, err)
	}
	defer q.Close()

	runner := framework.NewRunner().HandleSignals()
	link, err := ground.Dial(runner.Context, linkURL, framing)
	if err != nil {
		glog.Exit(err)
	}
	defer link.Close()

	bridge := &relay.Bridge{
		DeviceID: deviceID,
		Device:   link,
		PubSub:   relay.QueuePubSub{Queue: q},
		Meta:     relay.Meta{Link: linkURL, Framing: framing},
	}
	runner.Go(
		framework.NamedRun("link", framework.RunFunc(link.Run)),
		framework.NamedRun("bridge", framework.RunFunc(bridge.Run)),
	).RunOrFail()
}
