package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/relay"
	"github.com/robotalks/icarus.go/pkg/relay/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/icarus/"
	filter  = "#"
)

func init() {
	if val := os.Getenv("ICARUS_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter under the prefix.")
}

func printMessage(topic string, payload []byte) {
	text, err := relay.Describe(topic, payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	fmt.Printf("%s %s: %s\n", time.Now().Format("15:04:05.000000"), topic, text)
}

func main() {
	flag.Parse()

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	if err := q.Connect(); err != nil {
		glog.Exitf("connect %s: %v", mqttURL, err)
	}
	defer q.Close()

	framework.NewRunner().HandleSignals().Go(
		framework.NamedRun("monitor", framework.RunFunc(func(ctx context.Context) error {
			sub := q.Sub(filter, printMessage)
			defer sub.Close()
			<-ctx.Done()
			return ctx.Err()
		})),
	).RunOrFail()
}
