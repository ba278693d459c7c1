package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/ground"
	"github.com/robotalks/icarus.go/pkg/joystick"
	"github.com/robotalks/icarus.go/pkg/wire"
)

var (
	linkURL = "tcp://localhost:7777"
	framing = "cobs"
)

func init() {
	if val := os.Getenv("ICARUS_LINK"); val != "" {
		linkURL = val
	}
	flag.StringVar(&linkURL, "link", linkURL, "Flight core link URL.")
	flag.StringVar(&framing, "framing", framing, "Frame encoding: cobs or header.")
	joystick.SetupFlags()
}

func main() {
	flag.Parse()

	runner := fx.NewRunner().HandleSignals()
	link, err := ground.Dial(runner.Context, linkURL, framing)
	if err != nil {
		glog.Exit(err)
	}
	defer link.Close()
	link.Subscribe(func(msg wire.Message) {
		glog.V(1).Info(ground.Format(msg))
	})

	loop := fx.NewLoop().
		AddRunnable(fx.NamedRun("link", fx.RunFunc(link.Run))).
		Add(joystick.NewConfig().NewController(link))
	runner.Go(fx.NamedRun("loop", loop)).RunOrFail()
}
