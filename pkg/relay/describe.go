package relay

import (
	"fmt"
	"strings"

	"github.com/robotalks/icarus.go/pkg/ground"
	"github.com/robotalks/icarus.go/pkg/relay/msgs"
)

// Describe renders a payload received on a relay topic.
func Describe(topic string, payload []byte) (string, error) {
	if strings.HasSuffix(topic, "/meta") {
		return string(payload), nil
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return "", fmt.Errorf("bad envelope: %w", err)
	}
	msg, err := typed.Decode()
	if err != nil {
		return "", fmt.Errorf("type %08x: %w", typed.TypeId, err)
	}
	return ground.Format(msg.Wire()), nil
}
