package config

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ChannelFile is the on-disk channel mapping:
//
//	channels:
//	  facebook_paid_ads:
//	    - https://api.calendly.com/event_types/...
type ChannelFile struct {
	Channels map[string][]string `yaml:"channels"`
}

// LoadChannelMap reads the channel file and inverts it into an
// event-type URI -> channel lookup. A URI listed under two channels is an
// error.
func LoadChannelMap(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel map: %w", err)
	}
	return ParseChannelMap(raw)
}

func ParseChannelMap(raw []byte) (map[string]string, error) {
	var f ChannelFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse channel map: %w", err)
	}

	out := make(map[string]string)
	for channel, uris := range f.Channels {
		channel = strings.TrimSpace(channel)
		if channel == "" {
			return nil, fmt.Errorf("channel map: empty channel name")
		}
		for _, uri := range uris {
			uri = strings.TrimSpace(uri)
			if uri == "" {
				continue
			}
			if prev, ok := out[uri]; ok && prev != channel {
				return nil, fmt.Errorf("channel map: %s listed under %s and %s", uri, prev, channel)
			}
			out[uri] = channel
		}
	}
	return out, nil
}
