package simengine

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// LaunchOptions is the subset of client launch options the engine
// understands.
type LaunchOptions struct {
	Server     string
	Anchor     string
	WebRTC     string
	Room       string
	MediaPipe  bool
	HostAnchor bool
}

// ParseLaunchOptions parses a command-line style option string such as
// "-s 10.0.0.2 --anchor ua-123". Unknown flags and stray arguments are
// ignored.
func ParseLaunchOptions(s string) (LaunchOptions, error) {
	var lo LaunchOptions
	fs := pflag.NewFlagSet("cloudxr", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	fs.StringVarP(&lo.Server, "server", "s", "", "streaming server address")
	fs.StringVarP(&lo.Anchor, "anchor", "a", "", "cloud anchor id to resolve")
	fs.StringVar(&lo.WebRTC, "webrtc", "", "WebRTC signalling address")
	fs.StringVar(&lo.Room, "room", "", "WebRTC room id")
	fs.BoolVar(&lo.MediaPipe, "mediapipe", false, "enable hand tracking")
	fs.BoolVar(&lo.HostAnchor, "host-anchor", false, "host a new cloud anchor")

	if err := fs.Parse(strings.Fields(s)); err != nil {
		return LaunchOptions{}, fmt.Errorf("parse launch options: %w", err)
	}
	return lo, nil
}

// merge overlays the fields set in o onto lo.
func (lo LaunchOptions) merge(o LaunchOptions) LaunchOptions {
	if o.Server != "" {
		lo.Server = o.Server
	}
	if o.Anchor != "" {
		lo.Anchor = o.Anchor
	}
	if o.WebRTC != "" {
		lo.WebRTC = o.WebRTC
	}
	if o.Room != "" {
		lo.Room = o.Room
	}
	lo.MediaPipe = lo.MediaPipe || o.MediaPipe
	lo.HostAnchor = lo.HostAnchor || o.HostAnchor
	return lo
}
