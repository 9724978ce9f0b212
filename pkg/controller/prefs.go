package controller

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// Params are the connection settings remembered between sessions.
type Params struct {
	CloudIP   string `yaml:"cxr_last_server_ip_addr"`
	Anchor    string `yaml:"cxr_last_cloud_anchor"`
	WebRTCIP  string `yaml:"webrtc_last_server_ip_addr"`
	RoomID    string `yaml:"webrtc_last_room_id"`
	MediaPipe bool   `yaml:"mediapipe_last_enable"`
}

// LaunchArgs renders p in the launch option syntax understood by the engine.
func (p Params) LaunchArgs() string {
	var b strings.Builder
	add := func(flag, v string) {
		if v == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(flag)
		b.WriteByte(' ')
		b.WriteString(v)
	}
	add("--server", p.CloudIP)
	add("--anchor", p.Anchor)
	add("--webrtc", p.WebRTCIP)
	add("--room", p.RoomID)
	if p.MediaPipe {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("--mediapipe")
	}
	return b.String()
}

// Prefs stores Params.
type Prefs interface {
	Load() (Params, error)
	Save(Params) error
}

// FilePrefs keeps Params in a YAML file. A missing file loads as zero
// Params.
type FilePrefs struct {
	path string
	mu   sync.Mutex
}

// NewFilePrefs returns prefs stored at path.
func NewFilePrefs(path string) *FilePrefs {
	return &FilePrefs{path: path}
}

func (f *FilePrefs) Load() (Params, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Params{}, nil
	}
	if err != nil {
		return Params{}, fmt.Errorf("read prefs: %w", err)
	}
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse prefs %s: %w", f.path, err)
	}
	return p, nil
}

// Save replaces the file atomically.
func (f *FilePrefs) Save(p Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
