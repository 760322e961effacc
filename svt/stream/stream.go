// Package stream publishes rendered simulation frames to an MQTT broker,
// so a remote client can watch a running solver's output live.
package stream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// Config holds the broker connection settings.
type Config struct {
	URL      string
	Username string
	Password string
	Topic    string
	ClientID string
}

// Streamer publishes frames to one MQTT topic.
type Streamer struct {
	client mqtt.Client
	topic  string
}

// NewStreamer connects to the broker and returns a ready streamer.
func NewStreamer(cfg Config) (*Streamer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mqtt broker url is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("mqtt topic is required")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "svt"
	}
	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			logrus.Infof("connected to broker %s", cfg.URL)
		})
	client := mqtt.NewClient(options)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.URL, token.Error())
	}
	return &Streamer{client: client, topic: cfg.Topic}, nil
}

// PublishFrame sends one rendered frame as binary over MQTT.
func (s *Streamer) PublishFrame(index int, img image.Image) error {
	payload, err := MarshalFrame(index, img)
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, 1, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing frame %d: %w", index, err)
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight messages to drain.
func (s *Streamer) Close() {
	s.client.Disconnect(250)
}

// MarshalFrame encodes the wire payload: a little-endian uint32 frame index
// followed by the PNG-encoded image.
func MarshalFrame(index int, img image.Image) ([]byte, error) {
	if index < 0 {
		return nil, fmt.Errorf("frame index must be non-negative, got %d", index)
	}
	var buf bytes.Buffer
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(index))
	buf.Write(header[:])
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding frame %d: %w", index, err)
	}
	return buf.Bytes(), nil
}
