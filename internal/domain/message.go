package domain

import (
	"encoding/base64"
	"encoding/json"
)

type ToolMessageType string

const (
	ToolMessageText ToolMessageType = "text"
	ToolMessageBlob ToolMessageType = "blob"
)

// BlobMeta describes a binary payload.
type BlobMeta struct {
	MimeType string `json:"mime_type"`
	Filename string `json:"filename"`
}

// ToolMessage is one item of a tool's response stream.
type ToolMessage struct {
	Type ToolMessageType
	Text string
	Blob []byte
	Meta *BlobMeta
}

func NewTextMessage(text string) ToolMessage {
	return ToolMessage{Type: ToolMessageText, Text: text}
}

func NewBlobMessage(blob []byte, meta BlobMeta) ToolMessage {
	return ToolMessage{Type: ToolMessageBlob, Blob: blob, Meta: &meta}
}

type toolMessageEnvelope struct {
	Type    ToolMessageType `json:"type"`
	Message envelopeBody    `json:"message"`
	Meta    *BlobMeta       `json:"meta,omitempty"`
}

type envelopeBody struct {
	Text string `json:"text,omitempty"`
	Blob string `json:"blob,omitempty"`
}

// MarshalJSON encodes the message in the host envelope: blobs travel as base64.
func (m ToolMessage) MarshalJSON() ([]byte, error) {
	env := toolMessageEnvelope{Type: m.Type, Meta: m.Meta}
	switch m.Type {
	case ToolMessageBlob:
		env.Message.Blob = base64.StdEncoding.EncodeToString(m.Blob)
	default:
		env.Message.Text = m.Text
	}
	return json.Marshal(env)
}

func (m *ToolMessage) UnmarshalJSON(data []byte) error {
	var env toolMessageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*m = ToolMessage{Type: env.Type, Text: env.Message.Text, Meta: env.Meta}
	if env.Message.Blob != "" {
		blob, err := base64.StdEncoding.DecodeString(env.Message.Blob)
		if err != nil {
			return err
		}
		m.Blob = blob
	}
	return nil
}
