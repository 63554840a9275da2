package proto

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type CreateSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GetSessionRequest struct {
	SessionID string `json:"session_id"`
}

type Session struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Secret  string    `json:"secret,omitempty"`
	Expire  time.Time `json:"expire"`
	Current bool      `json:"current"`
}

type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Prefs        map[string]any `json:"prefs"`
	Registration time.Time      `json:"registration"`
}

type JWT struct {
	JWT string `json:"jwt"`
}

type UpdatePrefsRequest struct {
	Prefs map[string]any `json:"prefs"`
}

type CreateUserRequest struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Encode converts a message into the Struct carried on the wire.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return st, nil
}

// Decode fills v from a wire Struct. A nil Struct decodes as an empty object.
func Decode(st *structpb.Struct, v any) error {
	if st == nil {
		st = &structpb.Struct{}
	}
	b, err := protojson.Marshal(st)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
