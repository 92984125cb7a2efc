package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	userdataerrors "hashgate/internal/userdata/errors"
	"hashgate/pkg/logger"
	"hashgate/pkg/metrics"
	"hashgate/pkg/model"

	"github.com/tidwall/gjson"
)

const userDataKey = "user_data"

// eventKeyPaths are tried in order to pick the partition key of an event.
var eventKeyPaths = []string{"client_id", "user_id"}

type UserDataService interface {
	NormalizeUserData(ctx context.Context, ud *model.UserData, hashUserData bool) *model.UserData
	NormalizeEvent(ctx context.Context, event []byte, hashUserData bool) ([]byte, error)
}

type userDataService struct {
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewUserDataService(m *metrics.Metrics, log *logger.Logger) UserDataService {
	return &userDataService{
		metrics: m,
		log:     log,
	}
}

func (s *userDataService) NormalizeUserData(ctx context.Context, ud *model.UserData, hashUserData bool) *model.UserData {
	if ud == nil {
		return nil
	}

	out := Normalize(ud, hashUserData)

	s.metrics.UserDataNormalized(hashUserData)
	var hashedFields []string
	if hashUserData {
		for _, f := range identifierFields {
			if out.Has(f.hashed) {
				s.metrics.FieldHashed(f.hashed)
				hashedFields = append(hashedFields, f.hashed)
			}
		}
	}

	s.log.DebugContext(ctx, "User data normalized",
		"hash_user_data", hashUserData,
		"hashed_fields", hashedFields,
		"opaque_fields", len(out.Extra),
	)

	return out
}

// NormalizeEvent rewrites the user_data member of a JSON event. Events
// without a user_data object come back byte for byte.
func (s *userDataService) NormalizeEvent(ctx context.Context, event []byte, hashUserData bool) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(event, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", userdataerrors.ErrInvalidEvent, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: event is not a JSON object", userdataerrors.ErrInvalidEvent)
	}

	raw, ok := fields[userDataKey]
	if !ok {
		return event, nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		s.log.DebugContext(ctx, "Event user_data is not an object, leaving event unchanged")
		return event, nil
	}

	var ud model.UserData
	if err := json.Unmarshal(raw, &ud); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user_data: %v", userdataerrors.ErrInvalidEvent, err)
	}

	normalized, err := json.Marshal(s.NormalizeUserData(ctx, &ud, hashUserData))
	if err != nil {
		return nil, fmt.Errorf("failed to encode user_data: %w", err)
	}
	fields[userDataKey] = normalized

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return out, nil
}

// EventKey returns the first non-empty client_id or user_id of the event,
// read without decoding the whole document.
func EventKey(event []byte) string {
	for _, path := range eventKeyPaths {
		if v := gjson.GetBytes(event, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
