package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-admin/internal/domain/session"
)

// ValkeyStore keeps dashboard sessions in Valkey as JSON documents.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (session.State, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return session.State{}, false, nil
		}
		return session.State{}, false, err
	}
	var state session.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return session.State{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, state session.State, ttl time.Duration) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(state.ID)).Value(valkey.BinaryString(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(id)).Build()).Error()
}

func (s *ValkeyStore) key(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

var _ session.Store = (*ValkeyStore)(nil)
