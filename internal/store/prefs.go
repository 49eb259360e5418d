package store

import (
	"context"
	"encoding/json"
	"log"
)

// Preferences holds per-user settings as a JSON map under one key per user.
// A store failure degrades to the caller-supplied default rather than an
// error so a flaky backend never blocks a request.
type Preferences struct {
	kv KV
}

func NewPreferences(kv KV) *Preferences {
	return &Preferences{kv: kv}
}

func prefsKey(userID string) string { return "prefs:" + userID }

func (p *Preferences) Get(ctx context.Context, userID, key, fallback string) string {
	raw, err := p.kv.Get(ctx, prefsKey(userID))
	if err != nil {
		if err != ErrNotFound {
			log.Printf("[Prefs] Read failed for user %s: %v", userID, err)
		}
		return fallback
	}

	var prefs map[string]string
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return fallback
	}
	if v, ok := prefs[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (p *Preferences) Set(ctx context.Context, userID, key, value string) {
	prefs := map[string]string{}
	if raw, err := p.kv.Get(ctx, prefsKey(userID)); err == nil {
		json.Unmarshal([]byte(raw), &prefs)
	}
	prefs[key] = value

	data, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := p.kv.Set(ctx, prefsKey(userID), string(data), 0); err != nil {
		log.Printf("[Prefs] Write failed for user %s: %v", userID, err)
	}
}
