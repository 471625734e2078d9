// Package featureflags evaluates runtime toggles configured as a
// comma-separated key=value list, for example
// "metrics_dashboard=on,new_feed=25%,legacy_profiles=off".
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds parsed flags. Every flag normalizes to a rollout share in
// [0,100]: on/true/1 become 100, off/false/0 become 0, and N% keeps N.
// Malformed entries are dropped at parse time.
type Manager struct {
	rollouts map[string]int
}

// NewManager parses a flag list. Names and values are case-insensitive and
// whitespace around them is ignored.
func NewManager(list string) *Manager {
	m := &Manager{rollouts: make(map[string]int)}
	for _, entry := range strings.Split(list, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name = canonical(name)
		if name == "" {
			continue
		}
		if pct, ok := parseRollout(canonical(value)); ok {
			m.rollouts[name] = pct
		}
	}
	return m
}

func parseRollout(value string) (int, bool) {
	switch value {
	case "on", "true", "1":
		return 100, true
	case "off", "false", "0":
		return 0, true
	}
	if !strings.HasSuffix(value, "%") {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if err != nil {
		return 0, false
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// Enabled reports whether the named flag is on for the given user. Partial
// rollouts are deterministic per user; anonymous callers (userID 0) only
// see fully-on flags.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	pct, ok := m.rollouts[canonical(name)]
	if !ok || pct == 0 {
		return false
	}
	if pct == 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return bucket(canonical(name), userID) < pct
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rollouts))
	for name := range m.rollouts {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket maps a user to a stable slot in [0,100) for one flag. The flag
// name feeds the hash so a user does not land in the same cohort for every
// rollout.
func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{'/'})
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
